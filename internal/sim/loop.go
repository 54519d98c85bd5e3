package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
)

// ErrFramesClosed is returned by a FrameSource that will produce no more frames.
var ErrFramesClosed = errors.New("frame source closed")

// FrameSource signals when the next frame should run.
type FrameSource interface {
	// Wait blocks until the next frame and returns its timestamp.
	Wait(ctx context.Context) (time.Time, error)
}

// RunFrameLoop waits for each frame and calls step with the seconds elapsed
// since the previous one (0 for the first frame). It returns nil when the
// source closes, ctx.Err() when ctx is cancelled, and the step error if
// step fails.
func RunFrameLoop(ctx context.Context, frames FrameSource, step func(dt float64) error) error {
	var last time.Time
	for frame := 0; ; frame++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		now, err := frames.Wait(ctx)
		if errors.Is(err, ErrFramesClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		dt := 0.0
		if !last.IsZero() {
			dt = now.Sub(last).Seconds()
		}
		last = now

		if err := step(dt); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
	}
}

// TickerFrames produces frames at a fixed interval from a clock ticker.
// It is used when no display drives the loop.
type TickerFrames struct {
	ticker *clock.Ticker
	limit  int
	count  int
}

// NewTickerFrames starts a ticker on clk. limit > 0 closes the source after
// that many frames.
func NewTickerFrames(clk clock.Clock, interval time.Duration, limit int) *TickerFrames {
	return &TickerFrames{ticker: clk.Ticker(interval), limit: limit}
}

// Wait implements FrameSource.
func (f *TickerFrames) Wait(ctx context.Context) (time.Time, error) {
	if f.limit > 0 && f.count >= f.limit {
		return time.Time{}, ErrFramesClosed
	}
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case now := <-f.ticker.C:
		f.count++
		return now, nil
	}
}

// Stop releases the ticker.
func (f *TickerFrames) Stop() {
	f.ticker.Stop()
}

// FuncFrames produces a frame each time Next returns true, timestamped by
// Clock. Next typically presents the previous frame and blocks on vsync.
type FuncFrames struct {
	Clock clock.Clock
	Next  func() bool
}

// Wait implements FrameSource.
func (f FuncFrames) Wait(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	if !f.Next() {
		return time.Time{}, ErrFramesClosed
	}
	return f.Clock.Now(), nil
}
