package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestRunFrameLoopTicker(t *testing.T) {
	mock := clock.NewMock()
	const interval = 20 * time.Millisecond
	frames := NewTickerFrames(mock, interval, 3)
	defer frames.Stop()

	stepped := make(chan float64)
	done := make(chan error, 1)
	go func() {
		done <- RunFrameLoop(context.Background(), frames, func(dt float64) error {
			stepped <- dt
			return nil
		})
	}()

	var dts []float64
	for i := 0; i < 3; i++ {
		mock.Add(interval)
		select {
		case dt := <-stepped:
			dts = append(dts, dt)
		case <-time.After(2 * time.Second):
			t.Fatalf("frame %d never ran", i)
		}
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunFrameLoop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after frame limit")
	}

	want := []float64{0, interval.Seconds(), interval.Seconds()}
	for i := range want {
		if dts[i] != want[i] {
			t.Errorf("dt[%d] = %v, want %v", i, dts[i], want[i])
		}
	}
}

func TestRunFrameLoopCancelled(t *testing.T) {
	mock := clock.NewMock()
	ctx, cancel := context.WithCancel(context.Background())

	steps := 0
	frames := FuncFrames{Clock: mock, Next: func() bool {
		mock.Add(16 * time.Millisecond)
		return true
	}}
	err := RunFrameLoop(ctx, frames, func(dt float64) error {
		steps++
		if steps == 2 {
			cancel()
		}
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if steps != 2 {
		t.Errorf("expected loop to stop after the cancelling frame, ran %d", steps)
	}
}

func TestRunFrameLoopCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames := FuncFrames{Clock: clock.NewMock(), Next: func() bool { return true }}
	err := RunFrameLoop(ctx, frames, func(float64) error {
		t.Error("step must not run on a cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunFrameLoopStepError(t *testing.T) {
	errBoom := errors.New("boom")
	mock := clock.NewMock()

	frames := FuncFrames{Clock: mock, Next: func() bool { return true }}
	calls := 0
	err := RunFrameLoop(context.Background(), frames, func(float64) error {
		calls++
		if calls == 3 {
			return errBoom
		}
		return nil
	})

	if !errors.Is(err, errBoom) {
		t.Errorf("expected errBoom, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRunFrameLoopSourceClosed(t *testing.T) {
	remaining := 2
	frames := FuncFrames{Clock: clock.NewMock(), Next: func() bool {
		remaining--
		return remaining >= 0
	}}

	steps := 0
	if err := RunFrameLoop(context.Background(), frames, func(float64) error {
		steps++
		return nil
	}); err != nil {
		t.Fatalf("RunFrameLoop: %v", err)
	}
	if steps != 2 {
		t.Errorf("expected 2 steps, got %d", steps)
	}
}

func TestFuncFramesMeasuresClock(t *testing.T) {
	mock := clock.NewMock()
	frames := FuncFrames{Clock: mock, Next: func() bool {
		mock.Add(50 * time.Millisecond)
		return true
	}}

	var dts []float64
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = RunFrameLoop(ctx, frames, func(dt float64) error {
		dts = append(dts, dt)
		if len(dts) == 3 {
			cancel()
		}
		return nil
	})

	if len(dts) != 3 || dts[1] != 0.05 || dts[2] != 0.05 {
		t.Errorf("unexpected dts %v", dts)
	}
}
