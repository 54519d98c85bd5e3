package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/config"
	"github.com/Faultbox/gldemos/internal/engine/audio"
	"github.com/Faultbox/gldemos/internal/engine/debug"
	"github.com/Faultbox/gldemos/internal/engine/input"
	"github.com/Faultbox/gldemos/internal/engine/renderer"
	"github.com/Faultbox/gldemos/internal/engine/window"
	"github.com/Faultbox/gldemos/internal/sim"
	"github.com/Faultbox/gldemos/pkg/math"
)

// statsInterval is how often the runner logs frame statistics.
const statsInterval = 5 * time.Second

// Run drives d until the window closes, Frames is reached, or ctx is
// cancelled.
func Run(ctx context.Context, cfg *config.Config, d Demo, clk clock.Clock) error {
	c := NewContext(cfg, clk)
	if cfg.Graphics.Headless {
		fps := cfg.Demo.HeadlessFPS
		if fps <= 0 {
			fps = 60
		}
		frames := sim.NewTickerFrames(c.Clock, time.Second/time.Duration(fps), cfg.Demo.Frames)
		defer frames.Stop()
		return RunHeadless(ctx, c, d, frames)
	}
	return runWindowed(ctx, c, d)
}

// RunHeadless sets d up in c and steps it on every frame from frames
// without drawing.
func RunHeadless(ctx context.Context, c *Context, d Demo, frames sim.FrameSource) error {
	c.Log.Info("running headless", zap.String("demo", d.Name()))
	defer d.Close()
	if err := d.Setup(c); err != nil {
		return fmt.Errorf("setup %s: %w", d.Name(), err)
	}

	err := sim.RunFrameLoop(ctx, frames, func(dt float64) error {
		for _, e := range c.Input.Events() {
			d.HandleEvent(c, e)
		}
		if err := d.Update(c, dt); err != nil {
			return err
		}
		c.Input.Update(noEvents{})
		c.Elapsed += dt
		c.Frame++
		if c.Frame%60 == 0 {
			logBodies(c)
		}
		return nil
	})
	logBodies(c)
	return err
}

// noEvents is the input source of a run without a window.
type noEvents struct{}

func (noEvents) PollEvents(dst []input.Event) []input.Event { return dst }

func logBodies(c *Context) {
	for _, p := range c.Pairs {
		pos := p.Body.Position
		c.Log.Info("body",
			zap.Int("frame", c.Frame),
			zap.String("node", p.Node.Name),
			zap.Float32("x", pos[0]),
			zap.Float32("y", pos[1]),
			zap.Float32("z", pos[2]))
	}
}

// runWindowed opens a window and runs input, update, render and present
// once per vsync.
func runWindowed(ctx context.Context, c *Context, d Demo) error {
	cfg := c.Config
	win, err := window.New(window.Config{
		Title:      "gldemos - " + d.Name(),
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.Samples,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	// The drawable size may differ from the requested one.
	width, height := win.DrawableSize()
	r, err := renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: math.Vec3{},
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer r.Close()
	if cfg.Graphics.Shadows {
		if err := r.EnableShadows(int32(cfg.Graphics.ShadowSize)); err != nil {
			c.Log.Warn("shadows disabled", zap.Error(err))
		}
	}
	c.Renderer = r
	c.Camera.SetViewport(width, height)

	if cfg.Audio.Enabled {
		am := audio.New()
		if err := am.Init(); err != nil {
			c.Log.Warn("audio disabled", zap.Error(err))
		} else {
			am.SetMasterVolume(float64(cfg.Audio.Volume))
			am.SetSFXVolume(float64(cfg.Audio.SFXVolume))
			c.Audio = am
			defer am.Close()
		}
	}

	defer d.Close()
	if err := d.Setup(c); err != nil {
		return fmt.Errorf("setup %s: %w", d.Name(), err)
	}

	shots := debug.NewScreenshotCapture("screenshots", d.Name(), c.Clock)
	quit := false
	presented := false
	frames := sim.FuncFrames{
		Clock: c.Clock,
		Next: func() bool {
			if presented {
				win.SwapBuffers()
			}
			presented = true
			return !quit
		},
	}

	var statsFrames int
	statsAt := c.Clock.Now()

	c.Log.Info("starting frame loop", zap.String("demo", d.Name()))
	return sim.RunFrameLoop(ctx, frames, func(dt float64) error {
		// 1. Input
		if c.Input.Update(win) || c.Input.IsKeyPressed(input.KeyEscape) {
			quit = true
			return nil
		}
		for _, e := range c.Input.Events() {
			handleViewEvent(c, e)
			d.HandleEvent(c, e)
		}

		// 2. Update
		if err := d.Update(c, dt); err != nil {
			return err
		}
		c.Camera.Update(dt)

		// 3. Render
		if err := d.Render(c); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if c.Input.IsKeyPressed(input.KeyF12) {
			pixels, w, h := r.ReadPixels()
			if name, err := shots.CaptureFromPixels(pixels, w, h); err != nil {
				c.Log.Warn("screenshot failed", zap.Error(err))
			} else {
				c.Log.Info("screenshot saved", zap.String("file", name))
			}
		}

		c.Elapsed += dt
		c.Frame++

		statsFrames++
		if now := c.Clock.Now(); now.Sub(statsAt) >= statsInterval {
			s := r.Stats()
			fps := float64(statsFrames) / now.Sub(statsAt).Seconds()
			win.ShowStats(fps)
			c.Log.Debug("frame stats",
				zap.Float64("fps", fps),
				zap.Int("draw_calls", s.DrawCalls),
				zap.Int("triangles", s.Triangles))
			statsFrames = 0
			statsAt = now
		}
		return nil
	})
}

// handleViewEvent applies the runner-owned reactions: viewport resize and
// orbit controls.
func handleViewEvent(c *Context, e input.Event) {
	switch e.Type {
	case input.EventWindowResize:
		c.Renderer.Resize(e.Width, e.Height)
		c.Camera.SetViewport(e.Width, e.Height)
	case input.EventMouseMove:
		if c.Input.IsButtonDown(input.ButtonLeft) || c.Input.IsButtonDown(input.ButtonRight) {
			c.Camera.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
		}
	case input.EventMouseWheel:
		c.Camera.HandleZoom(float32(e.DeltaY))
	}
}
