package outline

import (
	"testing"

	"github.com/benbjohnson/clock"

	"github.com/Faultbox/gldemos/internal/config"
	"github.com/Faultbox/gldemos/internal/demo"
	"github.com/Faultbox/gldemos/internal/engine/input"
	"github.com/Faultbox/gldemos/internal/engine/lighting"
)

func setup(t *testing.T) (*Demo, *demo.Context) {
	t.Helper()
	cfg := config.Default()
	cfg.Assets.Root = t.TempDir()
	ctx := demo.NewContext(cfg, clock.NewMock())
	d := New()
	if err := d.Setup(ctx); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	t.Cleanup(d.Close)
	return d, ctx
}

func TestSetupPlacesModels(t *testing.T) {
	d, _ := setup(t)
	for i, want := range []float32{0, 0, 3} {
		if got := d.Models[i].Position.Y; got != want {
			t.Errorf("model %d at y=%v, want %v", i+1, got, want)
		}
	}
}

func TestPointerSelectsAncestor(t *testing.T) {
	d, ctx := setup(t)
	w, h := ctx.ViewportSize()

	move := func(x, y int) {
		d.HandleEvent(ctx, input.Event{Type: input.EventMouseMove, MouseX: x, MouseY: y})
	}

	// The camera looks at the origin, where the second model's sphere sits.
	move(w/2, h/2)
	if d.Selected == nil || d.Selected.Name != "Sphere_4" {
		t.Fatalf("selected %v, want Sphere_4", d.Selected)
	}
	if d.Selected.HasGeometry() {
		t.Error("selection should be the named ancestor, not the hit mesh")
	}

	move(0, 0)
	if d.Selected != nil {
		t.Errorf("selected %q over empty space", d.Selected.Name)
	}
}

func TestPickNeedsNamedAncestor(t *testing.T) {
	_, ctx := setup(t)
	w, h := ctx.ViewportSize()
	if n := Pick(ctx, w/2, h/2, "NoSuchNode"); n != nil {
		t.Errorf("Pick returned %q for a missing ancestor", n.Name)
	}
	if n := Pick(ctx, w/2, h/2, "Sphere_4_mesh"); n == nil {
		t.Error("a hit node counts as its own ancestor")
	}
}

func TestFrameSelection(t *testing.T) {
	d, ctx := setup(t)
	w, h := ctx.ViewportSize()
	d.HandleEvent(ctx, input.Event{Type: input.EventMouseMove, MouseX: w / 2, MouseY: h / 2})
	if d.Selected == nil {
		t.Fatal("nothing selected")
	}

	d.HandleEvent(ctx, input.Event{Type: input.EventKeyDown, Key: input.KeyF})
	want := d.Selected.WorldPosition()
	if got := ctx.Camera.Target; got.Sub(want).Length() > 1e-4 {
		t.Errorf("camera target = %+v, want selection center %+v", got, want)
	}
	if dist := ctx.Camera.Distance; dist < 1 || dist > 5 {
		t.Errorf("camera distance = %v, want a close-up", dist)
	}
}

func TestFrameWholeScene(t *testing.T) {
	d, ctx := setup(t)
	if !d.Frame(ctx) {
		t.Fatal("Frame found nothing")
	}
	if ctx.Camera.Target.Y <= 0 {
		t.Errorf("scene center %+v should sit above the ground models", ctx.Camera.Target)
	}
}

func TestSettingsFromConfig(t *testing.T) {
	_, ctx := setup(t)
	s := Settings(ctx)
	if s.EdgeStrength != 3 || s.EdgeGlow != 0.5 || s.EdgeThickness != 3 || s.PulsePeriod != 2 {
		t.Errorf("settings = %+v", s)
	}
	if s.VisibleColor != lighting.RGB(0xa020f0) || s.HiddenColor != lighting.RGB(0) {
		t.Errorf("colors = %+v / %+v", s.VisibleColor, s.HiddenColor)
	}
}
