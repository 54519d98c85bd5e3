// Package outline highlights the model part under the pointer with a
// pulsing outline.
package outline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/demo"
	"github.com/Faultbox/gldemos/internal/engine/framebuffer"
	"github.com/Faultbox/gldemos/internal/engine/input"
	"github.com/Faultbox/gldemos/internal/engine/lighting"
	"github.com/Faultbox/gldemos/internal/engine/postfx"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/internal/engine/shadow"
	"github.com/Faultbox/gldemos/pkg/math"
)

// Name is the registry name.
const Name = "outline"

// Model heights, by load order.
var offsets = []float32{0, 0, 3}

func init() {
	demo.Register(Name, func() demo.Demo { return New() })
}

// Demo is the outline scene.
type Demo struct {
	Models []*scenegraph.Node
	// Selected is the outlined node, or nil.
	Selected *scenegraph.Node

	target   string
	composer *postfx.Composer
	outline  *postfx.Outline
}

// New creates the demo.
func New() *Demo {
	return &Demo{}
}

// Name implements demo.Demo.
func (d *Demo) Name() string { return Name }

// Setup loads the models and builds the outline chain.
func (d *Demo) Setup(ctx *demo.Context) error {
	d.target = ctx.Config.Outline.Target
	ctx.Camera.LookFrom(math.Vec3{X: 5, Y: 5, Z: 5})

	d.Models = ctx.LoadScenes(ctx.Config.Assets.OutlineModels, demo.Placeholder)
	for i, m := range d.Models {
		if i < len(offsets) {
			m.Position.Y = offsets[i]
		}
		ctx.Root.Add(m)
	}
	if ctx.Config.Demo.ShowAxes {
		ctx.Root.Add(scenegraph.NewMesh("axes", scenegraph.NewAxes(10), nil))
	}

	if ctx.Headless() {
		return nil
	}
	ctx.Renderer.Lights = lighting.Rig{Ambient: lighting.FromHex(0x161e33, 0.8)}

	var err error
	if d.composer, err = postfx.NewComposer(ctx.Renderer, framebuffer.LDR); err != nil {
		return fmt.Errorf("outline composer: %w", err)
	}
	w, h := ctx.Renderer.Size()
	if d.outline, err = postfx.NewOutline(w, h, Settings(ctx)); err != nil {
		return fmt.Errorf("outline pass: %w", err)
	}
	d.composer.Add(d.outline)
	return nil
}

// Settings converts the configured outline parameters.
func Settings(ctx *demo.Context) postfx.OutlineSettings {
	c := ctx.Config.Outline
	return postfx.OutlineSettings{
		EdgeStrength:  c.EdgeStrength,
		EdgeGlow:      c.EdgeGlow,
		EdgeThickness: c.EdgeThickness,
		PulsePeriod:   float64(c.PulsePeriod),
		VisibleColor:  lighting.RGB(c.VisibleColor),
		HiddenColor:   lighting.RGB(c.HiddenColor),
	}
}

// Pick casts a ray through the window pixel (x, y) and returns the nearest
// node named target on the path from the first hit to the root, or nil.
func Pick(ctx *demo.Context, x, y int, target string) *scenegraph.Node {
	w, h := ctx.ViewportSize()
	ray := ctx.Camera.Ray(float32(x), float32(y), w, h)
	hits := scenegraph.Raycast(ctx.Root, ray)
	if len(hits) == 0 {
		return nil
	}
	return hits[0].Node.FindAncestor(target)
}

// Frame points the camera at the selection, or the whole scene when nothing
// is selected. It reports false when there is nothing to frame.
func (d *Demo) Frame(ctx *demo.Context) bool {
	n := d.Selected
	if n == nil {
		n = ctx.Root
	}
	box, ok := shadow.SceneBounds(n)
	if !ok {
		return false
	}
	ctx.Camera.FitToBounds(box)
	return true
}

// HandleEvent re-picks on pointer motion, frames the selection on F and
// resizes the targets with the window.
func (d *Demo) HandleEvent(ctx *demo.Context, e input.Event) {
	switch e.Type {
	case input.EventKeyDown:
		if e.Key == input.KeyF && !e.Repeat {
			d.Frame(ctx)
		}
	case input.EventMouseMove:
		sel := Pick(ctx, e.MouseX, e.MouseY, d.target)
		if sel != nil && sel != d.Selected {
			ctx.Log.Debug("outlined", zap.String("node", sel.Name))
		}
		d.Selected = sel
		if d.outline != nil {
			d.outline.Selected = d.outline.Selected[:0]
			if sel != nil {
				d.outline.Selected = append(d.outline.Selected, sel)
			}
		}
	case input.EventWindowResize:
		if d.composer == nil {
			return
		}
		if err := d.composer.Resize(e.Width, e.Height); err != nil {
			ctx.Log.Warn("outline resize", zap.Error(err))
		}
	}
}

// Update implements demo.Demo. The scene is static.
func (d *Demo) Update(*demo.Context, float64) error { return nil }

// Render draws the scene and the outline over it.
func (d *Demo) Render(ctx *demo.Context) error {
	return d.composer.Render(ctx.Camera, ctx.Elapsed, func() {
		ctx.Renderer.DrawScene(ctx.Root, ctx.Camera)
	})
}

// Close releases the outline targets.
func (d *Demo) Close() {
	if d.composer != nil {
		d.composer.Destroy()
		d.composer = nil
	}
}
