// Package bloom shows three models with strongly emissive parts through an
// HDR bloom pass.
package bloom

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/demo"
	"github.com/Faultbox/gldemos/internal/engine/framebuffer"
	"github.com/Faultbox/gldemos/internal/engine/input"
	"github.com/Faultbox/gldemos/internal/engine/lighting"
	"github.com/Faultbox/gldemos/internal/engine/postfx"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/pkg/math"
)

// Name is the registry name.
const Name = "bloom"

// CSS colour names, as the models were authored against.
const (
	green = 0x008000
	blue  = 0x0000ff
)

// Model heights, by load order.
var offsets = []float32{0, 1, -1}

func init() {
	demo.Register(Name, func() demo.Demo { return New() })
}

// Demo is the bloom scene.
type Demo struct {
	Models []*scenegraph.Node

	composer *postfx.Composer
	bloom    *postfx.Bloom
}

// New creates the demo.
func New() *Demo {
	return &Demo{}
}

// Name implements demo.Demo.
func (d *Demo) Name() string { return Name }

// Setup loads the models, sets their glow and builds the bloom chain.
func (d *Demo) Setup(ctx *demo.Context) error {
	ctx.Camera.LookFrom(math.Vec3{X: 5, Y: 5, Z: 5})

	d.Models = ctx.LoadScenes(ctx.Config.Assets.BloomModels, demo.Placeholder)
	for i, m := range d.Models {
		if i < len(offsets) {
			m.Position.Y = offsets[i]
		}
		ctx.Root.Add(m)
	}
	Glow(d.Models)

	if ctx.Config.Demo.ShowAxes {
		ctx.Root.Add(scenegraph.NewMesh("axes", scenegraph.NewAxes(10), nil))
	}

	if ctx.Headless() {
		return nil
	}
	ctx.Renderer.Lights = lighting.Rig{Ambient: lighting.FromHex(0xffffff, 0.9)}

	var err error
	if d.composer, err = postfx.NewComposer(ctx.Renderer, framebuffer.HDR); err != nil {
		return fmt.Errorf("bloom composer: %w", err)
	}
	w, h := ctx.Renderer.Size()
	if d.bloom, err = postfx.NewBloom(w, h, Settings(ctx)); err != nil {
		return fmt.Errorf("bloom pass: %w", err)
	}
	d.composer.Add(d.bloom)
	return nil
}

// Settings converts the configured bloom parameters.
func Settings(ctx *demo.Context) postfx.BloomSettings {
	c := ctx.Config.Bloom
	return postfx.BloomSettings{
		Threshold: c.Threshold,
		Strength:  c.Strength,
		Radius:    c.Radius,
		Exposure:  c.Exposure,
		Levels:    c.Levels,
		ToneMap:   true,
	}
}

// Glow makes Sphere_3 of the first model green at intensity 10 and the
// first child of the second model blue at intensity 40.
func Glow(models []*scenegraph.Node) {
	if len(models) > 0 {
		if n := models[0].Find("Sphere_3"); n != nil {
			demo.SetEmissive(n, green, 10)
		}
	}
	if len(models) > 1 {
		if children := models[1].Children(); len(children) > 0 {
			demo.SetEmissive(children[0], blue, 40)
		}
	}
}

// HandleEvent resizes the bloom targets with the window.
func (d *Demo) HandleEvent(ctx *demo.Context, e input.Event) {
	if e.Type != input.EventWindowResize || d.composer == nil {
		return
	}
	if err := d.composer.Resize(e.Width, e.Height); err != nil {
		ctx.Log.Warn("bloom resize", zap.Error(err))
	}
}

// Update implements demo.Demo. The scene is static.
func (d *Demo) Update(*demo.Context, float64) error { return nil }

// Render draws the scene into the HDR target and blooms it.
func (d *Demo) Render(ctx *demo.Context) error {
	return d.composer.Render(ctx.Camera, ctx.Elapsed, func() {
		ctx.Renderer.DrawScene(ctx.Root, ctx.Camera)
	})
}

// Close releases the bloom targets.
func (d *Demo) Close() {
	if d.composer != nil {
		d.composer.Destroy()
		d.composer = nil
	}
}
