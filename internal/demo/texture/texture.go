// Package texture shows a ground plane whose repeat-wrapped texture
// scrolls a little every frame.
package texture

import (
	"fmt"
	"image"
	"image/color"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/demo"
	"github.com/Faultbox/gldemos/internal/engine/input"
	"github.com/Faultbox/gldemos/internal/engine/lighting"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	enginetex "github.com/Faultbox/gldemos/internal/engine/texture"
	"github.com/Faultbox/gldemos/pkg/math"
)

// Name is the registry name.
const Name = "texture"

func init() {
	demo.Register(Name, func() demo.Demo { return New() })
}

// Demo is the scrolling texture scene.
type Demo struct {
	Plane  *scenegraph.Node
	Scroll enginetex.Scroll

	paused bool
}

// New creates the demo.
func New() *Demo {
	return &Demo{}
}

// Name implements demo.Demo.
func (d *Demo) Name() string { return Name }

// Setup builds the textured plane.
func (d *Demo) Setup(ctx *demo.Context) error {
	cfg := ctx.Config.Texture
	ctx.Camera.LookFrom(math.Vec3{X: 5, Y: 5, Z: -5})
	if ctx.Renderer != nil {
		ctx.Renderer.Lights = lighting.Rig{Ambient: lighting.FromHex(0x161e33, 0.8)}
	}

	img, err := d.loadImage(ctx)
	if err != nil {
		ctx.Log.Warn("using checker texture", zap.Error(err))
		img = Checker(256, 32)
	}

	mat := scenegraph.NewMaterial()
	mat.Unlit = true
	mat.Texture = &scenegraph.TextureSource{
		Name:   ctx.Config.Assets.Texture,
		Image:  img,
		Repeat: true,
		FlipY:  true,
	}

	size := cfg.PlaneSize
	if size <= 0 {
		size = 10
	}
	d.Plane = scenegraph.NewMesh("plane", scenegraph.NewPlane(size, size), mat)
	d.Plane.Rotation = math.QuatFromAxisAngle(math.Vec3{X: 1}, -gomath.Pi/2)
	ctx.Root.Add(d.Plane)

	if ctx.Config.Demo.ShowAxes {
		ctx.Root.Add(scenegraph.NewMesh("axes", scenegraph.NewAxes(10), nil))
	}

	d.Scroll = enginetex.Scroll{Speed: math.Vec2{X: cfg.ScrollSpeed[0], Y: cfg.ScrollSpeed[1]}}
	return nil
}

func (d *Demo) loadImage(ctx *demo.Context) (image.Image, error) {
	name := ctx.Config.Assets.Texture
	if name == "" {
		return nil, fmt.Errorf("no texture configured")
	}
	data, err := ctx.Assets.Load(name)
	if err != nil {
		return nil, err
	}
	return enginetex.Decode(name, data)
}

// Checker returns a size×size two-tone checkerboard with cell-sized squares.
func Checker(size, cell int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	light := color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	dark := color.RGBA{R: 0x30, G: 0x50, B: 0x90, A: 0xff}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := dark
			if (x/cell+y/cell)%2 == 0 {
				c = light
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// HandleEvent toggles scrolling with Space.
func (d *Demo) HandleEvent(_ *demo.Context, e input.Event) {
	if e.Type == input.EventKeyDown && e.Key == input.KeySpace && !e.Repeat {
		d.paused = !d.paused
	}
}

// Update advances the texture offset by one frame's step.
func (d *Demo) Update(*demo.Context, float64) error {
	if !d.paused {
		d.Scroll.Advance(d.Plane.Material)
	}
	return nil
}

// Render draws the plane.
func (d *Demo) Render(ctx *demo.Context) error {
	r := ctx.Renderer
	r.Begin()
	r.DrawScene(ctx.Root, ctx.Camera)
	return nil
}

// Close implements demo.Demo.
func (d *Demo) Close() {}
