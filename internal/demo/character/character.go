// Package character plays skinned animation clips on a loaded model and
// cross-fades between them on click.
package character

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/assets/gltfload"
	"github.com/Faultbox/gldemos/internal/demo"
	"github.com/Faultbox/gldemos/internal/engine/animation"
	"github.com/Faultbox/gldemos/internal/engine/input"
	"github.com/Faultbox/gldemos/internal/engine/lighting"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/pkg/math"
)

// Name is the registry name.
const Name = "character"

// clickSlop is how far, in pixels, the pointer may move between press and
// release for the release to count as a click.
const clickSlop = 3

var skeletonColor = math.Vec3{X: 0, Y: 1, Z: 1}

func init() {
	demo.Register(Name, func() demo.Demo { return New() })
}

// Demo is the animated character scene.
type Demo struct {
	Model  *gltfload.Result
	Mixer  *animation.Mixer
	Action *animation.Action

	showSkeleton bool
	crossFade    float32
	switchTo     int

	pressX, pressY int
	pressed        bool
	skinFailed     bool
}

// New creates the demo.
func New() *Demo {
	return &Demo{}
}

// Name implements demo.Demo.
func (d *Demo) Name() string { return Name }

// Setup loads the character and starts the configured clip.
func (d *Demo) Setup(ctx *demo.Context) error {
	cfg := ctx.Config.Character
	d.showSkeleton = cfg.Skeleton
	d.crossFade = float32(cfg.CrossFade)
	d.switchTo = cfg.SwitchTo

	ctx.Camera.LookFrom(math.Vec3{X: 5, Y: 5, Z: -5})
	if ctx.Renderer != nil {
		ctx.Renderer.Lights = lighting.Rig{
			Ambient: lighting.FromHex(0xffffff, 0.6),
			Sun: lighting.Directional{
				Direction: lighting.SunDirection(135, 45),
				Color:     math.One3,
				Intensity: 0.8,
			},
		}
	}

	res, err := ctx.LoadModel(ctx.Config.Assets.Character)
	if err != nil {
		ctx.Log.Warn("using placeholder character", zap.Error(err))
		res = PlaceholderRig()
	}
	d.Model = res
	ctx.Root.Add(res.Root)
	if ctx.Config.Demo.ShowAxes {
		ctx.Root.Add(scenegraph.NewMesh("axes", scenegraph.NewAxes(10), nil))
	}

	d.Mixer = animation.NewMixer()
	clip, err := clipAt(res, cfg.Clip)
	if err != nil {
		return err
	}
	d.Action = d.Mixer.ClipAction(clip).Play()
	ctx.Log.Info("playing clip", zap.String("clip", clip.Name), zap.Int("clips", len(res.Animations)))
	return nil
}

func clipAt(res *gltfload.Result, i int) (*animation.Clip, error) {
	if i < 0 || i >= len(res.Animations) {
		return nil, fmt.Errorf("clip %d out of range, model has %d", i, len(res.Animations))
	}
	return res.Animations[i], nil
}

// Switch cross-fades from the oldest playing action to the configured clip
// and plays it, warping playback speed during the fade.
func (d *Demo) Switch() error {
	clip, err := clipAt(d.Model, d.switchTo)
	if err != nil {
		return err
	}
	next := d.Mixer.ClipAction(clip)
	for _, a := range d.Mixer.Actions() {
		if a != next {
			a.CrossFadeTo(next, d.crossFade, true)
			break
		}
	}
	next.Play()
	d.Action = next
	return nil
}

// HandleEvent treats a left press and release in place as a click.
func (d *Demo) HandleEvent(ctx *demo.Context, e input.Event) {
	if e.Button != input.ButtonLeft {
		if e.Type == input.EventKeyDown && e.Key == input.KeyS && !e.Repeat {
			d.showSkeleton = !d.showSkeleton
		}
		return
	}
	switch e.Type {
	case input.EventMouseDown:
		d.pressX, d.pressY, d.pressed = e.MouseX, e.MouseY, true
	case input.EventMouseUp:
		if !d.pressed {
			return
		}
		d.pressed = false
		if abs(e.MouseX-d.pressX) > clickSlop || abs(e.MouseY-d.pressY) > clickSlop {
			return
		}
		if err := d.Switch(); err != nil {
			ctx.Log.Warn("switch animation", zap.Error(err))
			return
		}
		ctx.Log.Info("cross-fading", zap.String("to", d.Action.Clip.Name))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Update advances the mixer and re-skins the meshes.
func (d *Demo) Update(ctx *demo.Context, dt float64) error {
	d.Mixer.Update(float32(dt))
	if err := animation.UpdateSkins(d.Model.Root); err != nil && !d.skinFailed {
		d.skinFailed = true
		ctx.Log.Warn("skinning failed", zap.Error(err))
	}
	return nil
}

// Render draws the character and its skeleton.
func (d *Demo) Render(ctx *demo.Context) error {
	r := ctx.Renderer
	r.Begin()
	r.DrawScene(ctx.Root, ctx.Camera)
	if d.showSkeleton {
		ctx.DrawLines(d.SkeletonLines(), skeletonColor)
	}
	return nil
}

// SkeletonLines returns the bone segments of every skin.
func (d *Demo) SkeletonLines() []float32 {
	var out []float32
	for _, s := range d.Model.Skins {
		out = append(out, animation.SkeletonLines(s)...)
	}
	return out
}

// Close implements demo.Demo.
func (d *Demo) Close() {}
