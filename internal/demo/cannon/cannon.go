// Package cannon drops a ball onto static ground colliders built from a
// loaded model.
package cannon

import (
	gomath "math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/demo"
	"github.com/Faultbox/gldemos/internal/engine/debug"
	"github.com/Faultbox/gldemos/internal/engine/input"
	"github.com/Faultbox/gldemos/internal/engine/lighting"
	"github.com/Faultbox/gldemos/internal/engine/physics"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/internal/sim"
	"github.com/Faultbox/gldemos/pkg/math"
)

// Name is the registry name.
const Name = "cannon"

const (
	spawnRange   = 10  // Ball x and z are drawn from [-spawnRange, spawnRange)
	gravityStep  = 0.1 // Per key press
	gravityLimit = 10
	axesSize     = 5
	fallbackSize = 40
)

var colliderColor = math.Vec3{X: 0, Y: 1, Z: 0}

func init() {
	demo.Register(Name, func() demo.Demo { return New() })
}

// Demo is the ball-drop scene.
type Demo struct {
	Ball     *physics.Body
	BallNode *scenegraph.Node
	Ground   []*physics.Body

	// Impacts counts contacts reported by the world.
	Impacts int

	showColliders bool
	dropHeight    float32
	rng           *rand.Rand
}

// New creates the demo.
func New() *Demo {
	return &Demo{}
}

// Name implements demo.Demo.
func (d *Demo) Name() string { return Name }

// Setup loads the ground, builds its colliders and drops the ball.
func (d *Demo) Setup(ctx *demo.Context) error {
	cfg := ctx.Config.Demo
	d.showColliders = cfg.ShowColliders
	d.dropHeight = cfg.SphereDrop

	seed := uint64(cfg.Seed)
	if seed == 0 {
		seed = rand.Uint64()
	}
	d.rng = rand.New(rand.NewPCG(seed, seed>>1|1))

	if ctx.Renderer != nil {
		ctx.Renderer.Lights = lighting.Rig{Ambient: lighting.FromHex(0xffffff, 1)}
	}
	ctx.Camera.LookFrom(math.Vec3FromArray(cfg.CameraPos))

	ground := d.loadGround(ctx)
	ctx.Root.Add(ground)

	// Colliders read world transforms, which are final once the ground is
	// attached.
	bodies, err := sim.BuildColliders(ground, ctx.World)
	if err != nil {
		ctx.Log.Warn("some ground nodes have no collider", zap.Error(err))
	}
	d.Ground = bodies

	d.Ball = physics.NewBody(cfg.SphereMass).AddShape(physics.NewSphere(cfg.SphereRadius))
	d.Ball.Name = "ball"
	mat := scenegraph.NewMaterial()
	mat.Color = lighting.RGB(0xff0000)
	mat.Unlit = true
	d.BallNode = scenegraph.NewMesh("ball", scenegraph.NewSphere(cfg.SphereRadius, 32, 16), mat)
	d.Drop()
	ctx.Pair(d.Ball, d.BallNode)

	if cfg.ShowAxes {
		ctx.Root.Add(scenegraph.NewMesh("axes", scenegraph.NewAxes(axesSize), nil))
	}

	ctx.World.OnContact(func(ev physics.ContactEvent) {
		d.Impacts++
		if ctx.Audio == nil {
			return
		}
		if err := ctx.Audio.PlayImpact(float64(ev.ImpactSpeed)); err != nil {
			ctx.Log.Debug("impact sound", zap.Error(err))
		}
	})

	ctx.Log.Info("cannon ready",
		zap.Int("ground_bodies", len(d.Ground)),
		zap.Float32("ball_x", d.Ball.Position[0]),
		zap.Float32("ball_z", d.Ball.Position[2]))
	return nil
}

// loadGround returns the configured ground model, or a flat quad when it
// cannot be loaded.
func (d *Demo) loadGround(ctx *demo.Context) *scenegraph.Node {
	if name := ctx.Config.Assets.GroundModel; name != "" {
		res, err := ctx.LoadModel(name)
		if err == nil {
			return res.Root
		}
		ctx.Log.Warn("using fallback ground", zap.Error(err))
	}
	return FallbackGround(fallbackSize)
}

// FallbackGround is a size×size horizontal quad at y=0.
func FallbackGround(size float32) *scenegraph.Node {
	mat := scenegraph.NewMaterial()
	mat.Color = lighting.RGB(0x808080)
	mat.DoubleSided = true
	n := scenegraph.NewMesh("ground", scenegraph.NewPlane(size, size), mat)
	n.Rotation = math.QuatFromAxisAngle(math.Vec3{X: 1}, -gomath.Pi/2)
	return n
}

// Drop puts the ball back at the drop height over a random point and
// clears its motion.
func (d *Demo) Drop() {
	x := float32(d.rng.Float64()*2*spawnRange - spawnRange)
	z := float32(d.rng.Float64()*2*spawnRange - spawnRange)
	d.Ball.Position = mgl32.Vec3{x, d.dropHeight, z}
	d.Ball.Quaternion = mgl32.QuatIdent()
	d.Ball.Velocity = mgl32.Vec3{}
	d.Ball.AngularVelocity = mgl32.Vec3{}
}

// HandleEvent maps keys to gravity tweaks, collider display and reset.
func (d *Demo) HandleEvent(ctx *demo.Context, e input.Event) {
	if e.Type != input.EventKeyDown {
		return
	}
	g := &ctx.World.Gravity
	switch e.Key {
	case input.KeyLeft:
		g[0] = nudge(g[0], -gravityStep)
	case input.KeyRight:
		g[0] = nudge(g[0], gravityStep)
	case input.KeyDown:
		g[1] = nudge(g[1], -gravityStep)
	case input.KeyUp:
		g[1] = nudge(g[1], gravityStep)
	case input.KeyA:
		g[2] = nudge(g[2], -gravityStep)
	case input.KeyS:
		g[2] = nudge(g[2], gravityStep)
	case input.KeyG:
		*g = math.Vec3FromArray(ctx.Config.Physics.Gravity).Mgl()
	case input.KeyC:
		if !e.Repeat {
			d.showColliders = !d.showColliders
		}
		return
	case input.KeyR:
		if !e.Repeat {
			d.Drop()
			sim.Sync(ctx.Pairs)
		}
		return
	default:
		return
	}
	ctx.Log.Info("gravity", zap.Float32("x", g[0]), zap.Float32("y", g[1]), zap.Float32("z", g[2]))
}

// nudge moves v by step, clamped to the slider range.
func nudge(v, step float32) float32 {
	return min(max(v+step, -gravityLimit), gravityLimit)
}

// Update steps the world and moves the ball node to its body.
func (d *Demo) Update(ctx *demo.Context, dt float64) error {
	limit := ctx.Config.Physics.MaxStep
	if limit <= 0 {
		limit = sim.MaxStep
	}
	sim.StepAndSyncMax(ctx.World, dt, limit, ctx.Pairs)
	return nil
}

// Render draws the scene and, when enabled, the collider wireframes.
func (d *Demo) Render(ctx *demo.Context) error {
	r := ctx.Renderer
	r.Begin()
	r.DrawScene(ctx.Root, ctx.Camera)
	if d.showColliders {
		ctx.DrawLines(debug.WorldWireframe(ctx.World), colliderColor)
	}
	return nil
}

// ShowColliders reports whether wireframes are drawn.
func (d *Demo) ShowColliders() bool { return d.showColliders }

// Close implements demo.Demo.
func (d *Demo) Close() {}
