package demo

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/assets"
	"github.com/Faultbox/gldemos/internal/assets/gltfload"
	"github.com/Faultbox/gldemos/internal/config"
	"github.com/Faultbox/gldemos/internal/engine/audio"
	"github.com/Faultbox/gldemos/internal/engine/camera"
	"github.com/Faultbox/gldemos/internal/engine/input"
	"github.com/Faultbox/gldemos/internal/engine/physics"
	"github.com/Faultbox/gldemos/internal/engine/renderer"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/internal/logger"
	"github.com/Faultbox/gldemos/internal/sim"
	"github.com/Faultbox/gldemos/pkg/math"
)

// Context owns everything a running demo shares with the runner. It is
// created once per run and passed to every Demo call.
type Context struct {
	Config *config.Config
	Log    *zap.Logger
	Clock  clock.Clock

	Root   *scenegraph.Node
	Camera *camera.OrbitCamera
	World  *physics.World
	Pairs  []sim.Pair
	Assets *assets.Manager
	Input  *input.Input

	// Renderer is nil when running headless.
	Renderer *renderer.Renderer
	// Audio is nil when disabled or unavailable.
	Audio *audio.Manager

	Frame   int     // Frames completed
	Elapsed float64 // Seconds since the first frame
}

// NewContext builds an empty scene, camera and physics world from cfg.
// A missing asset root is logged; demos fall back to generated content.
func NewContext(cfg *config.Config, clk clock.Clock) *Context {
	if clk == nil {
		clk = clock.New()
	}
	log := logger.Named("demo")

	cam := camera.NewOrbitCamera()
	cam.FOV = cfg.Graphics.FOV
	cam.Near = cfg.Graphics.Near
	cam.Far = cfg.Graphics.Far
	cam.SetViewport(cfg.Graphics.Width, cfg.Graphics.Height)

	p := cfg.Physics
	world := physics.NewWorld(physics.Config{
		Gravity:     math.Vec3FromArray(p.Gravity).Mgl(),
		SubStep:     p.SubStep,
		Iterations:  p.Iterations,
		Friction:    p.Friction,
		Restitution: p.Restitution,
	})

	am := assets.NewManager()
	if cfg.Assets.Root != "" {
		if err := am.AddRoot(cfg.Assets.Root); err != nil {
			log.Warn("asset root unavailable", zap.Error(err))
		}
	}

	return &Context{
		Config: cfg,
		Log:    log,
		Clock:  clk,
		Root:   scenegraph.NewNode("scene"),
		Camera: cam,
		World:  world,
		Assets: am,
		Input:  input.New(),
	}
}

// Headless reports whether frames are simulated without drawing.
func (c *Context) Headless() bool {
	return c.Renderer == nil
}

// ViewportSize returns the drawable size, or the configured window size
// when headless.
func (c *Context) ViewportSize() (width, height int) {
	if c.Renderer != nil {
		return c.Renderer.Size()
	}
	return c.Config.Graphics.Width, c.Config.Graphics.Height
}

// LoadModel converts a glTF or GLB asset. External buffers and images
// resolve through the asset manager.
func (c *Context) LoadModel(name string) (*gltfload.Result, error) {
	res, err := gltfload.LoadFile(c.Assets, name)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", name, err)
	}
	c.Log.Info("model loaded",
		zap.String("name", name),
		zap.Int("nodes", len(res.Nodes)),
		zap.Int("animations", len(res.Animations)))
	return res, nil
}

// LoadScenes loads each named model and returns its root. A model that
// cannot be loaded is logged and replaced by fallback(i).
func (c *Context) LoadScenes(names []string, fallback func(i int) *scenegraph.Node) []*scenegraph.Node {
	roots := make([]*scenegraph.Node, len(names))
	for i, name := range names {
		res, err := c.LoadModel(name)
		if err != nil {
			c.Log.Warn("using placeholder model", zap.String("name", name), zap.Error(err))
			roots[i] = fallback(i)
			continue
		}
		roots[i] = res.Root
	}
	return roots
}

// Pair ties a dynamic body to the node that displays it and adds both to
// the scene.
func (c *Context) Pair(body *physics.Body, node *scenegraph.Node) {
	c.World.AddBody(body)
	c.Root.Add(node)
	c.Pairs = append(c.Pairs, sim.Pair{Body: body, Node: node})
	sim.Sync(c.Pairs[len(c.Pairs)-1:])
}

// DrawLines draws world-space segments over the scene. No-op when headless.
func (c *Context) DrawLines(segments []float32, color math.Vec3) {
	if c.Renderer == nil || len(segments) == 0 {
		return
	}
	c.Renderer.DrawLines(segments, color, c.Camera)
}
