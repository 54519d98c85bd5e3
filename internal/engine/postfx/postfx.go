// Package postfx renders the scene into an offscreen target and chains
// full-screen effects over it before presenting.
package postfx

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/engine/framebuffer"
	"github.com/Faultbox/gldemos/internal/engine/renderer"
	"github.com/Faultbox/gldemos/internal/engine/shader"
	"github.com/Faultbox/gldemos/internal/engine/shader/shaders"
	"github.com/Faultbox/gldemos/internal/logger"
)

// Frame is what a pass needs to render.
type Frame struct {
	Renderer *renderer.Renderer
	View     renderer.View
	Time     float64                  // Seconds since start, for animated effects
	Scene    *framebuffer.Framebuffer // Scene colour and depth
	In       *framebuffer.Framebuffer
	Out      *framebuffer.Framebuffer // nil is the window
}

// bindOut binds the pass output target.
func (f Frame) bindOut() {
	if f.Out != nil {
		f.Out.Bind()
		return
	}
	w, h := f.Renderer.Size()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(w), int32(h))
}

// Pass is one full-screen effect.
type Pass interface {
	Render(f Frame) error
	Resize(width, height int) error
	Destroy()
}

// Composer owns the scene target and runs passes in order, ping-ponging
// between two buffers and presenting the last one to the window.
type Composer struct {
	r      *renderer.Renderer
	log    *zap.Logger
	format framebuffer.Format
	scene  *framebuffer.Framebuffer
	ping   [2]*framebuffer.Framebuffer
	copy   *shader.Program
	passes []Pass
}

// NewComposer creates a composer rendering the scene in the given format.
func NewComposer(r *renderer.Renderer, format framebuffer.Format) (*Composer, error) {
	c := &Composer{r: r, log: logger.Named("postfx"), format: format}

	w, h := r.Size()
	var err error
	if c.scene, err = framebuffer.NewWithOptions(int32(w), int32(h), framebuffer.Options{Format: format, Depth: true}); err != nil {
		return nil, fmt.Errorf("scene target: %w", err)
	}
	for i := range c.ping {
		if c.ping[i], err = framebuffer.NewWithOptions(int32(w), int32(h), framebuffer.Options{Format: format}); err != nil {
			c.Destroy()
			return nil, fmt.Errorf("ping-pong target: %w", err)
		}
	}
	if c.copy, err = shader.NewProgram(shaders.QuadVertexShader, shaders.CopyFragmentShader); err != nil {
		c.Destroy()
		return nil, fmt.Errorf("copy shader: %w", err)
	}
	return c, nil
}

// Add appends a pass.
func (c *Composer) Add(p Pass) {
	c.passes = append(c.passes, p)
}

// Resize resizes every target and pass.
func (c *Composer) Resize(width, height int) error {
	c.scene.Resize(int32(width), int32(height))
	for _, fb := range c.ping {
		fb.Resize(int32(width), int32(height))
	}
	for _, p := range c.passes {
		if err := p.Resize(width, height); err != nil {
			return err
		}
	}
	return nil
}

// Render draws the scene with drawScene into the scene target, then runs
// every pass.
func (c *Composer) Render(view renderer.View, t float64, drawScene func()) error {
	c.scene.Bind()
	c.r.Begin()
	drawScene()

	in := c.scene
	for i, p := range c.passes {
		var out *framebuffer.Framebuffer
		if i < len(c.passes)-1 {
			out = c.ping[i%2]
		}
		err := p.Render(Frame{Renderer: c.r, View: view, Time: t, Scene: c.scene, In: in, Out: out})
		if err != nil {
			return fmt.Errorf("pass %d: %w", i, err)
		}
		in = out
	}

	if len(c.passes) == 0 {
		Frame{Renderer: c.r, Out: nil}.bindOut()
		c.copy.Use()
		c.scene.BindTexture(0)
		c.copy.SetInt("uTexture", 0)
		c.r.DrawFullscreen()
	}
	return nil
}

// Scene returns the offscreen scene target.
func (c *Composer) Scene() *framebuffer.Framebuffer {
	return c.scene
}

// Destroy releases targets and passes.
func (c *Composer) Destroy() {
	for _, p := range c.passes {
		p.Destroy()
	}
	c.passes = nil
	if c.scene != nil {
		c.scene.Destroy()
	}
	for _, fb := range c.ping {
		if fb != nil {
			fb.Destroy()
		}
	}
	if c.copy != nil {
		c.copy.Delete()
	}
}

// blur is a separable gaussian blur between two same-sized targets.
type blur struct {
	program *shader.Program
	weights []float32
	h, v    *framebuffer.Framebuffer
}

func newBlur(program *shader.Program, width, height int, weights []float32, format framebuffer.Format) (*blur, error) {
	b := &blur{program: program, weights: weights}
	var err error
	if b.h, err = framebuffer.NewWithOptions(int32(width), int32(height), framebuffer.Options{Format: format}); err != nil {
		return nil, err
	}
	if b.v, err = framebuffer.NewWithOptions(int32(width), int32(height), framebuffer.Options{Format: format}); err != nil {
		b.h.Destroy()
		return nil, err
	}
	return b, nil
}

// run blurs src into b.v, using b.h as the intermediate.
func (b *blur) run(r *renderer.Renderer, src *framebuffer.Framebuffer) {
	w, h := b.h.Size()
	b.program.Use()
	b.program.SetInt("uTexture", 0)
	b.program.SetInt("uKernelSize", int32(len(b.weights)))
	b.program.SetFloats("uWeights", b.weights)

	b.h.Bind()
	src.BindTexture(0)
	gl.Uniform2f(b.program.Uniform("uDirection"), 1/float32(w), 0)
	r.DrawFullscreen()

	b.v.Bind()
	b.h.BindTexture(0)
	gl.Uniform2f(b.program.Uniform("uDirection"), 0, 1/float32(h))
	r.DrawFullscreen()
}

func (b *blur) resize(width, height int) {
	b.h.Resize(int32(width), int32(height))
	b.v.Resize(int32(width), int32(height))
}

func (b *blur) destroy() {
	b.h.Destroy()
	b.v.Destroy()
}
