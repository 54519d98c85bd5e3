package postfx

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/gldemos/internal/engine/framebuffer"
	"github.com/Faultbox/gldemos/internal/engine/postfx/fxmath"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/internal/engine/shader"
	"github.com/Faultbox/gldemos/internal/engine/shader/shaders"
	"github.com/Faultbox/gldemos/pkg/math"
)

// OutlineSettings tune the outline pass.
type OutlineSettings struct {
	EdgeStrength  float32
	EdgeGlow      float32
	EdgeThickness float32
	PulsePeriod   float64 // Seconds; 0 disables pulsing
	VisibleColor  math.Vec3
	HiddenColor   math.Vec3
}

// Outline draws glowing edges around the selected nodes, in one colour
// where they are visible and another where other geometry hides them.
type Outline struct {
	Settings OutlineSettings
	Selected []*scenegraph.Node

	mask      *framebuffer.Framebuffer
	edges     *framebuffer.Framebuffer
	glow      *blur
	edgeP     *shader.Program
	blurP     *shader.Program
	composite *shader.Program
}

// NewOutline creates an outline pass for a width×height output.
func NewOutline(width, height int, s OutlineSettings) (*Outline, error) {
	o := &Outline{Settings: s}

	var err error
	if o.edgeP, err = shader.NewProgram(shaders.QuadVertexShader, shaders.EdgeFragmentShader); err != nil {
		return nil, fmt.Errorf("edge shader: %w", err)
	}
	if o.blurP, err = shader.NewProgram(shaders.QuadVertexShader, shaders.BlurFragmentShader); err != nil {
		o.Destroy()
		return nil, fmt.Errorf("blur shader: %w", err)
	}
	if o.composite, err = shader.NewProgram(shaders.QuadVertexShader, shaders.OutlineCompositeFragmentShader); err != nil {
		o.Destroy()
		return nil, fmt.Errorf("outline composite shader: %w", err)
	}
	if err := o.Resize(width, height); err != nil {
		o.Destroy()
		return nil, err
	}
	return o, nil
}

// Resize recreates the mask and edge targets.
func (o *Outline) Resize(width, height int) error {
	o.destroyTargets()

	var err error
	if o.mask, err = framebuffer.NewWithOptions(int32(width), int32(height), framebuffer.Options{Depth: true}); err != nil {
		return fmt.Errorf("mask target: %w", err)
	}
	if o.edges, err = framebuffer.NewWithOptions(int32(width), int32(height), framebuffer.Options{}); err != nil {
		return fmt.Errorf("edge target: %w", err)
	}

	radius := min(max(int(o.Settings.EdgeThickness*2), 1), 16)
	half := fxmath.MipSizes(width, height, 1)[0]
	if o.glow, err = newBlur(o.blurP, half[0], half[1], fxmath.GaussianKernel(float64(radius), radius), framebuffer.LDR); err != nil {
		return fmt.Errorf("glow target: %w", err)
	}
	return nil
}

// Render draws the outline of the selection over f.In into f.Out. With
// nothing selected the input passes through unchanged.
func (o *Outline) Render(f Frame) error {
	s := o.Settings

	o.mask.Bind()
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if len(o.Selected) > 0 {
		// Scene depth decides which parts of the selection are visible
		w, h := o.mask.Size()
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, f.Scene.FBO())
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, o.mask.FBO())
		gl.BlitFramebuffer(0, 0, w, h, 0, 0, w, h, gl.DEPTH_BUFFER_BIT, gl.NEAREST)
		o.mask.Bind()

		f.Renderer.DrawFlat(o.Selected, f.View, math.Vec4{0, 1, 0, 1}, false)
		gl.DepthFunc(gl.LEQUAL)
		f.Renderer.DrawFlat(o.Selected, f.View, math.Vec4{1, 0, 0, 1}, true)
		gl.DepthFunc(gl.LESS)
	}

	ew, eh := o.edges.Size()
	o.edges.Bind()
	o.edgeP.Use()
	o.mask.BindTexture(0)
	o.edgeP.SetInt("uMask", 0)
	gl.Uniform2f(o.edgeP.Uniform("uTexel"), 1/float32(ew), 1/float32(eh))
	o.edgeP.SetFloat("uThickness", s.EdgeThickness)
	o.edgeP.SetVec3("uVisibleColor", s.VisibleColor)
	o.edgeP.SetVec3("uHiddenColor", s.HiddenColor)
	f.Renderer.DrawFullscreen()

	o.glow.run(f.Renderer, o.edges)

	f.bindOut()
	o.composite.Use()
	f.In.BindTexture(0)
	o.edges.BindTexture(1)
	o.glow.v.BindTexture(2)
	o.composite.SetInt("uScene", 0)
	o.composite.SetInt("uEdge", 1)
	o.composite.SetInt("uGlow", 2)
	o.composite.SetFloat("uEdgeStrength", s.EdgeStrength)
	o.composite.SetFloat("uEdgeGlow", s.EdgeGlow)
	o.composite.SetFloat("uPulse", fxmath.PulseFactor(f.Time, s.PulsePeriod))
	f.Renderer.DrawFullscreen()
	return nil
}

func (o *Outline) destroyTargets() {
	if o.mask != nil {
		o.mask.Destroy()
		o.mask = nil
	}
	if o.edges != nil {
		o.edges.Destroy()
		o.edges = nil
	}
	if o.glow != nil {
		o.glow.destroy()
		o.glow = nil
	}
}

// Destroy releases the pass.
func (o *Outline) Destroy() {
	o.destroyTargets()
	for _, p := range []*shader.Program{o.edgeP, o.blurP, o.composite} {
		if p != nil {
			p.Delete()
		}
	}
}
