// Package renderer draws scene graphs with OpenGL.
package renderer

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/gldemos/internal/engine/lighting"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/internal/engine/shader"
	"github.com/Faultbox/gldemos/internal/engine/shader/shaders"
	"github.com/Faultbox/gldemos/internal/engine/shadow"
	"github.com/Faultbox/gldemos/internal/logger"
	"github.com/Faultbox/gldemos/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor math.Vec3
}

// View is the camera state a frame is drawn from.
type View interface {
	ViewProjection() math.Mat4
}

// Stats counts the work done in the last frame.
type Stats struct {
	DrawCalls int
	Triangles int
	Uploads   int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	meshProgram   *shader.Program
	lineProgram   *shader.Program
	shadowProgram *shader.Program
	shadowMap     *shadow.Map

	meshes   map[*scenegraph.Geometry]*gpuMesh
	textures map[*scenegraph.TextureSource]uint32
	whiteTex uint32

	lines    *lineBatch
	emptyVAO uint32 // For full-screen passes

	// Lights are applied to every lit material.
	Lights lighting.Rig

	stats Stats
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		log:      logger.Named("renderer"),
		meshes:   make(map[*scenegraph.Geometry]*gpuMesh),
		textures: make(map[*scenegraph.TextureSource]uint32),
		Lights:   lighting.DefaultRig(),
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	// Log OpenGL info
	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	r.log.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	// Setup default OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	var err error
	if r.meshProgram, err = shader.NewProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader); err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	if r.lineProgram, err = shader.NewProgram(shaders.LineVertexShader, shaders.LineFragmentShader); err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}
	if r.shadowProgram, err = shader.NewProgram(shaders.ShadowVertexShader, shaders.ShadowFragmentShader); err != nil {
		return nil, fmt.Errorf("shadow shader: %w", err)
	}
	shader.MustGetUniform(r.meshProgram.ID, "uViewProj")
	shader.MustGetUniform(r.lineProgram.ID, "uMVP")
	shader.MustGetUniform(r.shadowProgram.ID, "uLightViewProj")

	// Samplers of different types may not share a unit
	r.meshProgram.Use()
	r.meshProgram.SetInt("uTexture", 0)
	r.meshProgram.SetInt("uShadowMap", 1)

	r.whiteTex = uploadRGBA(1, 1, []byte{255, 255, 255, 255}, true)
	r.lines = newLineBatch()
	gl.GenVertexArrays(1, &r.emptyVAO)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for g, m := range r.meshes {
		m.delete()
		delete(r.meshes, g)
	}
	for src, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
		delete(r.textures, src)
	}
	if r.whiteTex != 0 {
		gl.DeleteTextures(1, &r.whiteTex)
	}
	r.lines.delete()
	if r.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &r.emptyVAO)
	}
	r.DisableShadows()
	r.meshProgram.Delete()
	r.lineProgram.Delete()
	r.shadowProgram.Delete()
}

// EnableShadows allocates a shadow map so the sun casts shadows.
func (r *Renderer) EnableShadows(resolution int32) error {
	r.DisableShadows()
	sm, err := shadow.NewMap(resolution)
	if err != nil {
		return err
	}
	r.shadowMap = sm
	r.log.Info("shadows enabled", zap.Int32("resolution", sm.Resolution))
	return nil
}

// DisableShadows releases the shadow map.
func (r *Renderer) DisableShadows() {
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
		r.shadowMap = nil
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the viewport size.
func (r *Renderer) Size() (width, height int) {
	return r.config.Width, r.config.Height
}

// Stats returns counters for the frame drawn since the last Begin.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Begin starts a new frame on the currently bound target.
func (r *Renderer) Begin() {
	r.stats = Stats{}
	c := r.config.ClearColor
	gl.ClearColor(c.X, c.Y, c.Z, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawScene draws every visible mesh under root. Opaque meshes are drawn
// before translucent ones.
func (r *Renderer) DrawScene(root *scenegraph.Node, view View) {
	var opaque, translucent []*scenegraph.Node
	root.Traverse(func(n *scenegraph.Node) bool {
		if !n.Visible {
			return false
		}
		if n.HasGeometry() {
			if n.Material != nil && n.Material.Opacity < 1 {
				translucent = append(translucent, n)
			} else {
				opaque = append(opaque, n)
			}
		}
		return true
	})

	lightVP, shadows := r.shadowPass(root, opaque)

	vp := view.ViewProjection()
	r.meshProgram.Use()
	r.meshProgram.SetMat4("uViewProj", vp)
	r.meshProgram.SetBool("uFlat", false)
	r.meshProgram.SetBool("uShadows", shadows)
	if shadows {
		r.meshProgram.SetMat4("uLightViewProj", lightVP)
		r.shadowMap.BindTexture(gl.TEXTURE1)
		gl.ActiveTexture(gl.TEXTURE0)
	}
	r.setLights()

	for _, n := range opaque {
		r.drawNode(n)
	}

	if len(translucent) > 0 {
		// Far to near
		sort.Slice(translucent, func(i, j int) bool {
			return depth(vp, translucent[i]) > depth(vp, translucent[j])
		})
		gl.Enable(gl.BLEND)
		gl.DepthMask(false)
		for _, n := range translucent {
			r.drawNode(n)
		}
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
}

// shadowPass renders the depth of opaque casters from the sun. It reports
// false when there is no sun or shadows are off.
func (r *Renderer) shadowPass(root *scenegraph.Node, casters []*scenegraph.Node) (math.Mat4, bool) {
	if r.shadowMap == nil || r.Lights.Sun.Intensity <= 0 {
		return math.Mat4{}, false
	}
	bounds, ok := shadow.SceneBounds(root)
	if !ok {
		return math.Mat4{}, false
	}
	lightVP := shadow.LightMatrix(r.Lights.Sun.Direction, bounds)

	r.shadowMap.Bind()
	r.shadowProgram.Use()
	r.shadowProgram.SetMat4("uLightViewProj", lightVP)
	for _, n := range casters {
		m, err := r.mesh(n.Geometry)
		if err != nil || m == nil || m.lines {
			continue
		}
		r.shadowProgram.SetMat4("uModel", n.WorldMatrix())
		m.draw()
		r.stats.DrawCalls++
	}
	r.shadowMap.Unbind()
	return lightVP, true
}

// DrawFlat draws nodes and their descendants in a single colour, for mask
// passes. depthTest false draws them through other geometry.
func (r *Renderer) DrawFlat(nodes []*scenegraph.Node, view View, color math.Vec4, depthTest bool) {
	r.meshProgram.Use()
	r.meshProgram.SetMat4("uViewProj", view.ViewProjection())
	r.meshProgram.SetBool("uFlat", true)
	r.meshProgram.SetBool("uShadows", false)
	gl.Uniform4f(r.meshProgram.Uniform("uFlatColor"), color[0], color[1], color[2], color[3])

	if !depthTest {
		gl.Disable(gl.DEPTH_TEST)
		defer gl.Enable(gl.DEPTH_TEST)
	}
	for _, root := range nodes {
		root.Traverse(func(n *scenegraph.Node) bool {
			if !n.Visible {
				return false
			}
			if n.HasGeometry() {
				r.drawNode(n)
			}
			return true
		})
	}
	r.meshProgram.SetBool("uFlat", false)
}

// DrawFullscreen issues a full-screen triangle. The caller binds the program.
func (r *Renderer) DrawFullscreen() {
	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(r.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
	r.stats.DrawCalls++
}

// ReadPixels reads the default framebuffer as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

func (r *Renderer) setLights() {
	p := r.meshProgram
	p.SetVec3("uAmbient", r.Lights.Ambient.Radiance())
	p.SetVec3("uSunDir", r.Lights.Sun.Direction)
	p.SetVec3("uSunColor", r.Lights.Sun.Radiance())
}

func (r *Renderer) drawNode(n *scenegraph.Node) {
	m, err := r.mesh(n.Geometry)
	if err != nil {
		r.log.Warn("skipping mesh", zap.String("node", n.Name), zap.Error(err))
		return
	}
	if m == nil {
		return
	}

	world := n.WorldMatrix()
	p := r.meshProgram
	p.SetMat4("uModel", world)
	p.SetMat4("uNormalMatrix", world.NormalMatrix())

	mat := n.Material
	if mat == nil {
		mat = scenegraph.NewMaterial()
	}
	p.SetVec3("uColor", mat.Color)
	p.SetFloat("uOpacity", mat.Opacity)
	p.SetVec3("uEmissive", mat.EmissiveRadiance())
	p.SetBool("uUnlit", mat.Unlit || m.lines)
	p.SetVec2("uUVOffset", mat.UVOffset)
	p.SetVec2("uUVRepeat", mat.UVRepeat)

	gl.ActiveTexture(gl.TEXTURE0)
	if mat.Texture != nil {
		gl.BindTexture(gl.TEXTURE_2D, r.texture(mat.Texture))
		p.SetBool("uHasTexture", true)
	} else {
		gl.BindTexture(gl.TEXTURE_2D, r.whiteTex)
		p.SetBool("uHasTexture", false)
	}

	if mat.DoubleSided || m.lines {
		gl.Disable(gl.CULL_FACE)
		defer gl.Enable(gl.CULL_FACE)
	}
	m.draw()

	r.stats.DrawCalls++
	if !m.lines {
		r.stats.Triangles += int(m.count) / 3
	}
}

// depth returns the clip-space w of a node's origin.
func depth(vp math.Mat4, n *scenegraph.Node) float32 {
	p := n.WorldPosition()
	return vp.MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})[3]
}
