package postfx

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/gldemos/internal/engine/framebuffer"
	"github.com/Faultbox/gldemos/internal/engine/postfx/fxmath"
	"github.com/Faultbox/gldemos/internal/engine/shader"
	"github.com/Faultbox/gldemos/internal/engine/shader/shaders"
)

// maxBloomLevels matches the sampler array in the composite shader.
const maxBloomLevels = 5

// BloomSettings tune the bloom pass.
type BloomSettings struct {
	Threshold float32 // Luminance above which pixels glow
	Strength  float32
	Radius    float32 // 0..1, shifts weight toward the widest levels
	Exposure  float32
	Levels    int
	ToneMap   bool
}

// Bloom extracts bright pixels, blurs them over a mip chain and adds the
// result back onto the scene with tone mapping.
type Bloom struct {
	Settings BloomSettings

	bright    *framebuffer.Framebuffer
	levels    []*blur
	brightP   *shader.Program
	blurP     *shader.Program
	composite *shader.Program
}

// NewBloom creates a bloom pass for a width×height output.
func NewBloom(width, height int, s BloomSettings) (*Bloom, error) {
	s.Levels = min(max(s.Levels, 1), maxBloomLevels)
	b := &Bloom{Settings: s}

	var err error
	if b.brightP, err = shader.NewProgram(shaders.QuadVertexShader, shaders.BrightFragmentShader); err != nil {
		return nil, fmt.Errorf("bright shader: %w", err)
	}
	if b.blurP, err = shader.NewProgram(shaders.QuadVertexShader, shaders.BlurFragmentShader); err != nil {
		b.Destroy()
		return nil, fmt.Errorf("blur shader: %w", err)
	}
	if b.composite, err = shader.NewProgram(shaders.QuadVertexShader, shaders.BloomCompositeFragmentShader); err != nil {
		b.Destroy()
		return nil, fmt.Errorf("bloom composite shader: %w", err)
	}
	if err := b.Resize(width, height); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

// Resize rebuilds the mip chain.
func (b *Bloom) Resize(width, height int) error {
	b.destroyTargets()

	sizes := fxmath.MipSizes(width, height, b.Settings.Levels)
	var err error
	if b.bright, err = framebuffer.NewWithOptions(int32(sizes[0][0]), int32(sizes[0][1]), framebuffer.Options{Format: framebuffer.HDR}); err != nil {
		return fmt.Errorf("bright target: %w", err)
	}
	for i, sz := range sizes {
		radius := fxmath.KernelRadius(i)
		bl, err := newBlur(b.blurP, sz[0], sz[1], fxmath.GaussianKernel(float64(radius), radius), framebuffer.HDR)
		if err != nil {
			return fmt.Errorf("bloom level %d: %w", i, err)
		}
		b.levels = append(b.levels, bl)
	}
	return nil
}

// Render runs the bloom chain over f.In into f.Out.
func (b *Bloom) Render(f Frame) error {
	s := b.Settings

	b.bright.Bind()
	b.brightP.Use()
	f.In.BindTexture(0)
	b.brightP.SetInt("uTexture", 0)
	b.brightP.SetFloat("uThreshold", s.Threshold)
	f.Renderer.DrawFullscreen()

	src := b.bright
	for _, bl := range b.levels {
		bl.run(f.Renderer, src)
		src = bl.v
	}

	f.bindOut()
	b.composite.Use()
	f.In.BindTexture(0)
	b.composite.SetInt("uScene", 0)

	units := make([]int32, maxBloomLevels)
	for i, bl := range b.levels {
		bl.v.BindTexture(uint32(i + 1))
		units[i] = int32(i + 1)
	}
	gl.Uniform1iv(b.composite.Uniform("uBlur"), int32(len(units)), &units[0])
	b.composite.SetFloats("uFactors", fxmath.BloomFactors(len(b.levels), s.Radius))
	b.composite.SetInt("uLevels", int32(len(b.levels)))
	b.composite.SetFloat("uStrength", s.Strength)
	b.composite.SetFloat("uExposure", s.Exposure)
	b.composite.SetBool("uToneMap", s.ToneMap)
	f.Renderer.DrawFullscreen()
	return nil
}

func (b *Bloom) destroyTargets() {
	if b.bright != nil {
		b.bright.Destroy()
		b.bright = nil
	}
	for _, bl := range b.levels {
		bl.destroy()
	}
	b.levels = nil
}

// Destroy releases the pass.
func (b *Bloom) Destroy() {
	b.destroyTargets()
	for _, p := range []*shader.Program{b.brightP, b.blurP, b.composite} {
		if p != nil {
			p.Delete()
		}
	}
}
