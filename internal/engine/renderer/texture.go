package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/internal/engine/texture"
)

// texture returns the GL texture for src, uploading it on first use.
func (r *Renderer) texture(src *scenegraph.TextureSource) uint32 {
	if tex, ok := r.textures[src]; ok {
		return tex
	}
	if src.Image == nil {
		r.textures[src] = r.whiteTex
		return r.whiteTex
	}

	rgba := texture.ImageToRGBA(src.Image)
	if src.FlipY {
		rgba = texture.FlipVertical(rgba)
	}
	b := rgba.Bounds()
	tex := uploadRGBA(b.Dx(), b.Dy(), rgba.Pix, src.Repeat)
	r.textures[src] = tex
	r.stats.Uploads++

	r.log.Debug("texture uploaded",
		zap.String("name", src.Name),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))
	return tex
}

// uploadRGBA creates a mipmapped texture from tightly packed RGBA rows.
func uploadRGBA(width, height int, pix []byte, repeat bool) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	wrap := int32(gl.CLAMP_TO_EDGE)
	if repeat {
		wrap = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}
