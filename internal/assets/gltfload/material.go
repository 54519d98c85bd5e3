package gltfload

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/internal/engine/texture"
	"github.com/Faultbox/gldemos/pkg/math"
)

const (
	unlitExtension            = "KHR_materials_unlit"
	emissiveStrengthExtension = "KHR_materials_emissive_strength"
)

// material converts document material i. Each primitive gets its own copy
// so demos can retint one mesh without touching others.
func (c *converter) material(i *int) (*scenegraph.Material, error) {
	if i == nil {
		return scenegraph.NewMaterial(), nil
	}
	if *i < 0 || *i >= len(c.doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", *i)
	}
	if m, ok := c.materials[*i]; ok {
		return m.Clone(), nil
	}

	src := c.doc.Materials[*i]
	m := scenegraph.NewMaterial()
	m.Name = src.Name
	m.DoubleSided = src.DoubleSided
	m.Emissive = math.Vec3{X: float32(src.EmissiveFactor[0]), Y: float32(src.EmissiveFactor[1]), Z: float32(src.EmissiveFactor[2])}

	if pbr := src.PBRMetallicRoughness; pbr != nil {
		f := pbr.BaseColorFactorOrDefault()
		m.Color = math.Vec3{X: float32(f[0]), Y: float32(f[1]), Z: float32(f[2])}
		m.Opacity = float32(f[3])
		if pbr.BaseColorTexture != nil {
			m.Texture = c.texture(pbr.BaseColorTexture.Index)
		}
	}

	if _, ok := src.Extensions[unlitExtension]; ok {
		m.Unlit = true
	}
	if raw, ok := src.Extensions[emissiveStrengthExtension]; ok {
		var ext struct {
			EmissiveStrength *float32 `json:"emissiveStrength"`
		}
		if err := decodeExtension(raw, &ext); err != nil {
			return nil, fmt.Errorf("material %q: %s: %w", src.Name, emissiveStrengthExtension, err)
		}
		if ext.EmissiveStrength != nil {
			m.EmissiveIntensity = *ext.EmissiveStrength
		}
	}

	c.materials[*i] = m
	return m.Clone(), nil
}

// decodeExtension re-reads an extension value, which is raw JSON for
// extensions the decoder has no type registered for.
func decodeExtension(v any, out any) error {
	data, ok := v.(json.RawMessage)
	if !ok {
		var err error
		if data, err = json.Marshal(v); err != nil {
			return err
		}
	}
	return json.Unmarshal(data, out)
}

// texture decodes document texture i. Textures that fail to decode are
// logged and dropped; the material keeps its base colour.
func (c *converter) texture(i int) *scenegraph.TextureSource {
	if t, ok := c.textures[i]; ok {
		return t
	}
	c.textures[i] = nil

	if i < 0 || i >= len(c.doc.Textures) {
		c.log.Warn("texture index out of range", zap.Int("texture", i))
		return nil
	}
	tex := c.doc.Textures[i]
	if tex.Source == nil || *tex.Source >= len(c.doc.Images) {
		c.log.Warn("texture has no image", zap.Int("texture", i))
		return nil
	}
	img := c.doc.Images[*tex.Source]

	name, data, err := c.imageData(img)
	if err != nil {
		c.log.Warn("failed to read texture image", zap.Int("texture", i), zap.Error(err))
		return nil
	}
	decoded, err := texture.Decode(name, data)
	if err != nil {
		c.log.Warn("failed to decode texture image", zap.String("image", name), zap.Error(err))
		return nil
	}

	src := &scenegraph.TextureSource{Name: name, Image: decoded, Repeat: true}
	if tex.Sampler != nil && *tex.Sampler < len(c.doc.Samplers) {
		s := c.doc.Samplers[*tex.Sampler]
		src.Repeat = s.WrapS != gltf.WrapClampToEdge && s.WrapT != gltf.WrapClampToEdge
	}
	c.textures[i] = src
	return src
}

// imageData returns a file name hint and the encoded bytes of an image.
func (c *converter) imageData(img *gltf.Image) (string, []byte, error) {
	name := img.Name
	if name == "" {
		name = "image" + mimeExtension(img.MimeType)
	}

	switch {
	case img.BufferView != nil:
		if *img.BufferView >= len(c.doc.BufferViews) {
			return "", nil, fmt.Errorf("buffer view %d out of range", *img.BufferView)
		}
		bv := c.doc.BufferViews[*img.BufferView]
		if bv.Buffer >= len(c.doc.Buffers) {
			return "", nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
		}
		buf := c.doc.Buffers[bv.Buffer].Data
		end := bv.ByteOffset + bv.ByteLength
		if end > len(buf) {
			return "", nil, fmt.Errorf("buffer view %d exceeds buffer", *img.BufferView)
		}
		return name, buf[bv.ByteOffset:end], nil

	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		return name, data, err

	case img.URI != "":
		if c.opts.FS == nil {
			return "", nil, fmt.Errorf("external image %q needs a file system", img.URI)
		}
		uri, err := url.PathUnescape(img.URI)
		if err != nil {
			uri = img.URI
		}
		data, err := fs.ReadFile(c.opts.FS, path.Clean(uri))
		return path.Base(uri), data, err
	}
	return "", nil, fmt.Errorf("image %q has no data", img.Name)
}

func mimeExtension(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	}
	return ""
}
