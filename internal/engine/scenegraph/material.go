package scenegraph

import (
	"image"

	"github.com/Faultbox/gldemos/pkg/math"
)

// TextureSource is decoded image data attached to a material. The renderer
// uploads it on first use.
type TextureSource struct {
	Name   string
	Image  image.Image
	Repeat bool // Repeat wrapping; clamp to edge otherwise
	FlipY  bool // Flip rows on upload so v=0 is the bottom of the image
}

// Material describes how a node is shaded.
type Material struct {
	Name              string
	Color             math.Vec3
	Opacity           float32
	Emissive          math.Vec3
	EmissiveIntensity float32
	Texture           *TextureSource
	UVOffset          math.Vec2
	UVRepeat          math.Vec2
	Unlit             bool
	DoubleSided       bool
}

// NewMaterial returns an opaque white lit material.
func NewMaterial() *Material {
	return &Material{
		Color:             math.One3,
		Opacity:           1,
		EmissiveIntensity: 1,
		UVRepeat:          math.Vec2{X: 1, Y: 1},
	}
}

// Clone returns a copy that shares the texture source.
func (m *Material) Clone() *Material {
	c := *m
	return &c
}

// EmissiveRadiance returns Emissive scaled by EmissiveIntensity.
func (m *Material) EmissiveRadiance() math.Vec3 {
	return m.Emissive.Scale(m.EmissiveIntensity)
}
