// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms scene geometry.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader shades scene geometry with ambient and sun light,
// emissive colour and an optional texture.
//
//go:embed mesh.frag
var MeshFragmentShader string

// ShadowVertexShader transforms geometry into light space for the depth pass.
//
//go:embed shadow.vert
var ShadowVertexShader string

// ShadowFragmentShader writes depth only.
//
//go:embed shadow.frag
var ShadowFragmentShader string

// LineVertexShader transforms coloured debug lines.
//
//go:embed line.vert
var LineVertexShader string

// LineFragmentShader outputs the interpolated line colour.
//
//go:embed line.frag
var LineFragmentShader string

// QuadVertexShader draws a full-screen triangle for post-processing.
//
//go:embed quad.vert
var QuadVertexShader string

// CopyFragmentShader samples a texture unchanged.
//
//go:embed copy.frag
var CopyFragmentShader string

// BrightFragmentShader keeps pixels brighter than a threshold.
//
//go:embed bright.frag
var BrightFragmentShader string

// BlurFragmentShader applies one direction of a separable gaussian blur.
//
//go:embed blur.frag
var BlurFragmentShader string

// BloomCompositeFragmentShader adds the blurred mip chain to the scene
// and tone maps the result.
//
//go:embed bloom_composite.frag
var BloomCompositeFragmentShader string

// EdgeFragmentShader finds the outline of a selection mask.
//
//go:embed edge.frag
var EdgeFragmentShader string

// OutlineCompositeFragmentShader adds glowing edges over the scene.
//
//go:embed outline_composite.frag
var OutlineCompositeFragmentShader string
