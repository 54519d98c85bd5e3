// Package model converts scene graph geometry into interleaved vertex
// buffers ready for GPU upload.
package model

// Vertex is one interleaved vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Color    [3]float32
}

// VertexSize is the byte size of Vertex.
const VertexSize = 11 * 4

// Attribute byte offsets inside Vertex.
const (
	OffsetPosition = 0
	OffsetNormal   = 3 * 4
	OffsetTexCoord = 6 * 4
	OffsetColor    = 8 * 4
)

// Mesh holds the complete mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Lines    bool
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}
