// Package scenegraph implements the retained node tree shared by the demos:
// transforms, geometry, materials and picking.
package scenegraph

import (
	"errors"
	"fmt"

	"github.com/Faultbox/gldemos/internal/engine/picking"
	"github.com/Faultbox/gldemos/pkg/math"
)

// PrimitiveMode selects how vertices are assembled.
type PrimitiveMode int

const (
	Triangles PrimitiveMode = iota
	Lines
)

// Geometry validation errors.
var (
	ErrNoPositions  = errors.New("geometry has no position data")
	ErrPositionSize = errors.New("position data length is not a multiple of 3")
	ErrIndexRange   = errors.New("index out of range")
)

// Geometry holds vertex data in flat float32 slices (3 floats per position,
// 2 per UV, 4 per joint/weight tuple). Indices is nil for non-indexed data.
type Geometry struct {
	Mode      PrimitiveMode
	Positions []float32
	Normals   []float32
	UVs       []float32
	Colors    []float32 // Per-vertex RGB, used by line helpers
	Joints    []uint16
	Weights   []float32
	Indices   []uint32

	// BindPositions and BindNormals keep the rest pose of skinned geometry.
	BindPositions []float32
	BindNormals   []float32

	// Version is bumped whenever vertex data changes so GPU copies can refresh.
	Version uint64
}

// PointCount returns the number of vertices.
func (g *Geometry) PointCount() int {
	if g == nil {
		return 0
	}
	return len(g.Positions) / 3
}

// Point returns vertex i.
func (g *Geometry) Point(i int) math.Vec3 {
	return math.Vec3{X: g.Positions[i*3], Y: g.Positions[i*3+1], Z: g.Positions[i*3+2]}
}

// Validate checks that position data exists, is made of whole points and
// that every index addresses an existing point.
// A nil Positions slice is missing data; an empty one is an empty mesh.
func (g *Geometry) Validate() error {
	if g == nil || g.Positions == nil {
		return ErrNoPositions
	}
	if len(g.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d floats", ErrPositionSize, len(g.Positions))
	}
	n := uint32(len(g.Positions) / 3)
	for i, idx := range g.Indices {
		if idx >= n {
			return fmt.Errorf("%w: index %d at %d, %d points", ErrIndexRange, idx, i, n)
		}
	}
	return nil
}

// Touch marks vertex data as modified.
func (g *Geometry) Touch() {
	g.Version++
}

// Bounds returns the local-space bounding box. ok is false for empty geometry.
func (g *Geometry) Bounds() (box picking.AABB, ok bool) {
	n := g.PointCount()
	if n == 0 {
		return picking.AABB{}, false
	}
	first := g.Point(0)
	box = picking.AABB{Min: first, Max: first}
	for i := 1; i < n; i++ {
		p := g.Point(i)
		box.Min = math.Vec3{X: min(box.Min.X, p.X), Y: min(box.Min.Y, p.Y), Z: min(box.Min.Z, p.Z)}
		box.Max = math.Vec3{X: max(box.Max.X, p.X), Y: max(box.Max.Y, p.Y), Z: max(box.Max.Z, p.Z)}
	}
	return box, true
}

// Triangles calls fn with the vertex indices of every triangle. Non-indexed
// geometry is consumed three vertices at a time.
func (g *Geometry) Triangles(fn func(a, b, c uint32)) {
	if g == nil || g.Mode != Triangles {
		return
	}
	if g.Indices != nil {
		for i := 0; i+2 < len(g.Indices); i += 3 {
			fn(g.Indices[i], g.Indices[i+1], g.Indices[i+2])
		}
		return
	}
	n := uint32(g.PointCount())
	for i := uint32(0); i+2 < n; i += 3 {
		fn(i, i+1, i+2)
	}
}
