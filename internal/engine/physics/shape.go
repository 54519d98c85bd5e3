package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ShapeType identifies a collision shape.
type ShapeType int

const (
	ShapeSphere ShapeType = iota
	ShapePlane
	ShapeTrimesh
)

// String returns the shape name.
func (t ShapeType) String() string {
	switch t {
	case ShapeSphere:
		return "sphere"
	case ShapePlane:
		return "plane"
	case ShapeTrimesh:
		return "trimesh"
	default:
		return fmt.Sprintf("shape(%d)", int(t))
	}
}

// Shape is collision geometry attached to a body at its origin.
type Shape interface {
	Type() ShapeType
}

// Sphere is a ball centred on the body origin.
type Sphere struct {
	Radius float32
}

// NewSphere creates a sphere shape.
func NewSphere(radius float32) *Sphere {
	return &Sphere{Radius: radius}
}

// Type implements Shape.
func (*Sphere) Type() ShapeType { return ShapeSphere }

// Plane is an infinite plane through the body origin with normal +Y in body
// space.
type Plane struct{}

// NewPlane creates a plane shape.
func NewPlane() *Plane {
	return &Plane{}
}

// Type implements Shape.
func (*Plane) Type() ShapeType { return ShapePlane }

// ErrBadTrimesh is returned for triangle data that cannot form a mesh.
var ErrBadTrimesh = errors.New("invalid trimesh data")

// Trimesh is a static triangle mesh in body space.
type Trimesh struct {
	Vertices []float32 // x, y, z per vertex
	Indices  []uint32  // 3 per triangle

	min, max mgl32.Vec3
}

// NewTrimesh creates a triangle mesh shape. When indices is nil the
// vertices are consumed three at a time.
func NewTrimesh(vertices []float32, indices []uint32) (*Trimesh, error) {
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d vertex floats", ErrBadTrimesh, len(vertices))
	}
	n := uint32(len(vertices) / 3)
	if indices == nil {
		indices = make([]uint32, n-n%3)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for _, idx := range indices {
		if idx >= n {
			return nil, fmt.Errorf("%w: index %d with %d vertices", ErrBadTrimesh, idx, n)
		}
	}

	t := &Trimesh{Vertices: vertices, Indices: indices[:len(indices)-len(indices)%3]}
	t.updateBounds()
	return t, nil
}

// Type implements Shape.
func (*Trimesh) Type() ShapeType { return ShapeTrimesh }

// TriangleCount returns the number of triangles.
func (t *Trimesh) TriangleCount() int {
	return len(t.Indices) / 3
}

// Vertex returns vertex i in body space.
func (t *Trimesh) Vertex(i uint32) mgl32.Vec3 {
	return mgl32.Vec3{t.Vertices[i*3], t.Vertices[i*3+1], t.Vertices[i*3+2]}
}

// Triangle returns the corners of triangle i in body space.
func (t *Trimesh) Triangle(i int) (a, b, c mgl32.Vec3) {
	return t.Vertex(t.Indices[i*3]), t.Vertex(t.Indices[i*3+1]), t.Vertex(t.Indices[i*3+2])
}

// Bounds returns the body-space bounding box.
func (t *Trimesh) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	return t.min, t.max
}

func (t *Trimesh) updateBounds() {
	if len(t.Vertices) < 3 {
		return
	}
	t.min = mgl32.Vec3{t.Vertices[0], t.Vertices[1], t.Vertices[2]}
	t.max = t.min
	for i := 3; i+2 < len(t.Vertices); i += 3 {
		for k := 0; k < 3; k++ {
			v := t.Vertices[i+k]
			t.min[k] = min(t.min[k], v)
			t.max[k] = max(t.max[k], v)
		}
	}
}
