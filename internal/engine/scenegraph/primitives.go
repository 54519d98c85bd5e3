package scenegraph

import (
	gomath "math"

	"github.com/Faultbox/gldemos/pkg/math"
)

// NewPlane builds a width×height quad in the XY plane facing +Z, made of two
// triangles.
func NewPlane(width, height float32) *Geometry {
	hw, hh := width/2, height/2
	return &Geometry{
		Positions: []float32{
			-hw, hh, 0,
			hw, hh, 0,
			-hw, -hh, 0,
			hw, -hh, 0,
		},
		Normals: []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		UVs:     []float32{0, 1, 1, 1, 0, 0, 1, 0},
		Indices: []uint32{0, 2, 1, 2, 3, 1},
	}
}

// NewSphere builds a UV sphere.
func NewSphere(radius float32, widthSegments, heightSegments int) *Geometry {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	g := &Geometry{}
	for y := 0; y <= heightSegments; y++ {
		v := float64(y) / float64(heightSegments)
		theta := v * gomath.Pi
		for x := 0; x <= widthSegments; x++ {
			u := float64(x) / float64(widthSegments)
			phi := u * 2 * gomath.Pi

			nx := float32(-gomath.Cos(phi) * gomath.Sin(theta))
			ny := float32(gomath.Cos(theta))
			nz := float32(gomath.Sin(phi) * gomath.Sin(theta))

			g.Positions = append(g.Positions, nx*radius, ny*radius, nz*radius)
			g.Normals = append(g.Normals, nx, ny, nz)
			g.UVs = append(g.UVs, float32(u), float32(1-v))
		}
	}

	stride := uint32(widthSegments + 1)
	for y := uint32(0); y < uint32(heightSegments); y++ {
		for x := uint32(0); x < uint32(widthSegments); x++ {
			a := y*stride + x + 1
			b := y*stride + x
			c := (y+1)*stride + x
			d := (y+1)*stride + x + 1
			if y != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if y != uint32(heightSegments)-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

// NewBox builds an axis-aligned box centred on the origin with per-face normals.
func NewBox(width, height, depth float32) *Geometry {
	hx, hy, hz := width/2, height/2, depth/2
	faces := []struct {
		normal  math.Vec3
		corners [4]math.Vec3
	}{
		{math.Vec3{X: 1}, [4]math.Vec3{{X: hx, Y: -hy, Z: hz}, {X: hx, Y: -hy, Z: -hz}, {X: hx, Y: hy, Z: -hz}, {X: hx, Y: hy, Z: hz}}},
		{math.Vec3{X: -1}, [4]math.Vec3{{X: -hx, Y: -hy, Z: -hz}, {X: -hx, Y: -hy, Z: hz}, {X: -hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: -hz}}},
		{math.Vec3{Y: 1}, [4]math.Vec3{{X: -hx, Y: hy, Z: hz}, {X: hx, Y: hy, Z: hz}, {X: hx, Y: hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz}}},
		{math.Vec3{Y: -1}, [4]math.Vec3{{X: -hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: hz}, {X: -hx, Y: -hy, Z: hz}}},
		{math.Vec3{Z: 1}, [4]math.Vec3{{X: -hx, Y: -hy, Z: hz}, {X: hx, Y: -hy, Z: hz}, {X: hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: hz}}},
		{math.Vec3{Z: -1}, [4]math.Vec3{{X: hx, Y: -hy, Z: -hz}, {X: -hx, Y: -hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz}, {X: hx, Y: hy, Z: -hz}}},
	}

	g := &Geometry{}
	for i, f := range faces {
		for _, c := range f.corners {
			g.Positions = append(g.Positions, c.X, c.Y, c.Z)
			g.Normals = append(g.Normals, f.normal.X, f.normal.Y, f.normal.Z)
		}
		g.UVs = append(g.UVs, 0, 0, 1, 0, 1, 1, 0, 1)
		base := uint32(i * 4)
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}

// NewAxes builds three colored line segments of the given length along +X
// (red), +Y (green) and +Z (blue).
func NewAxes(size float32) *Geometry {
	return &Geometry{
		Mode: Lines,
		Positions: []float32{
			0, 0, 0, size, 0, 0,
			0, 0, 0, 0, size, 0,
			0, 0, 0, 0, 0, size,
		},
		Colors: []float32{
			1, 0, 0, 1, 0.6, 0,
			0, 1, 0, 0.6, 1, 0,
			0, 0, 1, 0, 0.6, 1,
		},
	}
}
