// Package picking provides ray casting and object picking utilities.
package picking

import (
	gomath "math"

	"github.com/Faultbox/gldemos/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := (2.0*screenX/viewportW - 1.0)
	ndcY := (1.0 - 2.0*screenY/viewportH) // Flip Y

	return NDCToRay(ndcX, ndcY, invViewProj)
}

// NDCToRay unprojects normalized device coordinates into a world-space ray.
func NDCToRay(ndcX, ndcY float32, invViewProj math.Mat4) Ray {
	nearWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1.0, 1.0})
	return Ray{Origin: nearWorld, Direction: farWorld.Sub(nearWorld).Normalize()}
}

func unproject(invViewProj math.Mat4, p math.Vec4) math.Vec3 {
	w := invViewProj.MulVec4(p)
	// Perspective divide
	if w[3] != 0 {
		w[0] /= w[3]
		w[1] /= w[3]
		w[2] /= w[3]
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectTriangle tests the ray against triangle (a, b, c) using the
// Möller-Trumbore algorithm. Both faces count as hits.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	const epsilon = 1e-7

	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	p := r.Direction.Cross(edge2)
	det := edge1.Dot(p)
	if det > -epsilon && det < epsilon {
		return 0, false // Ray parallel to triangle
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = edge2.Dot(q) * inv
	if t < 0 {
		return 0, false // Intersection behind ray origin
	}
	return t, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	bmin := box.Min.Array()
	bmax := box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] != 0 {
			t1 := (bmin[axis] - origin[axis]) / dir[axis]
			t2 := (bmax[axis] - origin[axis]) / dir[axis]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if origin[axis] < bmin[axis] || origin[axis] > bmax[axis] {
			return 0, false
		}
	}

	// Check if intersection is valid
	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// NewAABB creates an AABB from two corners, handling swapped axes.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{
		Min: math.Vec3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)},
		Max: math.Vec3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)},
	}
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]math.Vec3 {
	return [8]math.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// TransformAABB returns the world-space box enclosing a local box under m.
func TransformAABB(local AABB, m math.Mat4) AABB {
	corners := local.Corners()
	first := m.TransformVec3(corners[0])
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := m.TransformVec3(c)
		out.Min = math.Vec3{X: min(out.Min.X, p.X), Y: min(out.Min.Y, p.Y), Z: min(out.Min.Z, p.Z)}
		out.Max = math.Vec3{X: max(out.Max.X, p.X), Y: max(out.Max.Y, p.Y), Z: max(out.Max.Z, p.Z)}
	}
	return out
}
