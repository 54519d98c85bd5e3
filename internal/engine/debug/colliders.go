package debug

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/gldemos/internal/engine/physics"
)

const (
	circleSegments = 24
	planeHalfSize  = 10
	planeGridLines = 10
)

// ColliderWireframe returns world-space line segments (x, y, z per endpoint)
// outlining every shape of body.
func ColliderWireframe(body *physics.Body) []float32 {
	var out []float32
	for _, s := range body.Shapes {
		switch shape := s.(type) {
		case *physics.Sphere:
			out = appendSphere(out, body, shape.Radius)
		case *physics.Plane:
			out = appendPlane(out, body)
		case *physics.Trimesh:
			out = appendTrimesh(out, body, shape)
		}
	}
	return out
}

// WorldWireframe concatenates the wireframes of every body in w.
func WorldWireframe(w *physics.World) []float32 {
	var out []float32
	for _, b := range w.Bodies() {
		out = append(out, ColliderWireframe(b)...)
	}
	return out
}

func appendSegment(out []float32, body *physics.Body, a, b mgl32.Vec3) []float32 {
	wa := body.PointToWorld(a)
	wb := body.PointToWorld(b)
	return append(out, wa[0], wa[1], wa[2], wb[0], wb[1], wb[2])
}

// appendSphere draws three great circles, one per body axis.
func appendSphere(out []float32, body *physics.Body, r float32) []float32 {
	point := func(axis, i int) mgl32.Vec3 {
		a := 2 * gomath.Pi * float64(i) / circleSegments
		c, s := float32(gomath.Cos(a))*r, float32(gomath.Sin(a))*r
		switch axis {
		case 0:
			return mgl32.Vec3{0, c, s}
		case 1:
			return mgl32.Vec3{c, 0, s}
		default:
			return mgl32.Vec3{c, s, 0}
		}
	}
	for axis := 0; axis < 3; axis++ {
		for i := 0; i < circleSegments; i++ {
			out = appendSegment(out, body, point(axis, i), point(axis, i+1))
		}
	}
	return out
}

// appendPlane draws a finite grid patch of the infinite plane.
func appendPlane(out []float32, body *physics.Body) []float32 {
	step := float32(2*planeHalfSize) / planeGridLines
	for i := 0; i <= planeGridLines; i++ {
		d := -planeHalfSize + float32(i)*step
		out = appendSegment(out, body, mgl32.Vec3{d, 0, -planeHalfSize}, mgl32.Vec3{d, 0, planeHalfSize})
		out = appendSegment(out, body, mgl32.Vec3{-planeHalfSize, 0, d}, mgl32.Vec3{planeHalfSize, 0, d})
	}
	return out
}

func appendTrimesh(out []float32, body *physics.Body, mesh *physics.Trimesh) []float32 {
	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c := mesh.Triangle(i)
		out = appendSegment(out, body, a, b)
		out = appendSegment(out, body, b, c)
		out = appendSegment(out, body, c, a)
	}
	return out
}
