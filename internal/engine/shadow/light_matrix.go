package shadow

import (
	gomath "math"

	"github.com/Faultbox/gldemos/internal/engine/picking"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/pkg/math"
)

// Center returns the center point of a box.
func Center(b picking.AABB) math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns the distance from center to corner (half-diagonal).
func Radius(b picking.AABB) float32 {
	return b.Max.Sub(b.Min).Length() / 2
}

// SceneBounds returns the world-space box enclosing every visible mesh under
// root that casts a shadow. Line meshes are skipped. ok is false when
// nothing qualifies.
func SceneBounds(root *scenegraph.Node) (box picking.AABB, ok bool) {
	root.Traverse(func(n *scenegraph.Node) bool {
		if !n.Visible {
			return false
		}
		if !n.HasGeometry() || n.Geometry.Mode == scenegraph.Lines {
			return true
		}
		local, has := n.Geometry.Bounds()
		if !has {
			return true
		}
		world := picking.TransformAABB(local, n.WorldMatrix())
		if !ok {
			box, ok = world, true
			return true
		}
		box.Min = math.Vec3{X: min(box.Min.X, world.Min.X), Y: min(box.Min.Y, world.Min.Y), Z: min(box.Min.Z, world.Min.Z)}
		box.Max = math.Vec3{X: max(box.Max.X, world.Max.X), Y: max(box.Max.Y, world.Max.Y), Z: max(box.Max.Z, world.Max.Z)}
		return true
	})
	return box, ok
}

// LightMatrix computes the view-projection of a directional light that
// covers bounds. lightDir points from the scene toward the light.
func LightMatrix(lightDir math.Vec3, bounds picking.AABB) math.Mat4 {
	center := Center(bounds)
	radius := max(Radius(bounds), 0.01)
	dir := lightDir.Normalize()

	// Far enough that the whole box sits in front of the light
	lightDistance := radius * 2.0
	lightPos := center.Add(dir.Scale(lightDistance))

	up := math.Vec3{Y: 1}
	if abs32(dir.Y) > 0.99 {
		up = math.Vec3{Z: 1}
	}
	view := math.LookAt(lightPos, center, up)

	// Padding avoids clipping at the edges
	padding := radius * 0.1
	halfSize := radius + padding
	far := lightDistance + radius + padding

	proj := math.Ortho(-halfSize, halfSize, -halfSize, halfSize, 0.1, far)
	return proj.Mul(view)
}

// abs32 returns the absolute value of a float32.
func abs32(x float32) float32 {
	return float32(gomath.Abs(float64(x)))
}
