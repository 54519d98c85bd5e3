package scenegraph

import (
	"sort"

	"github.com/Faultbox/gldemos/internal/engine/picking"
)

// Hit is a ray intersection with a node's triangle geometry.
type Hit struct {
	Node     *Node
	Distance float32
	Triangle int
}

// Raycast intersects the ray with every visible triangle mesh under root and
// returns the hits sorted nearest first.
func Raycast(root *Node, ray picking.Ray) []Hit {
	var hits []Hit
	root.Traverse(func(n *Node) bool {
		if !n.Visible {
			return false
		}
		if !n.HasGeometry() || n.Geometry.Mode != Triangles {
			return true
		}
		world := n.WorldMatrix()
		local, ok := n.Geometry.Bounds()
		if !ok {
			return true
		}
		if _, hit := ray.IntersectAABB(picking.TransformAABB(local, world)); !hit {
			return true
		}

		best, bestTri := float32(-1), -1
		tri := 0
		g := n.Geometry
		g.Triangles(func(a, b, c uint32) {
			pa := world.TransformVec3(g.Point(int(a)))
			pb := world.TransformVec3(g.Point(int(b)))
			pc := world.TransformVec3(g.Point(int(c)))
			if t, ok := ray.IntersectTriangle(pa, pb, pc); ok && (best < 0 || t < best) {
				best, bestTri = t, tri
			}
			tri++
		})
		if bestTri >= 0 {
			hits = append(hits, Hit{Node: n, Distance: best, Triangle: bestTri})
		}
		return true
	})

	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}
