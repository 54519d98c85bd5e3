package physics

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// contact is a single touching point between two bodies. Normal points from
// B towards A; Depth is the penetration along it.
type contact struct {
	a, b   *Body
	point  mgl32.Vec3
	normal mgl32.Vec3
	depth  float32

	ra, rb         mgl32.Vec3
	normalMass     float32
	tangentMass    float32
	tangent        mgl32.Vec3
	bounce         float32
	friction       float32
	normalImpulse  float32
	tangentImpulse float32
}

// collide appends the contacts between a and b. a must be dynamic.
func collide(a, b *Body, out []contact) []contact {
	for _, sa := range a.Shapes {
		sphere, ok := sa.(*Sphere)
		if !ok {
			continue
		}
		for _, sb := range b.Shapes {
			switch shape := sb.(type) {
			case *Sphere:
				out = sphereSphere(a, sphere, b, shape, out)
			case *Plane:
				out = spherePlane(a, sphere, b, out)
			case *Trimesh:
				out = sphereTrimesh(a, sphere, b, shape, out)
			}
		}
	}
	return out
}

func sphereSphere(a *Body, sa *Sphere, b *Body, sb *Sphere, out []contact) []contact {
	d := a.Position.Sub(b.Position)
	dist := d.Len()
	r := sa.Radius + sb.Radius
	if dist >= r {
		return out
	}
	n := mgl32.Vec3{0, 1, 0}
	if dist > 1e-6 {
		n = d.Mul(1 / dist)
	}
	return append(out, contact{
		a:      a,
		b:      b,
		normal: n,
		depth:  r - dist,
		point:  b.Position.Add(n.Mul(sb.Radius - (r-dist)/2)),
	})
}

func spherePlane(a *Body, sa *Sphere, b *Body, out []contact) []contact {
	n := b.Quaternion.Rotate(mgl32.Vec3{0, 1, 0})
	dist := a.Position.Sub(b.Position).Dot(n)
	if dist >= sa.Radius {
		return out
	}
	return append(out, contact{
		a:      a,
		b:      b,
		normal: n,
		depth:  sa.Radius - dist,
		point:  a.Position.Sub(n.Mul(dist)),
	})
}

// triangleHit is a candidate contact against one mesh triangle, in mesh
// space.
type triangleHit struct {
	p0, p1, p2 mgl32.Vec3
	closest    mgl32.Vec3
	normal     mgl32.Vec3
	depth      float32
	onFace     bool
}

// sphereTrimesh tests the sphere against every triangle whose bounds it
// touches, working in mesh space. Edge and vertex contacts lying on a
// triangle that is already touched on its face are internal edges and are
// dropped, as are coincident contacts from triangles sharing an edge.
func sphereTrimesh(a *Body, sa *Sphere, b *Body, mesh *Trimesh, out []contact) []contact {
	center := b.PointToLocal(a.Position)
	r := sa.Radius

	lo, hi := mesh.Bounds()
	for k := 0; k < 3; k++ {
		if center[k]+r < lo[k] || center[k]-r > hi[k] {
			return out
		}
	}

	var hits []triangleHit
	for i := 0; i < mesh.TriangleCount(); i++ {
		p0, p1, p2 := mesh.Triangle(i)
		if !sphereOverlapsTriangleBounds(center, r, p0, p1, p2) {
			continue
		}
		face := p1.Sub(p0).Cross(p2.Sub(p0))
		if face.Len() < 1e-8 {
			continue
		}
		closest, onFace := closestPointOnTriangle(center, p0, p1, p2)
		d := center.Sub(closest)
		dist := d.Len()
		if dist >= r {
			continue
		}

		n := face.Normalize()
		if dist > 1e-6 {
			n = d.Mul(1 / dist)
		}
		hits = append(hits, triangleHit{
			p0:      p0,
			p1:      p1,
			p2:      p2,
			closest: closest,
			normal:  n,
			depth:   r - dist,
			onFace:  onFace,
		})
	}

	first := len(out)
	for i, h := range hits {
		if !h.onFace && onTouchedFace(h.closest, hits, i) {
			continue
		}
		worldPoint := b.PointToWorld(h.closest)
		duplicate := false
		for j := first; j < len(out); j++ {
			if out[j].point.Sub(worldPoint).Len() < 1e-4 {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		out = append(out, contact{
			a:      a,
			b:      b,
			normal: b.Quaternion.Rotate(h.normal),
			depth:  h.depth,
			point:  worldPoint,
		})
	}
	return out
}

// onTouchedFace reports whether q lies on a triangle, other than skip, that
// the sphere touches on its face.
func onTouchedFace(q mgl32.Vec3, hits []triangleHit, skip int) bool {
	for j, h := range hits {
		if j == skip || !h.onFace {
			continue
		}
		p, _ := closestPointOnTriangle(q, h.p0, h.p1, h.p2)
		if p.Sub(q).Len() < 1e-4 {
			return true
		}
	}
	return false
}

func sphereOverlapsTriangleBounds(c mgl32.Vec3, r float32, p0, p1, p2 mgl32.Vec3) bool {
	for k := 0; k < 3; k++ {
		lo := min(p0[k], p1[k], p2[k])
		hi := max(p0[k], p1[k], p2[k])
		if c[k]+r < lo || c[k]-r > hi {
			return false
		}
	}
	return true
}

// closestPointOnTriangle returns the point of triangle (a, b, c) nearest p,
// classifying p against the triangle's Voronoi regions. onFace is false when
// the point lies on an edge or a vertex.
func closestPointOnTriangle(p, a, b, c mgl32.Vec3) (closest mgl32.Vec3, onFace bool) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a, false
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b, false
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v)), false
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c, false
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w)), false
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w)), false
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w)), true
}

func pow32(x, y float32) float32 {
	return float32(gomath.Pow(float64(x), float64(y)))
}
