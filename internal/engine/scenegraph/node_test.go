package scenegraph

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/gldemos/internal/engine/picking"
	"github.com/Faultbox/gldemos/pkg/math"
)

func almostEqual(a, b, tol float32) bool {
	return float32(gomath.Abs(float64(a-b))) <= tol
}

func vecAlmostEqual(a, b math.Vec3, tol float32) bool {
	return almostEqual(a.X, b.X, tol) && almostEqual(a.Y, b.Y, tol) && almostEqual(a.Z, b.Z, tol)
}

func TestAddReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")

	a.Add(c)
	b.Add(c)

	if c.Parent() != b {
		t.Fatalf("expected parent b, got %v", c.Parent())
	}
	if len(a.Children()) != 0 {
		t.Errorf("expected a to lose its child, has %d", len(a.Children()))
	}
	if !b.Remove(c) || c.Parent() != nil {
		t.Error("expected Remove to detach c")
	}
}

func TestWorldTransformNested(t *testing.T) {
	root := NewNode("root")
	root.Position = math.Vec3{X: 10}
	root.Rotation = math.QuatFromAxisAngle(math.Vec3{Y: 1}, gomath.Pi/2)
	root.Scale = math.Vec3{X: 2, Y: 2, Z: 2}

	mid := NewNode("mid")
	mid.Position = math.Vec3{X: 1}
	root.Add(mid)

	leaf := NewNode("leaf")
	leaf.Position = math.Vec3{Y: 1}
	mid.Add(leaf)

	// mid is at root + R(90°Y) * (2,0,0) = (10,0,-2); leaf adds (0,2,0).
	want := math.Vec3{X: 10, Y: 2, Z: -2}
	if got := leaf.WorldPosition(); !vecAlmostEqual(got, want, 1e-5) {
		t.Errorf("WorldPosition = %+v, want %+v", got, want)
	}

	rot := leaf.WorldRotation()
	if dot := rot.Dot(root.Rotation); !almostEqual(float32(gomath.Abs(float64(dot))), 1, 1e-5) {
		t.Errorf("expected world rotation to equal root rotation, got %+v", rot)
	}
	if got := leaf.WorldScale(); !vecAlmostEqual(got, math.Vec3{X: 2, Y: 2, Z: 2}, 1e-5) {
		t.Errorf("WorldScale = %+v", got)
	}
}

func TestSetWorldTransform(t *testing.T) {
	root := NewNode("root")
	root.Position = math.Vec3{X: 3, Y: -1, Z: 2}
	root.Rotation = math.QuatFromAxisAngle(math.Vec3{X: 1}, 0.7)

	child := NewNode("child")
	root.Add(child)

	pos := math.Vec3{X: 1, Y: 2, Z: 3}
	rot := math.QuatFromAxisAngle(math.Vec3{Z: 1}, 0.3)
	child.SetWorldTransform(pos, rot)

	if got := child.WorldPosition(); !vecAlmostEqual(got, pos, 1e-5) {
		t.Errorf("WorldPosition = %+v, want %+v", got, pos)
	}
	got := child.WorldRotation()
	if d := got.Dot(rot); !almostEqual(float32(gomath.Abs(float64(d))), 1, 1e-5) {
		t.Errorf("WorldRotation = %+v, want %+v", got, rot)
	}
}

func TestSetWorldTransformIdentityParentIsExact(t *testing.T) {
	root := NewNode("scene")
	child := NewNode("ball")
	root.Add(child)

	pos := math.Vec3{X: 0.1, Y: 0.2, Z: 0.3}
	rot := math.Quat{X: 0.1, Y: 0.2, Z: 0.3, W: 0.927}
	child.SetWorldTransform(pos, rot)

	if child.Position != pos || child.Rotation != rot {
		t.Errorf("expected exact copy, got %+v %+v", child.Position, child.Rotation)
	}
}

func TestFindAndFindAncestor(t *testing.T) {
	root := NewNode("scene")
	group := NewNode("Sphere_4")
	mesh := NewMesh("Sphere_4_mesh", NewSphere(1, 8, 6), nil)
	root.Add(group)
	group.Add(mesh)

	if root.Find("Sphere_4_mesh") != mesh {
		t.Error("Find did not return the mesh")
	}
	if root.Find("missing") != nil {
		t.Error("expected nil for missing name")
	}
	if mesh.FindAncestor("Sphere_4") != group {
		t.Error("FindAncestor did not return the group")
	}
	if mesh.FindAncestor("Sphere_4_mesh") != mesh {
		t.Error("FindAncestor should include the node itself")
	}
	if group.FindAncestor("Sphere_4_mesh") != nil {
		t.Error("FindAncestor must not search descendants")
	}
}

func TestTraverseSkipsSubtree(t *testing.T) {
	root := NewNode("root")
	hidden := NewNode("hidden")
	root.Add(hidden, NewNode("visible"))
	hidden.Add(NewNode("under-hidden"))

	var names []string
	root.Traverse(func(n *Node) bool {
		names = append(names, n.Name)
		return n.Name != "hidden"
	})

	want := []string{"root", "hidden", "visible"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visit %d = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestGeometryValidate(t *testing.T) {
	tests := []struct {
		name string
		geom *Geometry
		want error
	}{
		{"valid indexed", NewPlane(1, 1), nil},
		{"empty", &Geometry{Positions: []float32{}}, nil},
		{"missing positions", &Geometry{Indices: []uint32{0, 1, 2}}, ErrNoPositions},
		{"partial point", &Geometry{Positions: []float32{0, 0, 0, 1}}, ErrPositionSize},
		{"index out of range", &Geometry{Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, Indices: []uint32{0, 1, 3}}, ErrIndexRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.geom.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTrianglesNonIndexed(t *testing.T) {
	g := &Geometry{Positions: make([]float32, 6*3)}
	var tris [][3]uint32
	g.Triangles(func(a, b, c uint32) { tris = append(tris, [3]uint32{a, b, c}) })

	if len(tris) != 2 || tris[1] != [3]uint32{3, 4, 5} {
		t.Errorf("unexpected triangles %v", tris)
	}
}

func TestRaycastNearestFirst(t *testing.T) {
	root := NewNode("scene")

	near := NewMesh("near", NewBox(1, 1, 1), nil)
	near.Position = math.Vec3{Z: 2}
	far := NewMesh("far", NewBox(1, 1, 1), nil)
	far.Position = math.Vec3{Z: -2}
	off := NewMesh("off", NewBox(1, 1, 1), nil)
	off.Position = math.Vec3{X: 5}
	root.Add(far, near, off)

	ray := picking.Ray{Origin: math.Vec3{Z: 10}, Direction: math.Vec3{Z: -1}}
	hits := Raycast(root, ray)

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Node != near || hits[1].Node != far {
		t.Errorf("unexpected hit order: %s, %s", hits[0].Node.Name, hits[1].Node.Name)
	}
	if !almostEqual(hits[0].Distance, 7.5, 1e-4) {
		t.Errorf("expected first hit at 7.5, got %f", hits[0].Distance)
	}

	near.Visible = false
	hits = Raycast(root, ray)
	if len(hits) != 1 || hits[0].Node != far {
		t.Errorf("expected hidden node to be ignored, got %d hits", len(hits))
	}
}

func TestPrimitiveGeometryIsValid(t *testing.T) {
	for name, g := range map[string]*Geometry{
		"plane":  NewPlane(10, 10),
		"sphere": NewSphere(1, 16, 12),
		"box":    NewBox(1, 2, 3),
		"axes":   NewAxes(5),
	} {
		if err := g.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	box, ok := NewSphere(2, 16, 12).Bounds()
	if !ok || !almostEqual(box.Max.Y, 2, 1e-5) || !almostEqual(box.Min.Y, -2, 1e-5) {
		t.Errorf("unexpected sphere bounds %+v", box)
	}
}
