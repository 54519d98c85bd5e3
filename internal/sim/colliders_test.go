package sim

import (
	"errors"
	gomath "math"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/gldemos/internal/engine/physics"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/pkg/math"
)

func almostEqual(a, b, tol float32) bool {
	return float32(gomath.Abs(float64(a-b))) <= tol
}

func zeroGravityWorld() *physics.World {
	cfg := physics.DefaultConfig()
	cfg.Gravity = mgl32.Vec3{}
	return physics.NewWorld(cfg)
}

// groundQuad is a 20×20 two-triangle quad in the XZ plane.
func groundQuad() *scenegraph.Geometry {
	return &scenegraph.Geometry{
		Positions: []float32{
			-10, 0, -10,
			10, 0, -10,
			10, 0, 10,
			-10, 0, 10,
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
}

func trimeshOf(t *testing.T, b *physics.Body) *physics.Trimesh {
	t.Helper()
	if len(b.Shapes) != 1 {
		t.Fatalf("expected one shape, got %d", len(b.Shapes))
	}
	mesh, ok := b.Shapes[0].(*physics.Trimesh)
	if !ok {
		t.Fatalf("expected trimesh, got %T", b.Shapes[0])
	}
	return mesh
}

func TestBuildCollidersScalesPerNode(t *testing.T) {
	shared := &scenegraph.Geometry{
		Positions: []float32{1, 2, 3, -1, 0.5, 4, 0, 0, 0},
		Indices:   []uint32{0, 1, 2},
	}
	original := slices.Clone(shared.Positions)

	root := scenegraph.NewNode("scene")
	wide := scenegraph.NewMesh("wide", shared, nil)
	wide.Scale = math.Vec3{X: 2, Y: 3, Z: 0.5}
	unit := scenegraph.NewMesh("unit", shared, nil)
	root.Add(wide, unit)

	world := zeroGravityWorld()
	bodies, err := BuildColliders(root, world)
	if err != nil {
		t.Fatalf("BuildColliders: %v", err)
	}
	if len(bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(bodies))
	}

	wantWide := []float32{2, 6, 1.5, -2, 1.5, 2, 0, 0, 0}
	if got := trimeshOf(t, bodies[0]).Vertices; !slices.Equal(got, wantWide) {
		t.Errorf("wide vertices = %v, want %v", got, wantWide)
	}
	if got := trimeshOf(t, bodies[1]).Vertices; !slices.Equal(got, original) {
		t.Errorf("unit vertices = %v, want %v", got, original)
	}
	if !slices.Equal(shared.Positions, original) {
		t.Errorf("source geometry was modified: %v", shared.Positions)
	}
}

func TestBuildCollidersKeepsIndices(t *testing.T) {
	geom := groundQuad()
	root := scenegraph.NewMesh("ground", geom, nil)
	root.Scale = math.Vec3{X: 3, Y: 3, Z: 3}

	bodies, err := BuildColliders(root, zeroGravityWorld())
	if err != nil {
		t.Fatalf("BuildColliders: %v", err)
	}
	if got := trimeshOf(t, bodies[0]).Indices; !slices.Equal(got, geom.Indices) {
		t.Errorf("indices = %v, want %v", got, geom.Indices)
	}
}

func TestBuildCollidersUsesWorldTransform(t *testing.T) {
	root := scenegraph.NewNode("level")
	root.Position = math.Vec3{X: 5, Y: 1, Z: -2}
	root.Rotation = math.QuatFromAxisAngle(math.Vec3{Y: 1}, gomath.Pi/2)
	root.Scale = math.Vec3{X: 2, Y: 2, Z: 2}

	mid := scenegraph.NewNode("group")
	mid.Position = math.Vec3{X: 1}
	mid.Rotation = math.QuatFromAxisAngle(math.Vec3{X: 1}, gomath.Pi/4)
	root.Add(mid)

	leaf := scenegraph.NewMesh("rock", groundQuad(), nil)
	leaf.Position = math.Vec3{Y: 1}
	mid.Add(leaf)

	bodies, err := BuildColliders(root, zeroGravityWorld())
	if err != nil {
		t.Fatalf("BuildColliders: %v", err)
	}
	if len(bodies) != 1 {
		t.Fatalf("expected 1 body, got %d", len(bodies))
	}
	b := bodies[0]

	// Expected world position, worked by hand:
	// mid = (5,1,-2) + Ry(90°)·(2,0,0) = (5,1,-4)
	// leaf = mid + Ry(90°)·Rx(45°)·(0,2,0) = mid + Ry(90°)·(0,√2,√2) = (5+√2, 1+√2, -4)
	s2 := float32(gomath.Sqrt2)
	want := mgl32.Vec3{5 + s2, 1 + s2, -4}
	if !b.Position.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("body position %v, want %v", b.Position, want)
	}
	if b.Position.ApproxEqualThreshold(leaf.Position.Mgl(), 1e-3) {
		t.Error("body placed at local instead of world position")
	}

	wantRot := root.Rotation.Mul(mid.Rotation).Mgl()
	if d := b.Quaternion.Dot(wantRot); !almostEqual(float32(gomath.Abs(float64(d))), 1, 1e-5) {
		t.Errorf("body orientation %v, want %v", b.Quaternion, wantRot)
	}
	if !b.IsStatic() {
		t.Error("collider body must be static")
	}
}

func TestBuildCollidersSkipsEmptyAndNonMesh(t *testing.T) {
	root := scenegraph.NewNode("scene")
	root.Add(
		scenegraph.NewNode("group"),
		scenegraph.NewMesh("empty", &scenegraph.Geometry{Positions: []float32{}}, nil),
		scenegraph.NewMesh("axes", scenegraph.NewAxes(5), nil),
	)

	world := zeroGravityWorld()
	bodies, err := BuildColliders(root, world)
	if err != nil {
		t.Errorf("expected no error for empty geometry, got %v", err)
	}
	if len(bodies) != 0 || len(world.Bodies()) != 0 {
		t.Errorf("expected no bodies, got %d", len(bodies))
	}
}

func TestBuildCollidersMalformedNodeOnly(t *testing.T) {
	root := scenegraph.NewNode("scene")
	root.Add(
		scenegraph.NewMesh("good", groundQuad(), nil),
		scenegraph.NewMesh("no-positions", &scenegraph.Geometry{Indices: []uint32{0, 1, 2}}, nil),
		scenegraph.NewMesh("bad-index", &scenegraph.Geometry{
			Positions: []float32{0, 0, 0, 1, 0, 0, 0, 0, 1},
			Indices:   []uint32{0, 1, 9},
		}, nil),
		scenegraph.NewMesh("partial-point", &scenegraph.Geometry{Positions: []float32{0, 0, 0, 1}}, nil),
	)

	world := zeroGravityWorld()
	bodies, err := BuildColliders(root, world)
	if !errors.Is(err, ErrMalformedGeometry) {
		t.Fatalf("expected ErrMalformedGeometry, got %v", err)
	}
	if !errors.Is(err, scenegraph.ErrIndexRange) || !errors.Is(err, scenegraph.ErrNoPositions) {
		t.Errorf("expected per-node causes in joined error, got %v", err)
	}
	if len(bodies) != 1 || bodies[0].Name != "good" {
		t.Fatalf("expected only the good node to get a collider, got %d bodies", len(bodies))
	}
	if len(world.Bodies()) != 1 {
		t.Errorf("expected 1 body in world, got %d", len(world.Bodies()))
	}
}

func TestBuildCollidersNonIndexed(t *testing.T) {
	geom := &scenegraph.Geometry{Positions: []float32{0, 0, 0, 1, 0, 0, 0, 0, 1}}
	bodies, err := BuildColliders(scenegraph.NewMesh("tri", geom, nil), zeroGravityWorld())
	if err != nil {
		t.Fatalf("BuildColliders: %v", err)
	}
	if got := trimeshOf(t, bodies[0]).TriangleCount(); got != 1 {
		t.Errorf("expected 1 triangle, got %d", got)
	}
}
