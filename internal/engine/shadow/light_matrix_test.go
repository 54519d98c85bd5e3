package shadow

import (
	"testing"

	"github.com/Faultbox/gldemos/internal/engine/picking"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/pkg/math"
)

func TestSceneBounds(t *testing.T) {
	root := scenegraph.NewNode("root")
	box := scenegraph.NewMesh("box", scenegraph.NewBox(2, 2, 2), nil)
	box.Position = math.Vec3{X: 5}
	hidden := scenegraph.NewMesh("hidden", scenegraph.NewBox(100, 100, 100), nil)
	hidden.Visible = false
	axes := scenegraph.NewMesh("axes", scenegraph.NewAxes(50), nil)
	root.Add(box, hidden, axes)

	b, ok := SceneBounds(root)
	if !ok {
		t.Fatal("no bounds found")
	}
	want := picking.AABB{Min: math.Vec3{X: 4, Y: -1, Z: -1}, Max: math.Vec3{X: 6, Y: 1, Z: 1}}
	if b != want {
		t.Errorf("bounds = %+v, want %+v", b, want)
	}

	if _, ok := SceneBounds(scenegraph.NewNode("empty")); ok {
		t.Error("empty scene reported bounds")
	}
}

func TestLightMatrixCoversBounds(t *testing.T) {
	bounds := picking.AABB{Min: math.Vec3{X: -20, Y: 0, Z: -20}, Max: math.Vec3{X: 20, Y: 3, Z: 20}}

	tests := []struct {
		name string
		dir  math.Vec3
	}{
		{"angled", math.Vec3{X: 1, Y: 1, Z: 1}},
		{"overhead", math.Vec3{Y: 1}},
		{"low", math.Vec3{X: -1, Y: 0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := LightMatrix(tt.dir, bounds)
			for _, c := range bounds.Corners() {
				p := m.TransformPoint(c.Array())
				for i, v := range p {
					if v < -1 || v > 1 {
						t.Errorf("corner %+v axis %d at %v, outside clip space", c, i, v)
					}
				}
			}
		})
	}
}

func TestCenterRadius(t *testing.T) {
	b := picking.AABB{Min: math.Vec3{X: -1, Y: -2, Z: -2}, Max: math.Vec3{X: 1, Y: 2, Z: 2}}
	if c := Center(b); c != (math.Vec3{}) {
		t.Errorf("center = %+v", c)
	}
	if r := Radius(b); r != 3 {
		t.Errorf("radius = %v, want 3", r)
	}
}
