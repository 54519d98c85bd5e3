package picking

import (
	"testing"

	"github.com/Faultbox/gldemos/pkg/math"
)

func TestIntersectTriangle(t *testing.T) {
	a := math.Vec3{X: -1, Y: 0, Z: -1}
	b := math.Vec3{X: 1, Y: 0, Z: -1}
	c := math.Vec3{X: 0, Y: 0, Z: 1}

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"straight down", Ray{Origin: math.Vec3{Y: 5}, Direction: math.Vec3{Y: -1}}, true, 5},
		{"from below", Ray{Origin: math.Vec3{Y: -2}, Direction: math.Vec3{Y: 1}}, true, 2},
		{"miss outside", Ray{Origin: math.Vec3{X: 5, Y: 5}, Direction: math.Vec3{Y: -1}}, false, 0},
		{"behind origin", Ray{Origin: math.Vec3{Y: 5}, Direction: math.Vec3{Y: 1}}, false, 0},
		{"parallel", Ray{Origin: math.Vec3{X: -5, Y: 0.5}, Direction: math.Vec3{X: 1}}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectTriangle(a, b, c)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && abs(got-tt.wantT) > 1e-5 {
				t.Errorf("t = %f, want %f", got, tt.wantT)
			}
		})
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: -1, Y: -1, Z: -1})

	ray := Ray{Origin: math.Vec3{Z: -5}, Direction: math.Vec3{Z: 1}}
	d, hit := ray.IntersectAABB(box)
	if !hit || abs(d-4) > 1e-5 {
		t.Errorf("expected hit at 4, got %f (hit=%v)", d, hit)
	}

	inside := Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 1}}
	d, hit = inside.IntersectAABB(box)
	if !hit || abs(d-1) > 1e-5 {
		t.Errorf("expected exit at 1, got %f (hit=%v)", d, hit)
	}

	miss := Ray{Origin: math.Vec3{X: 3, Z: -5}, Direction: math.Vec3{Z: 1}}
	if _, hit := miss.IntersectAABB(box); hit {
		t.Error("expected miss")
	}
}

func TestTransformAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
	m := math.Translate(10, 0, 0).Mul(math.Scale(2, 1, 1))

	out := TransformAABB(box, m)
	if out.Min.X != 8 || out.Max.X != 12 {
		t.Errorf("unexpected X range [%f, %f]", out.Min.X, out.Max.X)
	}
	if out.Min.Y != -1 || out.Max.Y != 1 {
		t.Errorf("unexpected Y range [%f, %f]", out.Min.Y, out.Max.Y)
	}
}

func TestNDCToRayCenter(t *testing.T) {
	proj := math.Perspective(math.DegToRad(60), 1, 0.1, 100)
	view := math.LookAt(math.Vec3{Z: 10}, math.Vec3{}, math.Vec3{Y: 1})
	inv := proj.Mul(view).Inverse()

	ray := NDCToRay(0, 0, inv)
	if abs(ray.Direction.Z+1) > 1e-3 {
		t.Errorf("expected ray along -Z, got %+v", ray.Direction)
	}
	if abs(ray.Origin.X) > 1e-3 || abs(ray.Origin.Y) > 1e-3 {
		t.Errorf("expected centered origin, got %+v", ray.Origin)
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
