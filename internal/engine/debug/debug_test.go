package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/gldemos/internal/engine/physics"
	"github.com/Faultbox/gldemos/internal/engine/picking"
	"github.com/Faultbox/gldemos/pkg/math"
)

func TestAABBWireframe(t *testing.T) {
	box := picking.AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	verts := AABBWireframe(box, 0.5)

	if len(verts) != BBoxWireframeVertexCount*3 {
		t.Fatalf("expected %d floats, got %d", BBoxWireframeVertexCount*3, len(verts))
	}
	if verts[0] != -1.5 || verts[3] != 1.5 {
		t.Errorf("expected padded first edge, got %v", verts[:6])
	}
}

func TestColliderWireframeTrimesh(t *testing.T) {
	mesh, err := physics.NewTrimesh([]float32{0, 0, 0, 1, 0, 0, 0, 0, 1}, []uint32{0, 1, 2})
	if err != nil {
		t.Fatalf("NewTrimesh: %v", err)
	}
	body := physics.NewBody(0).AddShape(mesh)
	body.Position = mgl32.Vec3{0, 5, 0}

	verts := ColliderWireframe(body)
	// 3 edges × 2 endpoints × 3 floats
	if len(verts) != 18 {
		t.Fatalf("expected 18 floats, got %d", len(verts))
	}
	for i := 1; i < len(verts); i += 3 {
		if verts[i] != 5 {
			t.Errorf("expected every endpoint at y=5, got %f", verts[i])
		}
	}
}

func TestColliderWireframeSphere(t *testing.T) {
	body := physics.NewBody(1).AddShape(physics.NewSphere(2))
	body.Position = mgl32.Vec3{1, 1, 1}

	verts := ColliderWireframe(body)
	if len(verts) != 3*circleSegments*6 {
		t.Fatalf("expected %d floats, got %d", 3*circleSegments*6, len(verts))
	}
	for i := 0; i < len(verts); i += 3 {
		p := mgl32.Vec3{verts[i], verts[i+1], verts[i+2]}
		if d := p.Sub(body.Position).Len(); d < 1.999 || d > 2.001 {
			t.Fatalf("endpoint %v not on sphere surface (distance %f)", p, d)
		}
	}
}

func TestScreenshotFilenameUsesClock(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC))

	dir := t.TempDir()
	sc := NewScreenshotCapture(dir, "cannon", mock)
	want := filepath.Join(dir, "cannon_2024-03-05_14-30-00.png")
	if got := sc.GenerateFilename(); got != want {
		t.Errorf("GenerateFilename() = %s, want %s", got, want)
	}
}

func TestCaptureFromPixelsFlips(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "shot", clock.NewMock())

	// 1×2 image: bottom row red, top row blue in GL order
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b == 0 {
		t.Errorf("expected blue at top after flip, got r=%d b=%d", r, b)
	}

	if _, err := sc.CaptureFromPixels(pixels, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}
