package bloom

import (
	"testing"

	"github.com/benbjohnson/clock"

	"github.com/Faultbox/gldemos/internal/config"
	"github.com/Faultbox/gldemos/internal/demo"
	"github.com/Faultbox/gldemos/internal/engine/lighting"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
)

func headless(t *testing.T) *demo.Context {
	t.Helper()
	cfg := config.Default()
	cfg.Assets.Root = t.TempDir()
	return demo.NewContext(cfg, clock.NewMock())
}

func TestSetupPlacesModels(t *testing.T) {
	ctx := headless(t)
	d := New()
	if err := d.Setup(ctx); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer d.Close()

	if len(d.Models) != 3 {
		t.Fatalf("models = %d, want 3", len(d.Models))
	}
	for i, want := range []float32{0, 1, -1} {
		if got := d.Models[i].Position.Y; got != want {
			t.Errorf("model %d at y=%v, want %v", i+1, got, want)
		}
		if d.Models[i].Parent() != ctx.Root {
			t.Errorf("model %d not attached to the scene", i+1)
		}
	}

	glowing := d.Models[0].Find("Sphere_3_mesh")
	if glowing.Material.Emissive != lighting.RGB(green) || glowing.Material.EmissiveIntensity != 10 {
		t.Errorf("Sphere_3 emissive = %+v ×%v", glowing.Material.Emissive, glowing.Material.EmissiveIntensity)
	}
	if box := d.Models[0].Find("Box_1"); box.Material.EmissiveIntensity != 1 {
		t.Errorf("unrelated node glows: %v", box.Material.EmissiveIntensity)
	}
}

func TestGlowOnLoadedTree(t *testing.T) {
	sphere := scenegraph.NewMesh("Sphere_3", scenegraph.NewSphere(1, 8, 6), nil)
	first := scenegraph.NewNode("scene_1")
	group := scenegraph.NewNode("Group")
	group.Add(sphere)
	first.Add(group)

	part := scenegraph.NewMesh("Cube", scenegraph.NewBox(1, 1, 1), nil)
	other := scenegraph.NewMesh("Cylinder", scenegraph.NewBox(1, 1, 1), nil)
	second := scenegraph.NewNode("scene_2")
	second.Add(part, other)

	Glow([]*scenegraph.Node{first, second})

	if sphere.Material.EmissiveRadiance() != lighting.RGB(green).Scale(10) {
		t.Errorf("Sphere_3 radiance = %+v", sphere.Material.EmissiveRadiance())
	}
	if part.Material.EmissiveRadiance() != lighting.RGB(blue).Scale(40) {
		t.Errorf("first child radiance = %+v", part.Material.EmissiveRadiance())
	}
	if other.Material.EmissiveRadiance() != lighting.RGB(0) {
		t.Errorf("second child glows: %+v", other.Material.EmissiveRadiance())
	}

	// Missing models or nodes are ignored.
	Glow(nil)
	Glow([]*scenegraph.Node{scenegraph.NewNode("empty"), scenegraph.NewNode("empty")})
}

func TestSettingsFromConfig(t *testing.T) {
	ctx := headless(t)
	s := Settings(ctx)
	if s.Threshold != 3 || s.Strength != 2 || s.Radius != 1 || s.Exposure != 1 || s.Levels != 5 || !s.ToneMap {
		t.Errorf("settings = %+v", s)
	}
}
