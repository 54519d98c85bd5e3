package demo

import (
	"fmt"

	"github.com/Faultbox/gldemos/internal/engine/lighting"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/pkg/math"
)

var placeholderColors = []uint32{0xd0d0d0, 0x6080c0, 0xc08040}

// Placeholder builds the i-th stand-in model: a group named Sphere_<i+3>
// holding a sphere, with a box beside it. Demos use it when the model
// files are not installed.
func Placeholder(i int) *scenegraph.Node {
	root := scenegraph.NewNode(fmt.Sprintf("placeholder_%d", i+1))

	mat := scenegraph.NewMaterial()
	mat.Color = lighting.RGB(placeholderColors[i%len(placeholderColors)])

	group := scenegraph.NewNode(fmt.Sprintf("Sphere_%d", i+3))
	group.Position = math.Vec3{X: float32(i-1) * 2.5}
	group.Add(scenegraph.NewMesh(group.Name+"_mesh", scenegraph.NewSphere(0.75, 32, 16), mat))

	box := scenegraph.NewMesh(fmt.Sprintf("Box_%d", i+1), scenegraph.NewBox(0.5, 0.5, 0.5), mat.Clone())
	box.Position = math.Vec3{X: float32(i-1) * 2.5, Z: 1.5}

	root.Add(group, box)
	return root
}

// SetEmissive makes n glow. A node without its own material passes the
// change to its direct mesh children, which is how multi-primitive meshes
// are loaded.
func SetEmissive(n *scenegraph.Node, hex uint32, intensity float32) {
	targets := []*scenegraph.Node{n}
	if n.Material == nil {
		targets = targets[:0]
		for _, c := range n.Children() {
			if c.HasGeometry() && c.Material != nil {
				targets = append(targets, c)
			}
		}
	}
	for _, t := range targets {
		if t.Material == nil {
			continue
		}
		t.Material.Emissive = lighting.RGB(hex)
		t.Material.EmissiveIntensity = intensity
	}
}
