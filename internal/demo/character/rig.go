package character

import (
	gomath "math"

	"github.com/Faultbox/gldemos/internal/assets/gltfload"
	"github.com/Faultbox/gldemos/internal/engine/animation"
	"github.com/Faultbox/gldemos/internal/engine/lighting"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/pkg/math"
)

// PlaceholderRig is a two-bone skinned column with three clips in the
// same order as the fox model's: Survey, Walk, Run.
func PlaceholderRig() *gltfload.Result {
	root := scenegraph.NewNode("rig")

	hip := scenegraph.NewNode("hip")
	hip.Position = math.Vec3{Y: 1}
	spine := scenegraph.NewNode("spine")
	spine.Position = math.Vec3{Y: 1}
	hip.Add(spine)

	geom := scenegraph.NewBox(0.5, 2, 0.5)
	n := geom.PointCount()
	geom.Joints = make([]uint16, n*4)
	geom.Weights = make([]float32, n*4)
	for i := 0; i < n; i++ {
		if geom.Positions[i*3+1] > 0 {
			geom.Joints[i*4] = 1
		}
		geom.Weights[i*4] = 1
	}

	mat := scenegraph.NewMaterial()
	mat.Color = lighting.RGB(0xd2691e)
	body := scenegraph.NewMesh("body", geom, mat)
	body.Position = math.Vec3{Y: 1}

	root.Add(hip, body)

	// Inverse bind matrices map mesh space into each joint's bind space.
	joints := []*scenegraph.Node{hip, spine}
	ibm := make([]math.Mat4, len(joints))
	for i, j := range joints {
		ibm[i] = j.WorldMatrix().Inverse().Mul(body.WorldMatrix())
	}
	skin := &scenegraph.Skin{Name: "rig", Joints: joints, InverseBind: ibm}
	body.Skin = skin

	return &gltfload.Result{
		Root:  root,
		Nodes: []*scenegraph.Node{hip, spine, body},
		Skins: []*scenegraph.Skin{skin},
		Animations: []*animation.Clip{
			sway("Survey", spine, math.Vec3{Z: 1}, 0.3, 2),
			sway("Walk", spine, math.Vec3{X: 1}, 0.4, 1),
			sway("Run", hip, math.Vec3{X: 1}, 0.6, 0.6),
		},
	}
}

// sway rocks target about axis by ±angle once per period.
func sway(name string, target *scenegraph.Node, axis math.Vec3, angle, period float32) *animation.Clip {
	const keys = 5
	times := make([]float32, keys)
	values := make([]float32, 0, keys*4)
	for i := 0; i < keys; i++ {
		t := period * float32(i) / (keys - 1)
		a := angle * float32(gomath.Sin(2*gomath.Pi*float64(i)/(keys-1)))
		q := math.QuatFromAxisAngle(axis, a)
		times[i] = t
		values = append(values, q.X, q.Y, q.Z, q.W)
	}
	return animation.NewClip(name, []animation.Channel{{
		Target:        target,
		Path:          animation.PathRotation,
		Interpolation: animation.Linear,
		Times:         times,
		Values:        values,
	}})
}
