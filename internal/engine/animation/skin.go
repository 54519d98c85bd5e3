package animation

import (
	"errors"
	"fmt"

	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/pkg/math"
)

// ErrNotSkinned is returned for geometry without joint and weight data.
var ErrNotSkinned = errors.New("geometry is not skinned")

// ApplySkin deforms the bind pose of g by the joint matrices, writing the
// result into g.Positions and g.Normals. The bind pose is captured from the
// current vertex data on first use.
func ApplySkin(g *scenegraph.Geometry, joints []math.Mat4) error {
	n := g.PointCount()
	if len(g.Joints) < n*4 || len(g.Weights) < n*4 {
		return fmt.Errorf("%w: %d points, %d joints, %d weights", ErrNotSkinned, n, len(g.Joints)/4, len(g.Weights)/4)
	}
	if g.BindPositions == nil {
		g.BindPositions = append([]float32(nil), g.Positions...)
		g.BindNormals = append([]float32(nil), g.Normals...)
	}
	hasNormals := len(g.BindNormals) == len(g.BindPositions)

	for i := 0; i < n; i++ {
		var m math.Mat4
		total := float32(0)
		for k := 0; k < 4; k++ {
			w := g.Weights[i*4+k]
			j := int(g.Joints[i*4+k])
			if w == 0 || j >= len(joints) {
				continue
			}
			for e := range m {
				m[e] += joints[j][e] * w
			}
			total += w
		}
		if total == 0 {
			m = math.Identity()
		}

		// Blended matrices are affine, so no perspective divide
		x, y, z := g.BindPositions[i*3], g.BindPositions[i*3+1], g.BindPositions[i*3+2]
		g.Positions[i*3] = m[0]*x + m[4]*y + m[8]*z + m[12]
		g.Positions[i*3+1] = m[1]*x + m[5]*y + m[9]*z + m[13]
		g.Positions[i*3+2] = m[2]*x + m[6]*y + m[10]*z + m[14]

		if hasNormals {
			nrm := m.TransformDirection([3]float32{g.BindNormals[i*3], g.BindNormals[i*3+1], g.BindNormals[i*3+2]})
			v := math.Vec3FromArray(nrm).Normalize()
			g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2] = v.X, v.Y, v.Z
		}
	}
	g.Touch()
	return nil
}

// SkinNode applies the node's skin to its geometry.
func SkinNode(n *scenegraph.Node) error {
	if n.Skin == nil || n.Geometry == nil {
		return ErrNotSkinned
	}
	return ApplySkin(n.Geometry, n.Skin.JointMatrices(n))
}

// UpdateSkins deforms every skinned mesh under root.
func UpdateSkins(root *scenegraph.Node) error {
	var errs []error
	root.Walk(func(n *scenegraph.Node) {
		if n.Skin != nil && n.Geometry != nil {
			if err := SkinNode(n); err != nil {
				errs = append(errs, fmt.Errorf("node %q: %w", n.Name, err))
			}
		}
	})
	return errors.Join(errs...)
}

// SkeletonLines returns world-space segments from every joint to its parent
// joint, for drawing a skeleton overlay.
func SkeletonLines(skin *scenegraph.Skin) []float32 {
	isJoint := make(map[*scenegraph.Node]bool, len(skin.Joints))
	for _, j := range skin.Joints {
		isJoint[j] = true
	}

	var out []float32
	for _, j := range skin.Joints {
		p := j.Parent()
		if p == nil || !isJoint[p] {
			continue
		}
		a := p.WorldPosition()
		b := j.WorldPosition()
		out = append(out, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	}
	return out
}
