package scenegraph

import "github.com/Faultbox/gldemos/pkg/math"

// Skin binds geometry to a joint hierarchy.
type Skin struct {
	Name        string
	Joints      []*Node
	InverseBind []math.Mat4
}

// JointMatrices returns, per joint, the matrix mapping bind-pose mesh space
// to the joint's current pose in the space of mesh.
func (s *Skin) JointMatrices(mesh *Node) []math.Mat4 {
	out := make([]math.Mat4, len(s.Joints))
	meshInv := math.Identity()
	if mesh != nil {
		meshInv = mesh.WorldMatrix().Inverse()
	}
	for i, j := range s.Joints {
		ib := math.Identity()
		if i < len(s.InverseBind) {
			ib = s.InverseBind[i]
		}
		out[i] = meshInv.Mul(j.WorldMatrix()).Mul(ib)
	}
	return out
}
