package scenegraph

import (
	"github.com/Faultbox/gldemos/pkg/math"
)

// Node is an entity in the scene tree with a local TRS transform and
// optional geometry.
type Node struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3

	Geometry *Geometry
	Material *Material
	Skin     *Skin
	Visible  bool

	parent   *Node
	children []*Node
}

// NewNode creates a visible node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math.QuatIdentity(),
		Scale:    math.One3,
		Visible:  true,
	}
}

// NewMesh creates a node carrying geometry and material.
func NewMesh(name string, geom *Geometry, mat *Material) *Node {
	n := NewNode(name)
	n.Geometry = geom
	if mat == nil {
		mat = NewMaterial()
	}
	n.Material = mat
	return n
}

// HasGeometry reports whether the node carries renderable geometry.
func (n *Node) HasGeometry() bool {
	return n.Geometry != nil
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches children, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches a direct child. It reports whether the child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// LocalMatrix returns the node's TRS matrix.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix returns the transform from node space to world space.
func (n *Node) WorldMatrix() math.Mat4 {
	local := n.LocalMatrix()
	if n.parent == nil {
		return local
	}
	return n.parent.WorldMatrix().Mul(local)
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() math.Vec3 {
	if n.parent == nil {
		return n.Position
	}
	return n.WorldMatrix().Translation()
}

// WorldRotation returns the accumulated orientation of the node.
func (n *Node) WorldRotation() math.Quat {
	rot := n.Rotation
	for p := n.parent; p != nil; p = p.parent {
		rot = p.Rotation.Mul(rot)
	}
	return rot.Normalize()
}

// WorldScale returns the world-space scale of the node.
func (n *Node) WorldScale() math.Vec3 {
	_, _, s := n.WorldMatrix().Decompose()
	return s
}

// SetWorldTransform places the node at a world position and orientation by
// solving for its local transform. Local scale is left untouched.
// Under an untransformed parent the values are stored as given.
func (n *Node) SetWorldTransform(pos math.Vec3, rot math.Quat) {
	if n.parent == nil {
		n.Position = pos
		n.Rotation = rot
		return
	}
	parentWorld := n.parent.WorldMatrix()
	if parentWorld == math.Identity() {
		n.Position = pos
		n.Rotation = rot
		return
	}
	n.Position = parentWorld.Inverse().TransformVec3(pos)
	n.Rotation = n.parent.WorldRotation().Conjugate().Mul(rot).Normalize()
}

// Traverse visits the node and all descendants depth-first, parent before
// children. Returning false from fn skips the node's subtree.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Walk visits every node in the subtree.
func (n *Node) Walk(fn func(*Node)) {
	n.Traverse(func(node *Node) bool {
		fn(node)
		return true
	})
}

// Find returns the first node in the subtree with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindAncestor returns the nearest node named name on the path from n to the
// root, including n itself.
func (n *Node) FindAncestor(name string) *Node {
	for p := n; p != nil; p = p.parent {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Root returns the top of the tree containing n.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}
