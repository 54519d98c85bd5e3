// Package sim builds physics colliders from a loaded scene and keeps visual
// nodes in step with simulated bodies.
package sim

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/engine/physics"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/internal/logger"
)

// ErrMalformedGeometry is returned for a node whose geometry cannot be turned
// into a collider.
var ErrMalformedGeometry = errors.New("malformed geometry")

// ColliderDescriptor is the scale-corrected collision geometry of one node.
type ColliderDescriptor struct {
	Node    *scenegraph.Node
	Points  []float32 // Local points multiplied component-wise by the node's scale
	Indices []uint32  // Source indices, nil for non-indexed geometry
}

// Empty reports whether the descriptor has no points.
func (d *ColliderDescriptor) Empty() bool {
	return len(d.Points) == 0
}

// Describe bakes the node's local scale into a copy of its geometry points.
func Describe(node *scenegraph.Node) (*ColliderDescriptor, error) {
	g := node.Geometry
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: node %q: %w", ErrMalformedGeometry, node.Name, err)
	}
	if len(g.Indices)%3 != 0 {
		return nil, fmt.Errorf("%w: node %q: %d indices do not form triangles", ErrMalformedGeometry, node.Name, len(g.Indices))
	}

	s := node.Scale
	points := make([]float32, len(g.Positions))
	for i := 0; i < len(points); i += 3 {
		points[i] = g.Positions[i] * s.X
		points[i+1] = g.Positions[i+1] * s.Y
		points[i+2] = g.Positions[i+2] * s.Z
	}

	var indices []uint32
	if g.Indices != nil {
		indices = append([]uint32(nil), g.Indices...)
	}
	return &ColliderDescriptor{Node: node, Points: points, Indices: indices}, nil
}

// BuildColliders creates one static triangle-mesh body per geometry-bearing
// node under root, placed at the node's world position and orientation, and
// adds each to world. Nodes with line geometry or no points are skipped.
// Malformed nodes are logged and skipped; their errors are joined and
// returned together with the bodies that were built.
func BuildColliders(root *scenegraph.Node, world *physics.World) ([]*physics.Body, error) {
	log := logger.Named("sim")

	var (
		bodies []*physics.Body
		errs   []error
	)
	root.Walk(func(node *scenegraph.Node) {
		if !node.HasGeometry() || node.Geometry.Mode != scenegraph.Triangles {
			return
		}

		desc, err := Describe(node)
		if err != nil {
			log.Warn("skipping collider", zap.String("node", node.Name), zap.Error(err))
			errs = append(errs, err)
			return
		}
		if desc.Empty() {
			log.Debug("skipping empty geometry", zap.String("node", node.Name))
			return
		}

		mesh, err := physics.NewTrimesh(desc.Points, desc.Indices)
		if err != nil {
			err = fmt.Errorf("%w: node %q: %w", ErrMalformedGeometry, node.Name, err)
			log.Warn("skipping collider", zap.String("node", node.Name), zap.Error(err))
			errs = append(errs, err)
			return
		}

		body := physics.NewBody(0).AddShape(mesh)
		body.Name = node.Name
		body.Position = node.WorldPosition().Mgl()
		body.Quaternion = node.WorldRotation().Mgl()
		world.AddBody(body)
		bodies = append(bodies, body)

		log.Debug("collider built",
			zap.String("node", node.Name),
			zap.Int("points", len(desc.Points)/3),
			zap.Int("triangles", mesh.TriangleCount()))
	})

	log.Info("colliders built", zap.Int("bodies", len(bodies)), zap.Int("skipped", len(errs)))
	return bodies, errors.Join(errs...)
}
