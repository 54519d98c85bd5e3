package sim

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/engine/physics"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/internal/logger"
	"github.com/Faultbox/gldemos/pkg/math"
)

// MaxStep is the longest simulated duration a single frame may advance.
const MaxStep = 0.1

// Pair ties a dynamic body to the node that displays it.
type Pair struct {
	Body *physics.Body
	Node *scenegraph.Node
}

// ClampStep bounds elapsed to [0, limit]. Non-finite input yields 0.
func ClampStep(elapsed, limit float64) float64 {
	if gomath.IsNaN(elapsed) || gomath.IsInf(elapsed, 0) || elapsed <= 0 {
		return 0
	}
	if elapsed > limit {
		return limit
	}
	return elapsed
}

// StepAndSync advances world by elapsed seconds, capped at MaxStep, then
// copies each paired body's position and orientation onto its node.
func StepAndSync(world *physics.World, elapsed float64, pairs []Pair) {
	StepAndSyncMax(world, elapsed, MaxStep, pairs)
}

// StepAndSyncMax is StepAndSync with a custom step cap.
func StepAndSyncMax(world *physics.World, elapsed, maxStep float64, pairs []Pair) {
	world.Step(ClampStep(elapsed, maxStep))
	Sync(pairs)
}

// Sync copies body transforms onto their nodes. A body whose position or
// orientation is not finite is left out for this frame.
func Sync(pairs []Pair) {
	for _, p := range pairs {
		pos := math.Vec3FromMgl(p.Body.Position)
		rot := math.QuatFromMgl(p.Body.Quaternion)
		if !pos.IsFinite() || !rot.IsFinite() {
			logger.Named("sim").Warn("non-finite body state, sync skipped",
				zap.String("node", p.Node.Name),
				zap.Int("body", p.Body.ID))
			continue
		}
		p.Node.SetWorldTransform(pos, rot)
	}
}
