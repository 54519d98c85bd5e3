package texture

import (
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/pkg/math"
)

// Scroll animates a material's UV offset by a fixed amount per frame.
type Scroll struct {
	Speed math.Vec2 // UV units per frame
}

// Advance moves the offset one frame forward, wrapping into [0,1).
func (s Scroll) Advance(mat *scenegraph.Material) {
	mat.UVOffset = mat.UVOffset.Add(s.Speed).Wrap()
}
