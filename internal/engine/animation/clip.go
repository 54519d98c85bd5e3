// Package animation samples keyframe clips onto scene nodes, blends
// concurrently playing actions and deforms skinned geometry.
package animation

import (
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/pkg/math"
)

// Path is the node property a channel drives.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// Interpolation selects how values between keyframes are computed.
type Interpolation int

const (
	Linear Interpolation = iota
	Step
	CubicSpline
)

// Channel animates one property of one node. Values holds 3 floats per key
// (4 for rotations); cubic-spline channels store in-tangent, value and
// out-tangent for every key.
type Channel struct {
	Target        *scenegraph.Node
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Values        []float32
}

// Components returns the number of floats per value.
func (c *Channel) Components() int {
	if c.Path == PathRotation {
		return 4
	}
	return 3
}

// Clip is a named set of channels.
type Clip struct {
	Name     string
	Duration float32
	Channels []Channel
}

// NewClip creates a clip whose duration is the latest keyframe time.
func NewClip(name string, channels []Channel) *Clip {
	c := &Clip{Name: name, Channels: channels}
	for _, ch := range channels {
		if n := len(ch.Times); n > 0 && ch.Times[n-1] > c.Duration {
			c.Duration = ch.Times[n-1]
		}
	}
	return c
}

// Sample evaluates the channel at time t, clamping to the first and last keys.
func (c *Channel) Sample(t float32) [4]float32 {
	n := len(c.Times)
	if n == 0 {
		return c.rest()
	}
	if n == 1 || t <= c.Times[0] {
		return c.value(0)
	}
	if t >= c.Times[n-1] {
		return c.value(n - 1)
	}

	// Find surrounding keyframes (keys are sorted by time)
	prev := 0
	for i := 1; i < n; i++ {
		if c.Times[i] > t {
			break
		}
		prev = i
	}
	next := prev + 1

	span := c.Times[next] - c.Times[prev]
	u := float32(0)
	if span > 0 {
		u = (t - c.Times[prev]) / span
	}

	switch c.Interpolation {
	case Step:
		return c.value(prev)
	case CubicSpline:
		return c.hermite(prev, next, u, span)
	}

	v0, v1 := c.value(prev), c.value(next)
	if c.Path == PathRotation {
		return quatArray(arrayQuat(v0).Slerp(arrayQuat(v1), u))
	}
	var out [4]float32
	for k := 0; k < 3; k++ {
		out[k] = v0[k] + u*(v1[k]-v0[k])
	}
	return out
}

// value returns keyframe i.
func (c *Channel) value(i int) [4]float32 {
	if c.Interpolation == CubicSpline {
		return c.tangent(i, 1)
	}
	comps := c.Components()
	offset := i * comps
	var out [4]float32
	if offset+comps <= len(c.Values) {
		copy(out[:comps], c.Values[offset:offset+comps])
	}
	return out
}

// tangent returns element which of cubic-spline key i: 0 in-tangent,
// 1 value, 2 out-tangent.
func (c *Channel) tangent(i, which int) [4]float32 {
	comps := c.Components()
	offset := i*comps*3 + which*comps
	var out [4]float32
	if offset+comps <= len(c.Values) {
		copy(out[:comps], c.Values[offset:offset+comps])
	}
	return out
}

// hermite evaluates the glTF cubic spline between keys a and b.
func (c *Channel) hermite(a, b int, u, span float32) [4]float32 {
	p0, p1 := c.value(a), c.value(b)
	m0, m1 := c.tangent(a, 2), c.tangent(b, 0)

	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	var out [4]float32
	for k := 0; k < c.Components(); k++ {
		out[k] = h00*p0[k] + h10*span*m0[k] + h01*p1[k] + h11*span*m1[k]
	}
	if c.Path == PathRotation {
		out = quatArray(arrayQuat(out).Normalize())
	}
	return out
}

func (c *Channel) rest() [4]float32 {
	switch c.Path {
	case PathRotation:
		return [4]float32{0, 0, 0, 1}
	case PathScale:
		return [4]float32{1, 1, 1, 0}
	}
	return [4]float32{}
}

func arrayQuat(v [4]float32) math.Quat {
	return math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}

func quatArray(q math.Quat) [4]float32 {
	return [4]float32{q.X, q.Y, q.Z, q.W}
}
