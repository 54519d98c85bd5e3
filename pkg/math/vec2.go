package math

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Wrap returns v with each component wrapped into [0, 1).
// Used for repeat-wrapped texture offsets so they never lose float precision.
func (v Vec2) Wrap() Vec2 {
	return Vec2{wrapUnit(v.X), wrapUnit(v.Y)}
}

func wrapUnit(f float32) float32 {
	w := f - float32(math.Floor(float64(f)))
	if w >= 1 {
		return 0
	}
	return w
}
