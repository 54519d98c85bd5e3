package lighting

import gm "github.com/Faultbox/gldemos/pkg/math"

// Light is a uniform light of one colour.
type Light struct {
	Color     gm.Vec3
	Intensity float32
}

// FromHex builds a light from a 0xRRGGBB colour.
func FromHex(hex uint32, intensity float32) Light {
	return Light{Color: RGB(hex), Intensity: intensity}
}

// Radiance returns colour scaled by intensity.
func (l Light) Radiance() gm.Vec3 {
	return l.Color.Scale(l.Intensity)
}

// RGB converts a 0xRRGGBB colour to components in [0,1].
func RGB(hex uint32) gm.Vec3 {
	return gm.Vec3{
		X: float32((hex>>16)&0xff) / 255,
		Y: float32((hex>>8)&0xff) / 255,
		Z: float32(hex&0xff) / 255,
	}
}

// Rig is the set of lights a frame is drawn with.
type Rig struct {
	Ambient Light
	Sun     Directional // Zero intensity disables the sun
}

// DefaultRig is white ambient light at full strength with no sun.
func DefaultRig() Rig {
	return Rig{Ambient: FromHex(0xffffff, 1)}
}
