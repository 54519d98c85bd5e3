// Package lighting provides light descriptions for the scene shader.
package lighting

import (
	"math"

	gm "github.com/Faultbox/gldemos/pkg/math"
)

// Directional is a light infinitely far away, like the sun.
type Directional struct {
	Direction gm.Vec3 // Points from the scene toward the light
	Color     gm.Vec3
	Intensity float32
}

// Radiance returns colour scaled by intensity.
func (d Directional) Radiance() gm.Vec3 {
	return d.Color.Scale(d.Intensity)
}

// SunDirection converts azimuth/elevation angles in degrees to a light
// direction vector. Azimuth is rotation around Y, elevation is the angle
// above the horizon. Returns a normalized direction pointing towards the sun.
func SunDirection(azimuth, elevation float32) gm.Vec3 {
	// Convert degrees to radians
	azRad := float64(azimuth) * math.Pi / 180.0
	elRad := float64(elevation) * math.Pi / 180.0

	// Spherical to Cartesian conversion
	x := float32(math.Cos(elRad) * math.Sin(azRad))
	y := float32(math.Sin(elRad))
	z := float32(math.Cos(elRad) * math.Cos(azRad))

	return gm.Vec3{X: x, Y: y, Z: z}
}
