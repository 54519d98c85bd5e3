// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/gldemos/internal/engine/picking"
	"github.com/Faultbox/gldemos/pkg/math"
)

// OrbitCamera orbits around a target point. Drag and zoom input moves goal
// angles; Update eases the current angles toward them.
type OrbitCamera struct {
	Target math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from target
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Damping is the fraction of the remaining motion applied per 60 Hz
	// frame. Zero disables easing.
	Damping float32

	// Projection
	FOV    float32 // Vertical field of view in degrees
	Aspect float32
	Near   float32
	Far    float32

	goalDistance float32
	goalX        float32
	goalY        float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		Distance:        10.0,
		RotationX:       0.5,
		MinDistance:     0.5,
		MaxDistance:     500.0,
		MinPitch:        -1.55,
		MaxPitch:        1.55,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		Damping:         0.05,
		FOV:             75,
		Aspect:          16.0 / 9.0,
		Near:            0.1,
		Far:             1000,
	}
	c.sync()
	return c
}

// sync makes the current state the goal.
func (c *OrbitCamera) sync() {
	c.goalDistance = c.Distance
	c.goalX = c.RotationX
	c.goalY = c.RotationY
}

// LookFrom places the camera at eye, looking at the current target.
func (c *OrbitCamera) LookFrom(eye math.Vec3) {
	d := eye.Sub(c.Target)
	c.Distance = d.Length()
	if c.Distance < 1e-6 {
		c.Distance = c.MinDistance
		c.sync()
		return
	}
	c.RotationX = float32(gomath.Asin(float64(d.Y / c.Distance)))
	c.RotationY = float32(gomath.Atan2(float64(d.X), float64(d.Z)))
	c.clamp()
	c.sync()
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Target.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Target, up)
}

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(math.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection × view.
func (c *OrbitCamera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// SetViewport updates the aspect ratio for a width×height viewport.
func (c *OrbitCamera) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// Ray returns the world-space picking ray through a window pixel.
func (c *OrbitCamera) Ray(x, y float32, width, height int) picking.Ray {
	return picking.ScreenToRay(x, y, float32(width), float32(height), c.ViewProjection().Inverse())
}

// HandleDrag updates the goal rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.goalY -= deltaX * c.DragSensitivity
	c.goalX += deltaY * c.DragSensitivity
	c.goalX = clampf(c.goalX, c.MinPitch, c.MaxPitch)
	if c.Damping == 0 {
		c.Update(0)
	}
}

// HandleZoom updates the goal distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.goalDistance -= delta * c.goalDistance * c.ZoomSensitivity
	c.goalDistance = clampf(c.goalDistance, c.MinDistance, c.MaxDistance)
	if c.Damping == 0 {
		c.Update(0)
	}
}

// Update eases the camera toward its goal over dt seconds.
func (c *OrbitCamera) Update(dt float64) {
	k := float32(1)
	if c.Damping > 0 && c.Damping < 1 {
		k = 1 - float32(gomath.Pow(float64(1-c.Damping), dt*60))
	}
	c.Distance += (c.goalDistance - c.Distance) * k
	c.RotationX += (c.goalX - c.RotationX) * k
	c.RotationY += (c.goalY - c.RotationY) * k
	c.clamp()
}

func (c *OrbitCamera) clamp() {
	c.RotationX = clampf(c.RotationX, c.MinPitch, c.MaxPitch)
	c.Distance = clampf(c.Distance, c.MinDistance, c.MaxDistance)
}

// FitToBounds adjusts camera to view the given bounding box.
func (c *OrbitCamera) FitToBounds(box picking.AABB) {
	c.Target = box.Min.Add(box.Max).Scale(0.5)
	size := box.Max.Sub(box.Min).Length()
	c.Distance = clampf(size*1.2, c.MinDistance, c.MaxDistance)
	c.sync()
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
