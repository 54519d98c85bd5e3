package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Material holds surface response coefficients.
type Material struct {
	Name        string
	Friction    float32
	Restitution float32
}

// Body is a rigid body. A body with zero mass is static and never moves.
type Body struct {
	ID   int
	Name string

	Mass            float32
	Position        mgl32.Vec3
	Quaternion      mgl32.Quat
	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3

	LinearDamping  float32
	AngularDamping float32

	Shapes   []Shape
	Material *Material

	invMass    float32
	invInertia float32
	world      *World
}

// NewBody creates a body at the origin with identity orientation.
// Damping defaults mirror common rigid-body engines.
func NewBody(mass float32) *Body {
	b := &Body{
		Mass:           mass,
		Quaternion:     mgl32.QuatIdent(),
		LinearDamping:  0.01,
		AngularDamping: 0.01,
	}
	b.updateMassProperties()
	return b
}

// AddShape attaches a shape at the body origin and refreshes the inertia.
func (b *Body) AddShape(s Shape) *Body {
	b.Shapes = append(b.Shapes, s)
	b.updateMassProperties()
	return b
}

// IsStatic reports whether the body has zero mass.
func (b *Body) IsStatic() bool {
	return b.Mass <= 0
}

// ApplyImpulse changes the velocity as if impulse had been applied at the
// world-space offset rel from the body origin.
func (b *Body) ApplyImpulse(impulse, rel mgl32.Vec3) {
	if b.IsStatic() {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Mul(b.invMass))
	b.AngularVelocity = b.AngularVelocity.Add(rel.Cross(impulse).Mul(b.invInertia))
}

// PointToLocal converts a world point into body space.
func (b *Body) PointToLocal(p mgl32.Vec3) mgl32.Vec3 {
	return b.Quaternion.Conjugate().Rotate(p.Sub(b.Position))
}

// PointToWorld converts a body-space point into world space.
func (b *Body) PointToWorld(p mgl32.Vec3) mgl32.Vec3 {
	return b.Quaternion.Rotate(p).Add(b.Position)
}

// VelocityAt returns the velocity of the world-space offset rel.
func (b *Body) VelocityAt(rel mgl32.Vec3) mgl32.Vec3 {
	return b.Velocity.Add(b.AngularVelocity.Cross(rel))
}

// updateMassProperties uses the largest sphere radius for a uniform-sphere
// inertia; other shapes fall back to a unit sphere.
func (b *Body) updateMassProperties() {
	if b.Mass <= 0 {
		b.invMass = 0
		b.invInertia = 0
		return
	}
	b.invMass = 1 / b.Mass

	radius := float32(0)
	for _, s := range b.Shapes {
		if sp, ok := s.(*Sphere); ok {
			radius = max(radius, sp.Radius)
		}
	}
	if radius == 0 {
		radius = 1
	}
	b.invInertia = 1 / (0.4 * b.Mass * radius * radius)
}

// integrate advances position and orientation by h.
func (b *Body) integrate(h float32) {
	b.Position = b.Position.Add(b.Velocity.Mul(h))

	w := b.AngularVelocity
	if w[0] == 0 && w[1] == 0 && w[2] == 0 {
		return
	}
	spin := mgl32.Quat{W: 0, V: w}.Mul(b.Quaternion).Scale(0.5 * h)
	b.Quaternion = b.Quaternion.Add(spin).Normalize()
}

// damp applies exponential velocity damping over h seconds.
func (b *Body) damp(h float32) {
	if b.LinearDamping > 0 {
		b.Velocity = b.Velocity.Mul(pow32(1-b.LinearDamping, h))
	}
	if b.AngularDamping > 0 {
		b.AngularVelocity = b.AngularVelocity.Mul(pow32(1-b.AngularDamping, h))
	}
}
