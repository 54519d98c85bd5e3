// Package physics is a small rigid-body engine: spheres colliding with
// spheres, planes and static triangle meshes under gravity.
package physics

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/logger"
)

// Solver tuning.
const (
	penetrationSlop     = 0.005 // Allowed overlap before projection kicks in
	projectionFactor    = 0.8   // Fraction of excess overlap removed per sub-step
	restitutionVelocity = 0.2   // Approach speeds below this do not bounce
)

// Config holds world construction parameters.
type Config struct {
	Gravity     mgl32.Vec3
	SubStep     float64 // Largest integration step in seconds
	Iterations  int     // Velocity solver iterations per sub-step
	Friction    float32 // Default friction when bodies carry no material
	Restitution float32 // Default restitution when bodies carry no material
}

// DefaultConfig returns Earth gravity with a 60 Hz sub-step.
func DefaultConfig() Config {
	return Config{
		Gravity:     mgl32.Vec3{0, -9.82, 0},
		SubStep:     1.0 / 60.0,
		Iterations:  10,
		Friction:    0.3,
		Restitution: 0,
	}
}

// ContactEvent describes two bodies starting to touch.
type ContactEvent struct {
	A, B   *Body
	Point  mgl32.Vec3
	Normal mgl32.Vec3
	// ImpactSpeed is the closing speed along the normal, in m/s.
	ImpactSpeed float32
}

// World owns bodies and advances them in time.
type World struct {
	Gravity    mgl32.Vec3
	SubStep    float64
	Iterations int
	Default    Material

	bodies    []*Body
	nextID    int
	time      float64
	steps     int
	contacts  []contact
	touching  map[[2]int]bool
	listeners []func(ContactEvent)
	log       *zap.Logger
}

// NewWorld creates an empty world.
func NewWorld(cfg Config) *World {
	if cfg.SubStep <= 0 {
		cfg.SubStep = DefaultConfig().SubStep
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultConfig().Iterations
	}
	return &World{
		Gravity:    cfg.Gravity,
		SubStep:    cfg.SubStep,
		Iterations: cfg.Iterations,
		Default:    Material{Name: "default", Friction: cfg.Friction, Restitution: cfg.Restitution},
		touching:   make(map[[2]int]bool),
		log:        logger.Named("physics"),
	}
}

// AddBody registers a body. Adding a body twice is a no-op.
func (w *World) AddBody(b *Body) {
	if b.world == w {
		return
	}
	w.nextID++
	b.ID = w.nextID
	b.world = w
	b.updateMassProperties()
	w.bodies = append(w.bodies, b)
}

// RemoveBody unregisters a body. It reports whether the body was present.
func (w *World) RemoveBody(b *Body) bool {
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			b.world = nil
			for key := range w.touching {
				if key[0] == b.ID || key[1] == b.ID {
					delete(w.touching, key)
				}
			}
			return true
		}
	}
	return false
}

// Bodies returns the registered bodies. The slice must not be modified.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// Time returns the total simulated time in seconds.
func (w *World) Time() float64 {
	return w.time
}

// Steps returns the number of internal sub-steps taken.
func (w *World) Steps() int {
	return w.steps
}

// OnContact registers fn to be called when two bodies start touching.
func (w *World) OnContact(fn func(ContactEvent)) {
	w.listeners = append(w.listeners, fn)
}

// Step advances the world by exactly dt seconds, split into equal sub-steps
// no longer than SubStep. Non-positive dt does nothing.
func (w *World) Step(dt float64) {
	if dt <= 0 || gomath.IsNaN(dt) || gomath.IsInf(dt, 0) {
		return
	}
	n := int(gomath.Ceil(dt/w.SubStep - 1e-9))
	if n < 1 {
		n = 1
	}
	h := float32(dt / float64(n))
	for i := 0; i < n; i++ {
		w.internalStep(h)
	}
	w.time += dt
}

func (w *World) internalStep(h float32) {
	w.steps++

	// Forces
	for _, b := range w.bodies {
		if b.IsStatic() {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Mul(h))
	}

	w.detect()
	w.fireContactEvents()
	w.solveVelocities()

	for _, b := range w.bodies {
		if b.IsStatic() {
			continue
		}
		b.integrate(h)
		b.damp(h)
	}

	w.detect()
	w.projectPositions()
}

// detect rebuilds the contact list. Only pairs with a dynamic body are tested.
func (w *World) detect() {
	w.contacts = w.contacts[:0]
	for i, a := range w.bodies {
		for _, b := range w.bodies[i+1:] {
			switch {
			case !a.IsStatic():
				w.contacts = collide(a, b, w.contacts)
			case !b.IsStatic():
				w.contacts = collide(b, a, w.contacts)
			}
		}
	}
	for i := range w.contacts {
		w.prepare(&w.contacts[i])
	}
}

func (w *World) prepare(c *contact) {
	c.ra = c.point.Sub(c.a.Position)
	c.rb = c.point.Sub(c.b.Position)

	friction, restitution := w.combine(c.a, c.b)
	c.friction = friction

	k := c.a.invMass + c.b.invMass +
		lenSqr(c.ra.Cross(c.normal))*c.a.invInertia +
		lenSqr(c.rb.Cross(c.normal))*c.b.invInertia
	if k > 0 {
		c.normalMass = 1 / k
	}

	rel := c.a.VelocityAt(c.ra).Sub(c.b.VelocityAt(c.rb))
	vn := rel.Dot(c.normal)
	if vn < -restitutionVelocity {
		c.bounce = -restitution * vn
	}

	vt := rel.Sub(c.normal.Mul(vn))
	if l := vt.Len(); l > 1e-6 {
		c.tangent = vt.Mul(1 / l)
	} else {
		c.tangent = anyPerpendicular(c.normal)
	}
	kt := c.a.invMass + c.b.invMass +
		lenSqr(c.ra.Cross(c.tangent))*c.a.invInertia +
		lenSqr(c.rb.Cross(c.tangent))*c.b.invInertia
	if kt > 0 {
		c.tangentMass = 1 / kt
	}
}

// combine returns the product of both materials when both bodies carry one
// and the world default otherwise.
func (w *World) combine(a, b *Body) (friction, restitution float32) {
	if a.Material != nil && b.Material != nil {
		return a.Material.Friction * b.Material.Friction, a.Material.Restitution * b.Material.Restitution
	}
	return w.Default.Friction, w.Default.Restitution
}

// solveVelocities runs sequential impulses with accumulated clamping.
func (w *World) solveVelocities() {
	for it := 0; it < w.Iterations; it++ {
		for i := range w.contacts {
			c := &w.contacts[i]

			rel := c.a.VelocityAt(c.ra).Sub(c.b.VelocityAt(c.rb))
			vn := rel.Dot(c.normal)
			lambda := c.normalMass * (c.bounce - vn)
			old := c.normalImpulse
			c.normalImpulse = max(old+lambda, 0)
			lambda = c.normalImpulse - old
			w.applyPair(c, c.normal.Mul(lambda))

			rel = c.a.VelocityAt(c.ra).Sub(c.b.VelocityAt(c.rb))
			vt := rel.Dot(c.tangent)
			lambda = -c.tangentMass * vt
			limit := c.friction * c.normalImpulse
			old = c.tangentImpulse
			c.tangentImpulse = clamp(old+lambda, -limit, limit)
			lambda = c.tangentImpulse - old
			w.applyPair(c, c.tangent.Mul(lambda))
		}
	}
}

func (w *World) applyPair(c *contact, impulse mgl32.Vec3) {
	c.a.ApplyImpulse(impulse, c.ra)
	c.b.ApplyImpulse(impulse.Mul(-1), c.rb)
}

// projectPositions pushes overlapping bodies apart along the contact normal.
func (w *World) projectPositions() {
	for i := range w.contacts {
		c := &w.contacts[i]
		excess := c.depth - penetrationSlop
		if excess <= 0 {
			continue
		}
		total := c.a.invMass + c.b.invMass
		if total == 0 {
			continue
		}
		move := c.normal.Mul(excess * projectionFactor / total)
		c.a.Position = c.a.Position.Add(move.Mul(c.a.invMass))
		if !c.b.IsStatic() {
			c.b.Position = c.b.Position.Sub(move.Mul(c.b.invMass))
		}
	}
}

// fireContactEvents notifies listeners of pairs that were apart last sub-step.
func (w *World) fireContactEvents() {
	current := make(map[[2]int]bool, len(w.contacts))
	for i := range w.contacts {
		c := &w.contacts[i]
		key := pairKey(c.a, c.b)
		if current[key] {
			continue
		}
		current[key] = true
		if w.touching[key] || len(w.listeners) == 0 {
			continue
		}

		rel := c.a.VelocityAt(c.ra).Sub(c.b.VelocityAt(c.rb))
		ev := ContactEvent{A: c.a, B: c.b, Point: c.point, Normal: c.normal, ImpactSpeed: max(-rel.Dot(c.normal), 0)}
		w.log.Debug("contact",
			zap.Int("a", c.a.ID),
			zap.Int("b", c.b.ID),
			zap.Float32("speed", ev.ImpactSpeed))
		for _, fn := range w.listeners {
			fn(ev)
		}
	}
	w.touching = current
}

func pairKey(a, b *Body) [2]int {
	if a.ID < b.ID {
		return [2]int{a.ID, b.ID}
	}
	return [2]int{b.ID, a.ID}
}

func anyPerpendicular(n mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if gomath.Abs(float64(n[0])) > 0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return n.Cross(axis).Normalize()
}

func lenSqr(v mgl32.Vec3) float32 {
	return v.Dot(v)
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
