package animation

import (
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/pkg/math"
)

// ramp moves a value linearly from one level to another over a duration.
type ramp struct {
	from, to float32
	duration float32
	elapsed  float32
}

func (r *ramp) advance(dt float32) (value float32, done bool) {
	r.elapsed += dt
	if r.duration <= 0 || r.elapsed >= r.duration {
		return r.to, true
	}
	return r.from + (r.to-r.from)*(r.elapsed/r.duration), false
}

// Action plays one clip inside a Mixer.
type Action struct {
	Clip      *Clip
	Loop      bool
	TimeScale float32
	Time      float32
	Weight    float32

	mixer     *Mixer
	enabled   bool
	running   bool
	effWeight float32
	effScale  float32
	fade      *ramp
	warp      *ramp
}

// Play starts the action. Playing an active action has no effect.
func (a *Action) Play() *Action {
	a.enabled = true
	a.running = true
	a.mixer.activate(a)
	return a
}

// Stop halts the action and rewinds it.
func (a *Action) Stop() *Action {
	a.running = false
	a.enabled = false
	a.mixer.deactivate(a)
	return a.Reset()
}

// Reset rewinds the action and cancels any fade or warp.
func (a *Action) Reset() *Action {
	a.Time = 0
	a.fade = nil
	a.warp = nil
	a.effWeight = a.Weight
	a.effScale = a.TimeScale
	return a
}

// IsRunning reports whether the action is playing and contributing.
func (a *Action) IsRunning() bool {
	return a.running && a.enabled && a.effWeight > 0
}

// EffectiveWeight returns the blend weight after fading.
func (a *Action) EffectiveWeight() float32 {
	if !a.enabled {
		return 0
	}
	return a.effWeight
}

// EffectiveTimeScale returns the playback speed after warping.
func (a *Action) EffectiveTimeScale() float32 {
	return a.effScale
}

// FadeIn ramps the weight from 0 to Weight over duration seconds.
func (a *Action) FadeIn(duration float32) *Action {
	a.effWeight = 0
	a.fade = &ramp{from: 0, to: a.Weight, duration: duration}
	return a
}

// FadeOut ramps the weight to 0 over duration seconds, then disables the action.
func (a *Action) FadeOut(duration float32) *Action {
	a.fade = &ramp{from: a.effWeight, to: 0, duration: duration}
	return a
}

// CrossFadeTo fades this action out and other in over duration seconds.
// With warp the playback speeds are also ramped so the two clips' cycles
// line up during the transition.
func (a *Action) CrossFadeTo(other *Action, duration float32, warp bool) *Action {
	other.Reset()
	other.enabled = true
	other.FadeIn(duration)
	a.FadeOut(duration)

	if warp && a.Clip.Duration > 0 && other.Clip.Duration > 0 {
		ratio := a.Clip.Duration / other.Clip.Duration
		a.warp = &ramp{from: a.TimeScale, to: a.TimeScale / ratio, duration: duration}
		other.effScale = other.TimeScale * ratio
		other.warp = &ramp{from: other.effScale, to: other.TimeScale, duration: duration}
	}
	return a
}

// update advances fades and playback time by dt.
func (a *Action) update(dt float32) {
	if a.fade != nil {
		w, done := a.fade.advance(dt)
		a.effWeight = w
		if done {
			a.fade = nil
			if w == 0 {
				a.enabled = false
			}
		}
	}
	if a.warp != nil {
		s, done := a.warp.advance(dt)
		a.effScale = s
		if done {
			a.warp = nil
		}
	}

	a.Time += dt * a.effScale
	d := a.Clip.Duration
	if d <= 0 {
		a.Time = 0
		return
	}
	if a.Loop {
		for a.Time >= d {
			a.Time -= d
		}
		for a.Time < 0 {
			a.Time += d
		}
	} else if a.Time > d {
		a.Time = d
	}
}

type bindingKey struct {
	node *scenegraph.Node
	path Path
}

// binding accumulates weighted samples for one node property.
type binding struct {
	rest   [4]float32
	sum    [4]float32
	weight float32
}

// Mixer plays actions and writes the blended pose onto nodes.
type Mixer struct {
	actions  map[*Clip]*Action
	active   []*Action
	bindings map[bindingKey]*binding
	time     float32
}

// NewMixer creates an empty mixer.
func NewMixer() *Mixer {
	return &Mixer{
		actions:  make(map[*Clip]*Action),
		bindings: make(map[bindingKey]*binding),
	}
}

// ClipAction returns the mixer's action for clip, creating it on first use.
func (m *Mixer) ClipAction(clip *Clip) *Action {
	if a, ok := m.actions[clip]; ok {
		return a
	}
	a := &Action{Clip: clip, Loop: true, TimeScale: 1, Weight: 1, mixer: m}
	a.Reset()
	m.actions[clip] = a
	for _, ch := range clip.Channels {
		m.bind(ch)
	}
	return a
}

// Actions returns the currently playing actions in the order they started.
func (m *Mixer) Actions() []*Action {
	return m.active
}

// Time returns the total time the mixer has advanced.
func (m *Mixer) Time() float32 {
	return m.time
}

func (m *Mixer) bind(ch Channel) {
	if ch.Target == nil {
		return
	}
	key := bindingKey{ch.Target, ch.Path}
	if _, ok := m.bindings[key]; ok {
		return
	}
	b := &binding{}
	switch ch.Path {
	case PathTranslation:
		b.rest = [4]float32{ch.Target.Position.X, ch.Target.Position.Y, ch.Target.Position.Z}
	case PathRotation:
		b.rest = quatArray(ch.Target.Rotation)
	case PathScale:
		b.rest = [4]float32{ch.Target.Scale.X, ch.Target.Scale.Y, ch.Target.Scale.Z}
	}
	m.bindings[key] = b
}

func (m *Mixer) activate(a *Action) {
	for _, x := range m.active {
		if x == a {
			return
		}
	}
	m.active = append(m.active, a)
}

func (m *Mixer) deactivate(a *Action) {
	for i, x := range m.active {
		if x == a {
			m.active = append(m.active[:i], m.active[i+1:]...)
			return
		}
	}
}

// Update advances every playing action by dt seconds and applies the
// weighted blend of their samples. Properties whose total weight is below
// one are mixed with their rest pose.
func (m *Mixer) Update(dt float32) {
	m.time += dt

	for _, b := range m.bindings {
		b.sum = [4]float32{}
		b.weight = 0
	}

	kept := m.active[:0]
	for _, a := range m.active {
		if a.running {
			a.update(dt)
		}
		if !a.enabled {
			a.running = false
			continue
		}
		kept = append(kept, a)

		w := a.EffectiveWeight()
		if w <= 0 {
			continue
		}
		for i := range a.Clip.Channels {
			ch := &a.Clip.Channels[i]
			if b := m.bindings[bindingKey{ch.Target, ch.Path}]; b != nil {
				accumulate(b, ch.Path, ch.Sample(a.Time), w)
			}
		}
	}
	m.active = kept

	for key, b := range m.bindings {
		if b.weight == 0 {
			continue
		}
		if b.weight < 1 {
			accumulate(b, key.path, b.rest, 1-b.weight)
		}
		apply(key.node, key.path, b)
	}
}

func accumulate(b *binding, path Path, v [4]float32, w float32) {
	if path == PathRotation && b.weight > 0 {
		// Keep quaternions in one hemisphere so the weighted sum does not cancel
		if b.sum[0]*v[0]+b.sum[1]*v[1]+b.sum[2]*v[2]+b.sum[3]*v[3] < 0 {
			w = -w
		}
	}
	for k := range v {
		b.sum[k] += v[k] * w
	}
	if w < 0 {
		w = -w
	}
	b.weight += w
}

func apply(n *scenegraph.Node, path Path, b *binding) {
	s := b.sum
	inv := 1 / b.weight
	switch path {
	case PathTranslation:
		n.Position = math.Vec3{X: s[0] * inv, Y: s[1] * inv, Z: s[2] * inv}
	case PathRotation:
		n.Rotation = arrayQuat(s).Normalize()
	case PathScale:
		n.Scale = math.Vec3{X: s[0] * inv, Y: s[1] * inv, Z: s[2] * inv}
	}
}
