package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
)

// Impact tone shape.
const (
	MinImpactSpeed = 0.5  // m/s; slower contacts make no sound
	MaxImpactSpeed = 15.0 // m/s; faster contacts play at full gain

	ImpactDuration = 250 * time.Millisecond
	impactDecay    = 18.0 // 1/s
	impactBaseHz   = 90.0
	impactPitchHz  = 6.0 // added per m/s
)

// ImpactGain maps a closing speed to a 0-1 gain.
func ImpactGain(speed float64) float64 {
	if speed < MinImpactSpeed || math.IsNaN(speed) {
		return 0
	}
	return clamp(speed/MaxImpactSpeed, 0, 1)
}

// ImpactTone returns a short decaying thump: a low sine with a little
// noise on the attack, pitched and scaled by speed.
func ImpactTone(sr beep.SampleRate, speed float64) beep.Streamer {
	gain := ImpactGain(speed)
	freq := impactBaseHz + impactPitchHz*clamp(speed, 0, MaxImpactSpeed)
	total := sr.N(ImpactDuration)
	dt := 1 / float64(sr)

	// Deterministic LCG so identical impacts sound identical.
	seed := uint32(2463534242)
	i := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for n < len(samples) && i < total {
			t := float64(i) * dt
			env := gain * math.Exp(-impactDecay*t)

			seed = seed*1664525 + 1013904223
			noise := (float64(seed>>8)/float64(1<<24))*2 - 1
			attack := math.Exp(-impactDecay * 8 * t)

			v := env * (0.8*math.Sin(2*math.Pi*freq*t) + 0.2*noise*attack)
			samples[n][0] = v
			samples[n][1] = v
			n++
			i++
		}
		return n, n > 0
	})
}
