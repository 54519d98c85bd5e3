// Package audio plays short sound effects, most notably collision impacts.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when playing before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Manager mixes concurrently playing effects into the speaker.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	sfxVolLevel  float64

	// Impact overrides the procedural tone when set.
	impact []byte

	sfxMixer *beep.Mixer
	log      *zap.Logger
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		masterVolume: 1.0,
		sfxVolLevel:  1.0,
		sfxMixer:     &beep.Mixer{},
		log:          logger.Named("audio"),
	}
}

// Init initializes the audio system.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	speaker.Play(m.sfxMixer)

	m.initialized = true
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
}

// SetSFXVolume sets the SFX volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetSFXVolume returns the SFX volume.
func (m *Manager) GetSFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxVolLevel
}

// SetImpactSample replaces the procedural impact tone with WAV data.
// The data is validated here so a bad file fails at load time.
func (m *Manager) SetImpactSample(data []byte) error {
	s, _, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	s.Close()

	m.mu.Lock()
	m.impact = data
	m.mu.Unlock()
	return nil
}

// volumeToDb converts a 0-1 volume to decibel scale.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	// vol=1 -> 0dB, vol=0.5 -> -6dB, vol=0.25 -> -12dB
	return 20 * math.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m *Manager) playWAV(data []byte, gain float64) error {
	if !m.IsInitialized() {
		return ErrNotInitialized
	}

	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}

	var resampled beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		resampled = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}
	m.play(resampled, gain)
	return nil
}

// PlayImpact plays a collision sound whose loudness follows the closing
// speed in m/s. Contacts slower than MinImpactSpeed are silent.
func (m *Manager) PlayImpact(speed float64) error {
	gain := ImpactGain(speed)
	if gain <= 0 {
		return nil
	}

	m.mu.RLock()
	sample := m.impact
	m.mu.RUnlock()
	if sample != nil {
		return m.playWAV(sample, gain)
	}

	if !m.IsInitialized() {
		return ErrNotInitialized
	}
	m.play(ImpactTone(m.sampleRate, speed), 1)
	m.log.Debug("impact", zap.Float64("speed", speed), zap.Float64("gain", gain))
	return nil
}

// play routes s through the effect volume and onto the mixer.
func (m *Manager) play(s beep.Streamer, gain float64) {
	m.mu.RLock()
	vol := m.masterVolume * m.sfxVolLevel * gain
	m.mu.RUnlock()

	v := &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeToDb(vol) / 6, // dB to powers of two
		Silent:   vol <= 0,
	}

	// speaker.Lock guards the mixer while the device callback reads it.
	speaker.Lock()
	m.sfxMixer.Add(v)
	speaker.Unlock()
}
