package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate reports every setting that would make a run fail or misbehave.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	g := c.Graphics
	check(g.Width > 0 && g.Height > 0, "graphics size %dx%d", g.Width, g.Height)
	check(g.FOV > 0 && g.FOV < 180, "graphics.fov %v outside (0, 180)", g.FOV)
	check(g.Near > 0 && g.Far > g.Near, "graphics near/far %v/%v", g.Near, g.Far)
	check(g.Samples >= 0 && g.Samples <= 16, "graphics.samples %d outside [0, 16]", g.Samples)
	check(!g.Shadows || g.ShadowSize > 0, "graphics.shadow_size %d", g.ShadowSize)

	p := c.Physics
	check(p.SubStep > 0, "physics.sub_step %v must be positive", p.SubStep)
	check(p.Iterations > 0, "physics.iterations %d must be positive", p.Iterations)
	check(p.Restitution >= 0 && p.Restitution <= 1, "physics.restitution %v outside [0, 1]", p.Restitution)
	check(p.Friction >= 0, "physics.friction %v is negative", p.Friction)

	d := c.Demo
	check(strings.TrimSpace(d.Name) != "", "demo.name is empty")
	check(d.Frames >= 0, "demo.frames %d is negative", d.Frames)
	check(d.SphereRadius > 0 && d.SphereMass > 0, "demo sphere radius/mass %v/%v", d.SphereRadius, d.SphereMass)

	check(c.Bloom.Levels > 0, "bloom.levels %d must be positive", c.Bloom.Levels)
	check(c.Character.CrossFade >= 0, "character.cross_fade %v is negative", c.Character.CrossFade)
	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume %v outside [0, 1]", c.Audio.Volume)
	check(c.Audio.SFXVolume >= 0 && c.Audio.SFXVolume <= 1, "audio.sfx_volume %v outside [0, 1]", c.Audio.SFXVolume)

	return errors.Join(errs...)
}
