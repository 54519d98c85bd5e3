package gltfload

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/engine/animation"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
)

func (c *converter) animation(index int, a *gltf.Animation, nodes []*scenegraph.Node) (*animation.Clip, error) {
	name := a.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", index)
	}

	var channels []animation.Channel
	for ci, ch := range a.Channels {
		if ch.Target.Node == nil {
			continue
		}
		if *ch.Target.Node < 0 || *ch.Target.Node >= len(nodes) {
			return nil, fmt.Errorf("channel %d: node index %d out of range", ci, *ch.Target.Node)
		}

		var path animation.Path
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			path = animation.PathTranslation
		case gltf.TRSRotation:
			path = animation.PathRotation
		case gltf.TRSScale:
			path = animation.PathScale
		default:
			c.log.Debug("skipping morph weight channel", zap.String("clip", name), zap.Int("channel", ci))
			continue
		}

		if ch.Sampler == nil || *ch.Sampler < 0 || *ch.Sampler >= len(a.Samplers) {
			return nil, fmt.Errorf("channel %d: missing sampler", ci)
		}
		s := a.Samplers[*ch.Sampler]

		out := animation.Channel{Target: nodes[*ch.Target.Node], Path: path}
		switch s.Interpolation {
		case gltf.InterpolationStep:
			out.Interpolation = animation.Step
		case gltf.InterpolationCubicSpline:
			out.Interpolation = animation.CubicSpline
		default:
			out.Interpolation = animation.Linear
		}

		var err error
		if out.Times, err = c.readTimes(s.Input); err != nil {
			return nil, fmt.Errorf("channel %d: %w", ci, err)
		}
		if out.Values, err = c.readValues(s.Output); err != nil {
			return nil, fmt.Errorf("channel %d: %w", ci, err)
		}

		keys := len(out.Times)
		if out.Interpolation == animation.CubicSpline {
			keys *= 3
		}
		if len(out.Values) != keys*out.Components() {
			return nil, fmt.Errorf("channel %d: %d values for %d keys", ci, len(out.Values), len(out.Times))
		}
		channels = append(channels, out)
	}

	return animation.NewClip(name, channels), nil
}

func (c *converter) readTimes(i *int) ([]float32, error) {
	if i == nil {
		return nil, fmt.Errorf("sampler has no input")
	}
	acr, err := c.accessor(*i)
	if err != nil {
		return nil, err
	}
	raw, err := modeler.ReadAccessor(c.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading key times: %w", err)
	}
	times, ok := raw.([]float32)
	if !ok {
		return nil, fmt.Errorf("%w: key times of type %T", ErrUnsupported, raw)
	}
	return times, nil
}

// readValues flattens a sampler output accessor, normalizing integer
// rotation encodings.
func (c *converter) readValues(i *int) ([]float32, error) {
	if i == nil {
		return nil, fmt.Errorf("sampler has no output")
	}
	acr, err := c.accessor(*i)
	if err != nil {
		return nil, err
	}
	raw, err := modeler.ReadAccessor(c.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading key values: %w", err)
	}

	var out []float32
	switch v := raw.(type) {
	case [][3]float32:
		for _, x := range v {
			out = append(out, x[:]...)
		}
	case [][4]float32:
		for _, x := range v {
			out = append(out, x[:]...)
		}
	case [][4]int8:
		for _, x := range v {
			for _, e := range x {
				out = append(out, max(float32(e)/127, -1))
			}
		}
	case [][4]uint8:
		for _, x := range v {
			for _, e := range x {
				out = append(out, float32(e)/255)
			}
		}
	case [][4]int16:
		for _, x := range v {
			for _, e := range x {
				out = append(out, max(float32(e)/32767, -1))
			}
		}
	case [][4]uint16:
		for _, x := range v {
			for _, e := range x {
				out = append(out, float32(e)/65535)
			}
		}
	default:
		return nil, fmt.Errorf("%w: key values of type %T", ErrUnsupported, raw)
	}
	return out, nil
}
