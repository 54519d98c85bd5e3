// Package fxmath holds the numeric parts of the post-processing passes:
// blur kernels, mip chain sizes, bloom level weights and outline pulsing.
package fxmath

import "math"

// GaussianKernel returns the one-sided weights of a separable gaussian blur
// with the given sigma and radius: weight 0 is the centre tap, weights 1..n-1
// are applied on both sides. The taps sum to one.
func GaussianKernel(sigma float64, radius int) []float32 {
	if radius < 1 {
		radius = 1
	}
	if sigma <= 0 {
		w := make([]float32, radius)
		w[0] = 1
		return w
	}

	weights := make([]float64, radius)
	total := 0.0
	for i := range weights {
		weights[i] = 0.39894 * math.Exp(-0.5*float64(i*i)/(sigma*sigma)) / sigma
		if i == 0 {
			total += weights[i]
		} else {
			total += 2 * weights[i]
		}
	}

	out := make([]float32, radius)
	for i, w := range weights {
		out[i] = float32(w / total)
	}
	return out
}

// KernelRadius returns the blur radius used at mip level i: 3, 5, 7, ...
func KernelRadius(level int) int {
	return 3 + 2*level
}

// MipSizes returns the size of each bloom level, starting at half the
// input resolution and halving per level, never below 1×1.
func MipSizes(width, height, levels int) [][2]int {
	sizes := make([][2]int, 0, levels)
	w, h := width, height
	for i := 0; i < levels; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		sizes = append(sizes, [2]int{w, h})
	}
	return sizes
}

// BloomFactors returns the weight of each bloom level. Base weights fall
// linearly from 1 to 0.2; radius 0 keeps them, radius 1 mirrors them
// around 0.6 so wide levels dominate.
func BloomFactors(levels int, radius float32) []float32 {
	out := make([]float32, levels)
	for i := range out {
		base := float32(1)
		if levels > 1 {
			base = 1 - 0.8*float32(i)/float32(levels-1)
		}
		out[i] = base + (1.2-2*base)*radius
	}
	return out
}

// PulseFactor returns the outline brightness multiplier at time t seconds
// for a pulse period in seconds. It oscillates in [0.25, 1]; a period of
// zero or less disables pulsing.
func PulseFactor(t, period float64) float32 {
	if period <= 0 {
		return 1
	}
	return float32((1+0.25)/2 + math.Cos(t*10/period)*(1-0.25)/2)
}
