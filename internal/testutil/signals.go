// Package testutil holds deterministic signals and tolerance assertions
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude)
// with a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// GaussianNoise generates zero-mean Gaussian white noise with standard
// deviation sigma and a fixed seed.
func GaussianNoise(seed int64, sigma float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = rng.NormFloat64() * sigma
	}

	return out
}

// Impulse generates a unit impulse at pos.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC generates a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// Run is a stretch of identical state codes.
type Run struct {
	Code  float64
	Count int
}

// StateCodes expands runs into a state-channel sample sequence.
func StateCodes(runs ...Run) []float64 {
	var out []float64
	for _, r := range runs {
		for range r.Count {
			out = append(out, r.Code)
		}
	}

	return out
}
