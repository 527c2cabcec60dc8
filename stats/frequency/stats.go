// Package frequency summarises the shape of a spectral density.
//
// Every descriptor weights bins by power: amplitude densities are squared
// back (using the spectrum's exponent) before use, so an ASD and the PSD it
// came from give the same answers.
package frequency

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/duncanmmacleod/gwpy-laac/dsp/spectrum"
)

// DefaultRolloff is the power fraction used by Calculate for Rolloff.
const DefaultRolloff = 0.85

// Stats holds frequency-domain descriptors of a power density.
type Stats struct {
	Bins int
	// PeakFrequency is the frequency of the largest bin in Hz and Peak its
	// density in the spectrum's own units.
	PeakFrequency float64
	Peak          float64
	// TotalPower is the density integrated over all bins, the mean square
	// of the underlying signal.
	TotalPower float64
	Centroid   float64 // Hz
	Spread     float64 // Hz
	// Flatness is the geometric over the arithmetic mean of the power,
	// excluding DC: 1 for white noise, near 0 for lines.
	Flatness float64
	// Rolloff is the frequency below which DefaultRolloff of the power lies.
	Rolloff float64
	// Bandwidth is the half-power width around the peak in Hz.
	Bandwidth float64
}

// Calculate computes every descriptor of s.
func Calculate(s spectrum.Spectrum) (Stats, error) {
	power, err := powerOf(s)
	if err != nil {
		return Stats{}, err
	}

	freqs := s.Frequencies()
	peakF, peak := s.Peak()

	st := Stats{
		Bins:          len(power),
		PeakFrequency: peakF,
		Peak:          peak,
		TotalPower:    floats.Sum(power) * s.Df,
		Flatness:      flatness(power),
		Rolloff:       rolloff(power, freqs, DefaultRolloff),
		Bandwidth:     bandwidth(power, freqs),
	}

	if floats.Sum(power) > 0 {
		st.Centroid, st.Spread = stat.PopMeanStdDev(freqs, power)
	}

	return st, nil
}

// Centroid returns the power-weighted mean frequency of s.
func Centroid(s spectrum.Spectrum) (float64, error) {
	power, err := powerOf(s)
	if err != nil {
		return 0, err
	}

	if floats.Sum(power) == 0 {
		return 0, nil
	}

	return stat.Mean(s.Frequencies(), power), nil
}

// Flatness returns the spectral flatness of s, excluding the DC bin.
func Flatness(s spectrum.Spectrum) (float64, error) {
	power, err := powerOf(s)
	if err != nil {
		return 0, err
	}

	return flatness(power), nil
}

// Rolloff returns the lowest bin frequency at which the cumulative power
// reaches fraction of the total.
func Rolloff(s spectrum.Spectrum, fraction float64) (float64, error) {
	if !(fraction > 0 && fraction <= 1) {
		return 0, fmt.Errorf("%w: rolloff fraction %v", spectrum.ErrInvalidConfig, fraction)
	}

	power, err := powerOf(s)
	if err != nil {
		return 0, err
	}

	return rolloff(power, s.Frequencies(), fraction), nil
}

// Bandwidth returns the half-power bandwidth around the peak of s.
func Bandwidth(s spectrum.Spectrum) (float64, error) {
	power, err := powerOf(s)
	if err != nil {
		return 0, err
	}

	return bandwidth(power, s.Frequencies()), nil
}

func powerOf(s spectrum.Spectrum) ([]float64, error) {
	if s.Len() == 0 {
		return nil, fmt.Errorf("frequency stats %s: %w: no bins", s.Channel, spectrum.ErrInsufficientData)
	}

	if !(s.Exponent > 0) {
		return nil, fmt.Errorf("frequency stats %s: %w: exponent=%v", s.Channel, spectrum.ErrInvalidConfig, s.Exponent)
	}

	return s.Pow(1 / s.Exponent).Values(), nil
}

func flatness(power []float64) float64 {
	if len(power) < 2 {
		return 0
	}

	bins := power[1:]

	mean := stat.Mean(bins, nil)
	if mean == 0 || floats.Min(bins) <= 0 {
		return 0
	}

	var sumLog float64
	for _, v := range bins {
		sumLog += math.Log(v)
	}

	return math.Exp(sumLog/float64(len(bins))) / mean
}

func rolloff(power, freqs []float64, fraction float64) float64 {
	total := floats.Sum(power)
	if total == 0 {
		return freqs[0]
	}

	threshold := fraction * total

	var cum float64
	for i, v := range power {
		cum += v
		if cum >= threshold {
			return freqs[i]
		}
	}

	return freqs[len(freqs)-1]
}

// bandwidth walks out from the peak to the half-power crossings and
// interpolates linearly between the bins either side of each.
func bandwidth(power, freqs []float64) float64 {
	n := len(power)
	if n < 2 {
		return 0
	}

	peak := floats.MaxIdx(power)
	if power[peak] == 0 {
		return 0
	}

	half := power[peak] / 2

	lower := freqs[0]
	for i := peak; i >= 1; i-- {
		if power[i-1] <= half {
			lower = crossing(freqs[i-1], freqs[i], power[i-1], power[i], half)
			break
		}
	}

	upper := freqs[n-1]
	for i := peak; i < n-1; i++ {
		if power[i+1] <= half {
			upper = crossing(freqs[i], freqs[i+1], power[i], power[i+1], half)
			break
		}
	}

	return math.Max(0, upper-lower)
}

func crossing(f0, f1, p0, p1, level float64) float64 {
	if p1 == p0 {
		return (f0 + f1) / 2
	}

	return f0 + (level-p0)/(p1-p0)*(f1-f0)
}
