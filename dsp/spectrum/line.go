package spectrum

import (
	"fmt"
	"math"

	"github.com/duncanmmacleod/gwpy-laac/timeseries"
)

// LineAmplitude returns the amplitude of a sinusoid at freq Hz in s, using
// the Goertzel recursion for the single DFT term. It is exact for lines
// that complete a whole number of cycles in the series; otherwise leakage
// lowers the estimate.
func LineAmplitude(s timeseries.Series, freq float64) (float64, error) {
	n := s.Len()
	if n == 0 {
		return 0, fmt.Errorf("line amplitude: %w", timeseries.ErrEmptySeries)
	}

	nyquist := s.SampleRate() / 2
	if !(freq >= 0 && freq <= nyquist) {
		return 0, fmt.Errorf("%w: line at %v Hz outside [0, %v] Hz", ErrInvalidConfig, freq, nyquist)
	}

	if err := s.CheckFinite(); err != nil {
		return 0, fmt.Errorf("line amplitude: %w: %w", ErrNonFinite, err)
	}

	coeff := 2 * math.Cos(2*math.Pi*freq*s.Dt)

	var s0, s1 float64
	for i := range n {
		s0, s1 = s.At(i)+coeff*s0-s1, s0
	}

	power := math.Max(0, s0*s0+s1*s1-coeff*s0*s1)
	amp := math.Sqrt(power) / float64(n)

	// DC and Nyquist have no mirrored negative-frequency term.
	if freq > 0 && freq < nyquist {
		amp *= 2
	}

	return amp, nil
}
