package spectrum

import (
	"fmt"
	"slices"

	"github.com/duncanmmacleod/gwpy-laac/internal/fftutil"
	"github.com/duncanmmacleod/gwpy-laac/timeseries"
)

// ComplexSpectrum holds the one-sided, unnormalised DFT of an N-sample
// series. It keeps enough of the series' sampling to transform back.
type ComplexSpectrum struct {
	Channel string
	Epoch   float64
	Dt      float64
	// N is the length of the transformed series.
	N  int
	Df float64

	values []complex128
}

// Transform returns the DFT of the whole series at its native resolution.
func Transform(s timeseries.Series) (ComplexSpectrum, error) {
	if s.Len() == 0 {
		return ComplexSpectrum{}, fmt.Errorf("transform %s: %w", s.Channel, timeseries.ErrEmptySeries)
	}

	if err := s.CheckFinite(); err != nil {
		return ComplexSpectrum{}, fmt.Errorf("transform: %w: %w", ErrNonFinite, err)
	}

	coeffs, err := fftutil.RealForward(s.Samples())
	if err != nil {
		return ComplexSpectrum{}, fmt.Errorf("transform %s: %w", s.Channel, err)
	}

	return ComplexSpectrum{
		Channel: s.Channel,
		Epoch:   s.Epoch,
		Dt:      s.Dt,
		N:       s.Len(),
		Df:      1 / (float64(s.Len()) * s.Dt),
		values:  coeffs,
	}, nil
}

// Len returns the number of frequency bins, N/2+1.
func (c ComplexSpectrum) Len() int { return len(c.values) }

// At returns the coefficient of bin k.
func (c ComplexSpectrum) At(k int) complex128 { return c.values[k] }

// Values returns a copy of the coefficients.
func (c ComplexSpectrum) Values() []complex128 { return slices.Clone(c.values) }

// Frequencies returns the frequency of every bin in Hz.
func (c ComplexSpectrum) Frequencies() []float64 {
	return frequencyAxis(0, c.Df, len(c.values))
}

// Multiply returns the spectrum with bin k multiplied by h[k].
func (c ComplexSpectrum) Multiply(h []complex128) (ComplexSpectrum, error) {
	if len(h) != len(c.values) {
		return ComplexSpectrum{}, fmt.Errorf("%w: %d factors for %d bins", ErrMismatchedLength, len(h), len(c.values))
	}

	out := c
	out.values = make([]complex128, len(c.values))

	for k, v := range c.values {
		out.values[k] = v * h[k]
	}

	return out, nil
}

// Inverse transforms back to a real series with the original epoch,
// sampling and length.
func (c ComplexSpectrum) Inverse() (timeseries.Series, error) {
	samples, err := fftutil.RealInverse(c.values, c.N)
	if err != nil {
		return timeseries.Series{}, fmt.Errorf("inverse %s: %w", c.Channel, err)
	}

	return timeseries.New(c.Channel, c.Epoch, c.Dt, samples)
}
