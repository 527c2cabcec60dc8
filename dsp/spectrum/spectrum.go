package spectrum

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Spectrum is a one-sided spectral density on a uniform frequency axis
// F0, F0+Df, F0+2Df, ...
type Spectrum struct {
	Channel string
	// Epoch and Duration describe the span of data the estimate covers.
	Epoch    float64
	Duration float64
	F0       float64
	Df       float64
	// Exponent is the power the density has been raised to: 1 for a PSD,
	// 0.5 for an ASD.
	Exponent float64

	values []float64
}

// FromValues builds a spectrum over a copy of values.
func FromValues(channel string, f0, df, exponent float64, values []float64) (Spectrum, error) {
	if !(df > 0) || math.IsInf(df, 0) {
		return Spectrum{}, fmt.Errorf("%w: df=%v", ErrInvalidConfig, df)
	}

	if !(exponent > 0) || math.IsInf(exponent, 0) {
		return Spectrum{}, fmt.Errorf("%w: exponent=%v", ErrInvalidConfig, exponent)
	}

	return Spectrum{
		Channel:  channel,
		F0:       f0,
		Df:       df,
		Exponent: exponent,
		values:   slices.Clone(values),
	}, nil
}

// Len returns the number of frequency bins.
func (s Spectrum) Len() int { return len(s.values) }

// At returns the density in bin k.
func (s Spectrum) At(k int) float64 { return s.values[k] }

// Values returns a copy of the densities.
func (s Spectrum) Values() []float64 { return slices.Clone(s.values) }

// Frequency returns the frequency of bin k in Hz.
func (s Spectrum) Frequency(k int) float64 { return s.F0 + float64(k)*s.Df }

// Frequencies returns the frequency of every bin in Hz.
func (s Spectrum) Frequencies() []float64 {
	return frequencyAxis(s.F0, s.Df, len(s.values))
}

func frequencyAxis(f0, df float64, n int) []float64 {
	if n == 0 {
		return nil
	}

	if n == 1 {
		return []float64{f0}
	}

	return floats.Span(make([]float64, n), f0, f0+float64(n-1)*df)
}

// Pow raises every density to e and multiplies the recorded exponent by e.
// Pow(0.5) turns a PSD into an ASD.
func (s Spectrum) Pow(e float64) Spectrum {
	out := s
	out.Exponent = s.Exponent * e
	out.values = powValues(s.values, e)

	return out
}

func powValues(values []float64, e float64) []float64 {
	out := make([]float64, len(values))

	switch e {
	case 1:
		copy(out, values)
	case 0.5:
		for i, v := range values {
			out[i] = math.Sqrt(v)
		}
	case 2:
		vecmath.MulBlock(out, values, values)
	default:
		for i, v := range values {
			out[i] = math.Pow(v, e)
		}
	}

	return out
}

// Scale multiplies bin k by factors[k].
func (s Spectrum) Scale(factors []float64) (Spectrum, error) {
	if len(factors) != len(s.values) {
		return Spectrum{}, fmt.Errorf("%w: %d factors for %d bins", ErrMismatchedLength, len(factors), len(s.values))
	}

	out := s
	out.values = make([]float64, len(s.values))
	vecmath.MulBlock(out.values, s.values, factors)

	return out, nil
}

// Crop keeps the bins whose frequencies lie in [fmin, fmax].
func (s Spectrum) Crop(fmin, fmax float64) (Spectrum, error) {
	i, j := s.binRange(fmin, fmax, true)
	if j <= i {
		return Spectrum{}, fmt.Errorf("%w: [%g, %g] Hz", ErrEmptyBand, fmin, fmax)
	}

	out := s
	out.F0 = s.Frequency(i)
	out.values = slices.Clone(s.values[i:j])

	return out, nil
}

// binRange returns the bins [i, j) whose frequencies lie in the band. The
// upper edge is inclusive when closed is true.
func (s Spectrum) binRange(flo, fhi float64, closed bool) (int, int) {
	const eps = 1e-9

	lo := math.Ceil((flo-s.F0)/s.Df - eps)
	hiPos := (fhi - s.F0) / s.Df

	var hi float64
	if closed {
		hi = math.Floor(hiPos+eps) + 1
	} else {
		hi = math.Ceil(hiPos - eps)
	}

	n := float64(len(s.values))
	lo = math.Max(0, math.Min(lo, n))
	hi = math.Max(0, math.Min(hi, n))

	return int(lo), int(hi)
}

// BandPower integrates the power density over [flo, fhi) and returns the
// mean-square signal in the band. Densities are first converted back to
// power using the recorded exponent.
func (s Spectrum) BandPower(flo, fhi float64) (float64, error) {
	if !(s.Exponent > 0) {
		return 0, fmt.Errorf("%w: exponent=%v", ErrInvalidConfig, s.Exponent)
	}

	i, j := s.binRange(flo, fhi, false)
	if j <= i {
		return 0, fmt.Errorf("%w: [%g, %g) Hz", ErrEmptyBand, flo, fhi)
	}

	power := powValues(s.values[i:j], 1/s.Exponent)

	return floats.Sum(power) * s.Df, nil
}

// Peak returns the frequency and value of the largest bin.
func (s Spectrum) Peak() (float64, float64) {
	if len(s.values) == 0 {
		return math.NaN(), math.NaN()
	}

	k := floats.MaxIdx(s.values)

	return s.Frequency(k), s.values[k]
}

func (s Spectrum) String() string {
	return fmt.Sprintf("%s: %d bins, df=%g Hz, exponent %g", s.Channel, len(s.values), s.Df, s.Exponent)
}
