package zpk

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/duncanmmacleod/gwpy-laac/dsp/spectrum"
	"github.com/duncanmmacleod/gwpy-laac/timeseries"
)

// ApplySeries filters s by multiplying its DFT by H. The result has the
// epoch, sampling and length of s.
func ApplySeries(tf TransferFunction, s timeseries.Series) (timeseries.Series, error) {
	if err := tf.Validate(); err != nil {
		return timeseries.Series{}, err
	}

	if !tf.IsReal() {
		return timeseries.Series{}, fmt.Errorf("%w: roots are not conjugate-closed, output would not be real", ErrInvalidFilter)
	}

	c, err := spectrum.Transform(s)
	if err != nil {
		return timeseries.Series{}, err
	}

	filtered, err := ApplyComplex(tf, c)
	if err != nil {
		return timeseries.Series{}, fmt.Errorf("filter %s: %w", s.Channel, err)
	}

	return filtered.Inverse()
}

// ApplyComplex multiplies every bin of c by H, keeping phase.
func ApplyComplex(tf TransferFunction, c spectrum.ComplexSpectrum) (spectrum.ComplexSpectrum, error) {
	h, err := tf.Response(c.Frequencies())
	if err != nil {
		return spectrum.ComplexSpectrum{}, err
	}

	return c.Multiply(h)
}

// ApplySpectrum scales a density by |H|^(2*Exponent): |H|^2 for a PSD, |H|
// for an ASD.
func ApplySpectrum(tf TransferFunction, s spectrum.Spectrum) (spectrum.Spectrum, error) {
	factors, err := powerFactors(tf, s.Frequencies(), s.Exponent)
	if err != nil {
		return spectrum.Spectrum{}, fmt.Errorf("filter %s: %w", s.Channel, err)
	}

	return s.Scale(factors)
}

// ApplySpectrogram scales every column as ApplySpectrum does.
func ApplySpectrogram(tf TransferFunction, sg spectrum.Spectrogram) (spectrum.Spectrogram, error) {
	factors, err := powerFactors(tf, sg.Frequencies(), sg.Exponent)
	if err != nil {
		return spectrum.Spectrogram{}, fmt.Errorf("filter %s: %w", sg.Channel, err)
	}

	return sg.Scale(factors)
}

func powerFactors(tf TransferFunction, freqs []float64, exponent float64) ([]float64, error) {
	if err := tf.Validate(); err != nil {
		return nil, err
	}

	h, err := tf.Response(freqs)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(h))
	for i, v := range h {
		out[i] = math.Pow(cmplx.Abs(v), 2*exponent)
	}

	return out, nil
}
