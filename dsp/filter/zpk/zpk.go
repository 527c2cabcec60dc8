package zpk

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"slices"
	"strings"

	"github.com/duncanmmacleod/gwpy-laac/internal/polyroot"
)

var (
	// ErrSingular is returned when a transfer function has no finite value
	// at a frequency it must be evaluated at.
	ErrSingular = errors.New("zpk: singular transfer function")
	// ErrInvalidFilter is returned for non-finite roots or gain, and for
	// filters that cannot be applied to real data.
	ErrInvalidFilter = errors.New("zpk: invalid filter")
)

// TransferFunction is an analog zero-pole-gain filter with roots in Hz.
type TransferFunction struct {
	Zeros []complex128
	Poles []complex128
	Gain  float64
}

// New returns a validated transfer function over copies of zeros and poles.
func New(zeros, poles []complex128, gain float64) (TransferFunction, error) {
	tf := TransferFunction{
		Zeros: slices.Clone(zeros),
		Poles: slices.Clone(poles),
		Gain:  gain,
	}

	return tf, tf.Validate()
}

// Identity returns the filter with no roots and unit gain.
func Identity() TransferFunction {
	return TransferFunction{Gain: 1}
}

// Validate rejects non-finite gain and roots.
func (tf TransferFunction) Validate() error {
	if math.IsNaN(tf.Gain) || math.IsInf(tf.Gain, 0) {
		return fmt.Errorf("%w: gain %v", ErrInvalidFilter, tf.Gain)
	}

	for _, z := range tf.Zeros {
		if cmplx.IsNaN(z) || cmplx.IsInf(z) {
			return fmt.Errorf("%w: zero %v", ErrInvalidFilter, z)
		}
	}

	for _, p := range tf.Poles {
		if cmplx.IsNaN(p) || cmplx.IsInf(p) {
			return fmt.Errorf("%w: pole %v", ErrInvalidFilter, p)
		}
	}

	return nil
}

// IsReal reports whether the filter has a real impulse response: every
// complex root comes with its conjugate.
func (tf TransferFunction) IsReal() bool {
	return polyroot.IsConjugateSet(tf.Zeros) && polyroot.IsConjugateSet(tf.Poles)
}

// Order returns the larger of the number of zeros and poles.
func (tf TransferFunction) Order() int {
	return max(len(tf.Zeros), len(tf.Poles))
}

// At evaluates H at f Hz. Zero and pole factors that vanish at j*f cancel
// each other; a pole left over after cancellation fails with ErrSingular.
func (tf TransferFunction) At(f float64) (complex128, error) {
	s := complex(0, f)
	tol := 1e-12 * math.Max(1, math.Abs(f))

	h := complex(tf.Gain, 0)
	vanishing := 0

	for _, z := range tf.Zeros {
		d := s - z
		if cmplx.Abs(d) <= tol {
			vanishing++
			continue
		}

		h *= d
	}

	for _, p := range tf.Poles {
		d := s - p
		if cmplx.Abs(d) <= tol {
			vanishing--
			continue
		}

		h /= d
	}

	switch {
	case vanishing < 0:
		return 0, fmt.Errorf("%w: %d uncancelled pole(s) at %g Hz", ErrSingular, -vanishing, f)
	case vanishing > 0:
		return 0, nil
	}

	if cmplx.IsNaN(h) || cmplx.IsInf(h) {
		return 0, fmt.Errorf("%w: response overflows at %g Hz", ErrSingular, f)
	}

	return h, nil
}

// Response evaluates H at every frequency.
func (tf TransferFunction) Response(freqs []float64) ([]complex128, error) {
	out := make([]complex128, len(freqs))

	for i, f := range freqs {
		h, err := tf.At(f)
		if err != nil {
			return nil, err
		}

		out[i] = h
	}

	return out, nil
}

// Magnitude returns |H| at every frequency.
func (tf TransferFunction) Magnitude(freqs []float64) ([]float64, error) {
	h, err := tf.Response(freqs)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(h))
	for i, v := range h {
		out[i] = cmplx.Abs(v)
	}

	return out, nil
}

// MagnitudeDB returns 20*log10(|H(f)|).
func (tf TransferFunction) MagnitudeDB(f float64) (float64, error) {
	h, err := tf.At(f)
	if err != nil {
		return 0, err
	}

	return 20 * math.Log10(cmplx.Abs(h)), nil
}

// Phase returns the phase of H(f) in radians.
func (tf TransferFunction) Phase(f float64) (float64, error) {
	h, err := tf.At(f)
	if err != nil {
		return 0, err
	}

	return cmplx.Phase(h), nil
}

// Inverse swaps zeros and poles and inverts the gain.
func (tf TransferFunction) Inverse() (TransferFunction, error) {
	if tf.Gain == 0 {
		return TransferFunction{}, fmt.Errorf("%w: inverse of a zero-gain filter", ErrSingular)
	}

	return TransferFunction{
		Zeros: slices.Clone(tf.Poles),
		Poles: slices.Clone(tf.Zeros),
		Gain:  1 / tf.Gain,
	}, nil
}

// Cascade returns the filter equivalent to tf followed by o.
func (tf TransferFunction) Cascade(o TransferFunction) TransferFunction {
	return TransferFunction{
		Zeros: slices.Concat(tf.Zeros, o.Zeros),
		Poles: slices.Concat(tf.Poles, o.Poles),
		Gain:  tf.Gain * o.Gain,
	}
}

// Coefficients expands the filter into numerator and denominator
// polynomials in s, highest power first.
func (tf TransferFunction) Coefficients() (b, a []float64, err error) {
	if !tf.IsReal() {
		return nil, nil, fmt.Errorf("%w: roots are not conjugate-closed", ErrInvalidFilter)
	}

	b = polyroot.Expand(tf.Zeros)
	for i := range b {
		b[i] *= tf.Gain
	}

	return b, polyroot.Expand(tf.Poles), nil
}

func (tf TransferFunction) String() string {
	return fmt.Sprintf("zpk(zeros=%s, poles=%s, gain=%g)", formatRoots(tf.Zeros), formatRoots(tf.Poles), tf.Gain)
}

func formatRoots(roots []complex128) string {
	parts := make([]string, len(roots))

	for i, r := range roots {
		if imag(r) == 0 {
			parts[i] = fmt.Sprintf("%g", real(r))
		} else {
			parts[i] = fmt.Sprintf("%g", r)
		}
	}

	return "[" + strings.Join(parts, " ") + "]"
}
