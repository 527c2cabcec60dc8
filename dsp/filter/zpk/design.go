package zpk

import (
	"fmt"
	"math"
	"slices"

	"github.com/duncanmmacleod/gwpy-laac/internal/polyroot"
)

// Kind selects the response shape of a designed filter.
type Kind int

const (
	Lowpass Kind = iota
	Highpass
)

func (k Kind) String() string {
	switch k {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Butterworth designs an analog Butterworth filter of the given order with
// its -3 dB point at cutoff Hz. Lowpass filters have unit gain at DC,
// highpass filters unit gain at high frequency.
func Butterworth(kind Kind, order int, cutoff float64) (TransferFunction, error) {
	if order < 1 {
		return TransferFunction{}, fmt.Errorf("%w: butterworth order %d", ErrInvalidFilter, order)
	}

	if !(cutoff > 0) || math.IsInf(cutoff, 0) {
		return TransferFunction{}, fmt.Errorf("%w: butterworth cutoff %v Hz", ErrInvalidFilter, cutoff)
	}

	poles := make([]complex128, 0, order)

	for k := range order / 2 {
		theta := math.Pi * float64(2*k+1) / (2 * float64(order))
		p := complex(-cutoff*math.Sin(theta), cutoff*math.Cos(theta))
		poles = append(poles, p, complex(real(p), -imag(p)))
	}

	if order%2 == 1 {
		poles = append(poles, complex(-cutoff, 0))
	}

	switch kind {
	case Lowpass:
		return TransferFunction{Poles: poles, Gain: math.Pow(cutoff, float64(order))}, nil
	case Highpass:
		return TransferFunction{Zeros: make([]complex128, order), Poles: poles, Gain: 1}, nil
	default:
		return TransferFunction{}, fmt.Errorf("%w: %v", ErrInvalidFilter, kind)
	}
}

// FromCoefficients converts the rational function b(s)/a(s), coefficients
// highest power first, into zero-pole-gain form.
func FromCoefficients(b, a []float64) (TransferFunction, error) {
	zeros, err := polyroot.Roots(b)
	if err != nil {
		return TransferFunction{}, fmt.Errorf("%w: numerator: %w", ErrInvalidFilter, err)
	}

	poles, err := polyroot.Roots(a)
	if err != nil {
		return TransferFunction{}, fmt.Errorf("%w: denominator: %w", ErrInvalidFilter, err)
	}

	lead := func(c []float64) float64 {
		return c[slices.IndexFunc(c, func(v float64) bool { return v != 0 })]
	}

	return New(zeros, poles, lead(b)/lead(a))
}
