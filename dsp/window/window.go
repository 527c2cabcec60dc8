// Package window generates the tapering windows applied to each block of a
// spectral estimate.
//
// Windows are symmetric by default. Spectral estimators use the periodic
// (DFT-even) form selected with [WithPeriodic].
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris4Term
	TypeFlatTop
	TypeKaiser
	TypeTukey
	TypeTriangle
	TypeCosine
	TypeWelch
	TypeGauss
)

// Types lists every supported window in declaration order.
func Types() []Type {
	return []Type{
		TypeRectangular, TypeHann, TypeHamming, TypeBlackman,
		TypeBlackmanHarris4Term, TypeFlatTop, TypeKaiser, TypeTukey,
		TypeTriangle, TypeCosine, TypeWelch, TypeGauss,
	}
}

// Metadata holds the asymptotic spectral properties of a window type.
type Metadata struct {
	Name string
	// ENBW is the equivalent noise bandwidth in bins. Zero for parametric
	// windows, whose ENBW depends on alpha; use Analyze instead.
	ENBW float64
	// HighestSidelobe is the highest sidelobe level in dB.
	HighestSidelobe float64
	CoherentGain    float64
	// RecommendedOverlap is the block overlap fraction that keeps the
	// variance of an averaged estimate close to its minimum.
	RecommendedOverlap float64
	// DefaultAlpha is the shape parameter used when none is given.
	DefaultAlpha float64
	Parametric   bool
}

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha    float64
	hasAlpha bool
	periodic bool
}

// WithAlpha sets the shape parameter of parametric windows: beta for
// Kaiser, the taper fraction for Tukey, the width factor for Gauss.
// Negative values are ignored.
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 {
			c.alpha = v
			c.hasAlpha = true
		}
	}
}

// WithPeriodic selects the periodic form, whose length-N coefficients are
// the first N of a symmetric window of length N+1.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !cfg.hasAlpha {
		cfg.alpha = Info(t).DefaultAlpha
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic), cfg.alpha)
	}

	return out
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// ApplyCoefficientsInPlace multiplies samples by precomputed coefficients.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// Info returns static metadata for a window type.
func Info(t Type) Metadata {
	if m, ok := metadataByType[t]; ok {
		return m
	}

	return Metadata{}
}

func (t Type) String() string {
	if m, ok := metadataByType[t]; ok {
		return m.Name
	}

	return fmt.Sprintf("Type(%d)", int(t))
}

// Parse maps a window name to its Type. Matching ignores case, spaces,
// dashes and underscores, and accepts common aliases ("hanning", "boxcar",
// "bartlett", "gaussian").
func Parse(name string) (Type, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}

		return r
	}, strings.ToLower(name))

	if t, ok := typeByName[key]; ok {
		return t, nil
	}

	return 0, fmt.Errorf("%w: %q", errUnknownWindow, name)
}

// Power returns the sum of squared coefficients, the normalisation of a
// windowed power spectral density.
func Power(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}

	return vecmath.DotProduct(coeffs, coeffs)
}

// EquivalentNoiseBandwidth returns the ENBW in bins.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := vecmath.Sum(coeffs)
	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return float64(len(coeffs)) * Power(coeffs) / (sum * sum), nil
}

func evalWindow(t Type, x, alpha float64) float64 {
	x = math.Min(1, math.Max(0, x))

	switch t {
	case TypeRectangular:
		return 1
	case TypeHann:
		return cosineSum(x, hannCoeffs)
	case TypeHamming:
		return cosineSum(x, hammingCoeffs)
	case TypeBlackman:
		return cosineSum(x, blackmanCoeffs)
	case TypeBlackmanHarris4Term:
		return cosineSum(x, blackmanHarris4Coeffs)
	case TypeFlatTop:
		return cosineSum(x, flatTopCoeffs)
	case TypeKaiser:
		return kaiserAt(x, alpha)
	case TypeTukey:
		return tukeyAt(x, alpha)
	case TypeTriangle:
		return 1 - math.Abs(2*x-1)
	case TypeCosine:
		return math.Sin(math.Pi * x)
	case TypeWelch:
		d := 2*x - 1
		return 1 - d*d
	case TypeGauss:
		v := (2*x - 1) * alpha
		return math.Exp(-0.5 * v * v)
	default:
		return 1
	}
}

// cosineSum evaluates sum_k c[k] cos(2 pi k x).
func cosineSum(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0.5
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

func kaiserAt(x, beta float64) float64 {
	if beta <= 0 {
		return 1
	}

	r := 2*x - 1

	return besselI0(beta*math.Sqrt(math.Max(0, 1-r*r))) / besselI0(beta)
}

func tukeyAt(x, alpha float64) float64 {
	switch {
	case alpha <= 0:
		return 1
	case alpha >= 1:
		return cosineSum(x, hannCoeffs)
	}

	edge := alpha / 2
	switch {
	case x < edge:
		return 0.5 * (1 - math.Cos(math.Pi*x/edge))
	case x > 1-edge:
		return 0.5 * (1 - math.Cos(math.Pi*(1-x)/edge))
	default:
		return 1
	}
}

// besselI0 evaluates the modified Bessel function I0 by its power series.
func besselI0(x float64) float64 {
	half := x / 2
	term, sum := 1.0, 1.0

	for k := 1; k < 500; k++ {
		term *= half * half / float64(k*k)
		sum += term

		if term < sum*1e-17 {
			break
		}
	}

	return sum
}
