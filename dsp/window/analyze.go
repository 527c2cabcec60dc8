package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Analysis holds numerically computed properties of a coefficient set.
type Analysis struct {
	// CoherentGain is sum(w)/N, the window's DC response.
	CoherentGain float64
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// Bandwidth3dB is the two-sided half-power main-lobe width in bins.
	Bandwidth3dB float64
	// ScallopLossdB is the response at half a bin offset relative to DC.
	ScallopLossdB float64
	// PowerGain is sum(w^2)/N, the factor by which the window lowers the
	// power of white noise.
	PowerGain float64
}

// Analyze evaluates the window's response by direct DFT.
func Analyze(coeffs []float64) Analysis {
	n := len(coeffs)
	if n == 0 {
		return Analysis{}
	}

	dc := responseAt(coeffs, 0)
	if dc == 0 {
		return Analysis{}
	}

	nf := float64(n)
	sum := vecmath.Sum(coeffs)
	power := Power(coeffs)

	return Analysis{
		CoherentGain:  sum / nf,
		ENBW:          nf * power / (sum * sum),
		Bandwidth3dB:  2 * halfPowerFrequency(coeffs, dc) * nf,
		ScallopLossdB: 10 * math.Log10(responseAt(coeffs, 0.5/nf)/dc),
		PowerGain:     power / nf,
	}
}

// responseAt returns |W(f)|^2 at normalised frequency f in cycles/sample.
func responseAt(coeffs []float64, f float64) float64 {
	w := 2 * math.Pi * f

	var re, im float64
	for k, c := range coeffs {
		s, co := math.Sincos(w * float64(k))
		re += c * co
		im -= c * s
	}

	return re*re + im*im
}

// halfPowerFrequency bisects for the frequency where the response falls to
// half its DC value.
func halfPowerFrequency(coeffs []float64, dc float64) float64 {
	lo, hi := 0.0, 0.5

	for range 60 {
		mid := (lo + hi) / 2
		if responseAt(coeffs, mid)/dc > 0.5 {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo
}
