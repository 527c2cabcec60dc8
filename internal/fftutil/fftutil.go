// Package fftutil provides the real-input DFT used by the spectral packages.
//
// Power-of-two lengths run on algo-fft plans; every other length runs on the
// gonum mixed-radix FFT. Plans are cached per length and pooled so that
// concurrent callers never share one.
package fftutil

import (
	"fmt"
	"math/cmplx"
	"sync"

	algofft "github.com/cwbudde/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

var (
	poolMu sync.Mutex
	pools  = map[poolKey]*sync.Pool{}
)

type poolKey struct {
	n     int
	gonum bool
}

func pool(n int, gonum bool) *sync.Pool {
	poolMu.Lock()
	defer poolMu.Unlock()

	key := poolKey{n: n, gonum: gonum}

	p, ok := pools[key]
	if !ok {
		p = &sync.Pool{}
		pools[key] = p
	}

	return p
}

// minPlanSize is the smallest length handed to algo-fft.
const minPlanSize = 8

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }

func usePlan(n int) bool { return n >= minPlanSize && IsPowerOfTwo(n) }

// Bins returns the number of non-negative-frequency coefficients of an
// n-point real DFT.
func Bins(n int) int { return n/2 + 1 }

// RealForward returns the n/2+1 non-negative-frequency coefficients of the
// unnormalised DFT of x.
func RealForward(x []float64) ([]complex128, error) {
	n := len(x)
	if n == 0 {
		return nil, fmt.Errorf("fftutil: forward transform of empty input")
	}

	if n == 1 {
		return []complex128{complex(x[0], 0)}, nil
	}

	if !usePlan(n) {
		return gonumForward(x), nil
	}

	full, err := planForward(toComplex(x))
	if err != nil {
		return nil, err
	}

	return full[:Bins(n)], nil
}

// RealInverse returns the n real samples whose non-negative-frequency DFT
// coefficients are coeffs, scaled by 1/n so that
// RealInverse(RealForward(x), len(x)) reproduces x.
func RealInverse(coeffs []complex128, n int) ([]float64, error) {
	if n <= 0 || len(coeffs) != Bins(n) {
		return nil, fmt.Errorf("fftutil: %d coefficients for a %d-point inverse", len(coeffs), n)
	}

	if n == 1 {
		return []float64{real(coeffs[0])}, nil
	}

	if !usePlan(n) {
		return gonumInverse(coeffs, n), nil
	}

	// Rebuild the Hermitian spectrum, conjugated, and transform forward:
	// x = conj(DFT(conj(X))) / n. DC and Nyquist carry no imaginary part.
	full := make([]complex128, n)
	full[0] = complex(real(coeffs[0]), 0)
	full[n/2] = complex(real(coeffs[n/2]), 0)

	for k := 1; k < n/2; k++ {
		full[k] = cmplx.Conj(coeffs[k])
		full[n-k] = coeffs[k]
	}

	seq, err := planForward(full)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	scale := 1 / float64(n)

	for i, v := range seq {
		out[i] = real(v) * scale
	}

	return out, nil
}

func planForward(in []complex128) ([]complex128, error) {
	n := len(in)
	p := pool(n, false)

	plan, _ := p.Get().(*algofft.Plan[complex128])
	if plan == nil {
		var err error

		plan, err = algofft.NewPlan64(n)
		if err != nil {
			return nil, fmt.Errorf("fftutil: plan for %d points: %w", n, err)
		}
	}
	defer p.Put(plan)

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("fftutil: forward transform: %w", err)
	}

	return out, nil
}

func gonumPlan(n int) (*fourier.FFT, *sync.Pool) {
	p := pool(n, true)

	plan, _ := p.Get().(*fourier.FFT)
	if plan == nil {
		plan = fourier.NewFFT(n)
	}

	return plan, p
}

func gonumForward(x []float64) []complex128 {
	plan, p := gonumPlan(len(x))
	defer p.Put(plan)

	return plan.Coefficients(nil, x)
}

func gonumInverse(coeffs []complex128, n int) []float64 {
	plan, p := gonumPlan(n)
	defer p.Put(plan)

	out := plan.Sequence(nil, coeffs)
	scale := 1 / float64(n)

	for i := range out {
		out[i] *= scale
	}

	return out
}

func toComplex(x []float64) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = complex(v, 0)
	}

	return out
}
