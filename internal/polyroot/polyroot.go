// Package polyroot finds and expands the roots of real polynomials for the
// filter packages.
package polyroot

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"slices"
)

// ErrDegeneratePolynomial is returned when a polynomial has no leading
// coefficient or the root iteration does not converge.
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

// ConjugateTol is the relative tolerance for conjugate pair matching.
const ConjugateTol = 1e-7

// realSnap is the relative size of an imaginary part below which a root is
// taken to be real.
const realSnap = 1e-9

// Roots returns the roots of the real polynomial
// c[0]*x^n + c[1]*x^(n-1) + ... + c[n]. Leading zero coefficients are
// ignored. Trailing zeros become exact roots at the origin, and roots whose
// imaginary part vanishes to rounding are returned as real. A constant
// polynomial has no roots.
func Roots(c []float64) ([]complex128, error) {
	for i, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: coefficient %d is %v", ErrDegeneratePolynomial, i, v)
		}
	}

	lead := slices.IndexFunc(c, func(v float64) bool { return v != 0 })
	if lead < 0 {
		return nil, ErrDegeneratePolynomial
	}

	c = c[lead:]

	zeros := 0
	for len(c)-zeros > 1 && c[len(c)-1-zeros] == 0 {
		zeros++
	}

	out := make([]complex128, zeros, len(c)-1)
	c = c[:len(c)-zeros]

	if len(c) < 2 {
		return out, nil
	}

	coeff := make([]complex128, len(c))
	for i, v := range c {
		coeff[i] = complex(v, 0)
	}

	roots, err := DurandKerner(coeff)
	if err != nil {
		return nil, err
	}

	var complexRoots []complex128

	for _, r := range roots {
		if math.Abs(imag(r)) <= realSnap*math.Max(1, cmplx.Abs(r)) {
			out = append(out, complex(real(r), 0))
			continue
		}

		complexRoots = append(complexRoots, r)
	}

	// Real coefficients give exact conjugate pairs.
	if pairs, err := PairConjugates(complexRoots); err == nil {
		for _, p := range pairs {
			re := (real(p[0]) + real(p[1])) / 2
			im := (math.Abs(imag(p[0])) + math.Abs(imag(p[1]))) / 2
			out = append(out, complex(re, -im), complex(re, im))
		}
	} else {
		out = append(out, complexRoots...)
	}

	sortRoots(out)

	return out, nil
}

// Expand returns the monic polynomial with the given roots in descending
// power order. The imaginary parts cancel when the roots come in conjugate
// pairs; Expand drops whatever rounding is left of them.
func Expand(roots []complex128) []float64 {
	poly := []complex128{1}

	for _, r := range roots {
		next := make([]complex128, len(poly)+1)
		for i, v := range poly {
			next[i] += v
			next[i+1] -= v * r
		}

		poly = next
	}

	out := make([]float64, len(poly))
	for i, v := range poly {
		out[i] = real(v)
	}

	return out
}

// PairConjugates groups roots into conjugate pairs, matching each root with
// the closest candidate for its conjugate. Real roots pair with another real
// root.
func PairConjugates(roots []complex128) ([][2]complex128, error) {
	used := make([]bool, len(roots))
	pairs := make([][2]complex128, 0, len(roots)/2)

	for i, root := range roots {
		if used[i] {
			continue
		}

		conj := cmplx.Conj(root)
		best := -1
		bestDist := math.MaxFloat64

		for j := range roots {
			if i == j || used[j] {
				continue
			}

			if d := cmplx.Abs(roots[j] - conj); d < bestDist {
				bestDist = d
				best = j
			}
		}

		if best == -1 || !IsConjugate(root, roots[best], ConjugateTol) {
			return nil, ErrDegeneratePolynomial
		}

		used[i] = true
		used[best] = true
		pairs = append(pairs, [2]complex128{root, roots[best]})
	}

	return pairs, nil
}

// IsConjugate checks whether a and b are complex conjugates within tolerance.
func IsConjugate(a, b complex128, tol float64) bool {
	if math.Abs(real(a)-real(b)) > tol*math.Max(1, math.Abs(real(a))) {
		return false
	}

	return math.Abs(imag(a)+imag(b)) <= tol*math.Max(1, math.Abs(imag(a)))
}

// IsConjugateSet reports whether every complex root has a matching conjugate
// in roots, so that the polynomial they expand to is real.
func IsConjugateSet(roots []complex128) bool {
	var complexRoots []complex128

	for _, r := range roots {
		if imag(r) != 0 {
			complexRoots = append(complexRoots, r)
		}
	}

	if len(complexRoots)%2 != 0 {
		return false
	}

	_, err := PairConjugates(complexRoots)

	return err == nil
}

// DurandKerner finds all roots of a polynomial using the Durand-Kerner
// (Weierstrass) simultaneous iteration. Coefficients are in descending power
// order: coeff[0]*z^n + coeff[1]*z^(n-1) + ... + coeff[n].
//
//nolint:cyclop
func DurandKerner(coeff []complex128) ([]complex128, error) {
	if len(coeff) < 2 || coeff[0] == 0 {
		return nil, ErrDegeneratePolynomial
	}

	n := len(coeff) - 1

	norm := make([]complex128, len(coeff))
	for i := range coeff {
		norm[i] = coeff[i] / coeff[0]
	}

	// Cauchy bound on the root magnitudes.
	radius := 1.0
	for _, v := range norm[1:] {
		radius = math.Max(radius, cmplx.Abs(v))
	}

	roots := make([]complex128, n)
	for i := range n {
		angle := 2*math.Pi*float64(i)/float64(n) + 0.4
		r := radius * (1 + 0.1*float64(i)/float64(n))
		roots[i] = cmplx.Rect(r, angle)
	}

	const (
		maxIter = 1000
		tol     = 1e-14
	)

	for range maxIter {
		maxDelta := 0.0

		for i := range n {
			den := complex(1, 0)

			for j := range n {
				if i != j {
					den *= roots[i] - roots[j]
				}
			}

			if den == 0 {
				roots[i] += complex(1e-10, 1e-10)
				continue
			}

			delta := PolyEval(norm, roots[i]) / den
			roots[i] -= delta

			maxDelta = math.Max(maxDelta, cmplx.Abs(delta)/math.Max(1, cmplx.Abs(roots[i])))
		}

		if maxDelta < tol {
			return roots, nil
		}
	}

	for _, r := range roots {
		if cmplx.Abs(PolyEval(norm, r)) > 1e-6*math.Max(1, math.Pow(cmplx.Abs(r), float64(n))) {
			return nil, ErrDegeneratePolynomial
		}
	}

	return roots, nil
}

// PolyEval evaluates a polynomial at x using Horner's method. Coefficients
// are in descending power order.
func PolyEval(coeff []complex128, x complex128) complex128 {
	v := coeff[0]
	for _, c := range coeff[1:] {
		v = v*x + c
	}

	return v
}

// sortRoots orders roots by real part, then imaginary part.
func sortRoots(roots []complex128) {
	slices.SortFunc(roots, func(a, b complex128) int {
		if real(a) != real(b) {
			if real(a) < real(b) {
				return -1
			}

			return 1
		}

		switch {
		case imag(a) < imag(b):
			return -1
		case imag(a) > imag(b):
			return 1
		}

		return 0
	})
}
