package zpk

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func TestAt(t *testing.T) {
	tf, err := New([]complex128{-1}, []complex128{-2}, 3)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		f    float64
		want complex128
	}{
		{0, 1.5},
		{1, complex(1.8, 0.6)},
	}

	for _, tc := range tests {
		got, err := tf.At(tc.f)
		if err != nil {
			t.Fatalf("At(%v): %v", tc.f, err)
		}

		if cmplx.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("At(%v)=%v want %v", tc.f, got, tc.want)
		}
	}
}

func TestAtSingularities(t *testing.T) {
	poleAtOrigin := TransferFunction{Poles: []complex128{0}, Gain: 1}

	if _, err := poleAtOrigin.At(0); !errors.Is(err, ErrSingular) {
		t.Fatalf("pole at DC: err=%v want ErrSingular", err)
	}

	h, err := poleAtOrigin.At(2)
	if err != nil {
		t.Fatal(err)
	}

	if cmplx.Abs(h-complex(0, -0.5)) > 1e-15 {
		t.Fatalf("H(2)=%v want -0.5j", h)
	}

	cancelled := TransferFunction{Zeros: []complex128{0, -5}, Poles: []complex128{0}, Gain: 2}

	h, err = cancelled.At(0)
	if err != nil {
		t.Fatalf("cancelled root: %v", err)
	}

	if h != 10 {
		t.Fatalf("H(0)=%v want 10", h)
	}

	zeroAtOrigin := TransferFunction{Zeros: []complex128{0}, Gain: 1}
	if h, err := zeroAtOrigin.At(0); err != nil || h != 0 {
		t.Fatalf("zero at DC: H=%v err=%v", h, err)
	}

	if _, err := (TransferFunction{Poles: []complex128{complex(0, 5)}, Gain: 1}).At(5); !errors.Is(err, ErrSingular) {
		t.Fatalf("pole on the axis: err=%v", err)
	}
}

func TestValidate(t *testing.T) {
	bad := []TransferFunction{
		{Gain: math.NaN()},
		{Gain: math.Inf(1)},
		{Zeros: []complex128{cmplx.NaN()}, Gain: 1},
		{Poles: []complex128{cmplx.Inf()}, Gain: 1},
	}

	for _, tf := range bad {
		if err := tf.Validate(); !errors.Is(err, ErrInvalidFilter) {
			t.Fatalf("%v: err=%v want ErrInvalidFilter", tf, err)
		}
	}

	if err := Identity().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestInverseAndCascade(t *testing.T) {
	tf := TransferFunction{
		Zeros: []complex128{-10, complex(-3, 4), complex(-3, -4)},
		Poles: []complex128{-1, -1, -2},
		Gain:  7,
	}

	inv, err := tf.Inverse()
	if err != nil {
		t.Fatal(err)
	}

	both := tf.Cascade(inv)

	for _, f := range []float64{0, 0.3, 4, 150} {
		h, err := both.At(f)
		if err != nil {
			t.Fatalf("At(%v): %v", f, err)
		}

		if cmplx.Abs(h-1) > 1e-12 {
			t.Fatalf("filter cascaded with its inverse: H(%v)=%v", f, h)
		}
	}

	if _, err := (TransferFunction{}).Inverse(); !errors.Is(err, ErrSingular) {
		t.Fatalf("zero gain: err=%v", err)
	}
}

func TestIsReal(t *testing.T) {
	if !Identity().IsReal() {
		t.Fatal("identity should be real")
	}

	paired := TransferFunction{Poles: []complex128{complex(-1, 2), complex(-1, -2), -4}, Gain: 1}
	if !paired.IsReal() {
		t.Fatal("conjugate pair should be real")
	}

	lonely := TransferFunction{Zeros: []complex128{complex(0, 3)}, Gain: 1}
	if lonely.IsReal() {
		t.Fatal("unpaired complex zero should not be real")
	}
}

func TestButterworth(t *testing.T) {
	for order := 1; order <= 8; order++ {
		for _, kind := range []Kind{Lowpass, Highpass} {
			tf, err := Butterworth(kind, order, 10)
			if err != nil {
				t.Fatalf("%v order %d: %v", kind, order, err)
			}

			if len(tf.Poles) != order || !tf.IsReal() {
				t.Fatalf("%v order %d: poles %v", kind, order, tf.Poles)
			}

			for _, p := range tf.Poles {
				if real(p) >= 0 || math.Abs(cmplx.Abs(p)-10) > 1e-12 {
					t.Fatalf("%v order %d: pole %v not on the left half circle", kind, order, p)
				}
			}

			mag, err := tf.Magnitude([]float64{10})
			if err != nil {
				t.Fatal(err)
			}

			if math.Abs(mag[0]-1/math.Sqrt2) > 1e-12 {
				t.Fatalf("%v order %d: |H(fc)|=%v want 1/sqrt(2)", kind, order, mag[0])
			}

			// |H|^2 = 1/(1+(f/fc)^2N) for lowpass, with f/fc inverted for highpass
			ratio := 0.5
			if kind == Highpass {
				ratio = 2
			}

			got, err := tf.Magnitude([]float64{5})
			if err != nil {
				t.Fatal(err)
			}

			want := 1 / math.Sqrt(1+math.Pow(ratio, 2*float64(order)))
			if math.Abs(got[0]-want) > 1e-12 {
				t.Fatalf("%v order %d: |H(fc/2)|=%v want %v", kind, order, got[0], want)
			}
		}
	}
}

func TestButterworthEdges(t *testing.T) {
	lp, _ := Butterworth(Lowpass, 4, 3)

	if h, err := lp.At(0); err != nil || cmplx.Abs(h-1) > 1e-12 {
		t.Fatalf("lowpass DC: H=%v err=%v", h, err)
	}

	hp, _ := Butterworth(Highpass, 4, 3)

	if h, err := hp.At(0); err != nil || h != 0 {
		t.Fatalf("highpass DC: H=%v err=%v", h, err)
	}

	if _, err := Butterworth(Lowpass, 0, 3); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("order 0: err=%v", err)
	}

	if _, err := Butterworth(Highpass, 2, 0); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("zero cutoff: err=%v", err)
	}

	if _, err := Butterworth(Kind(7), 2, 1); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("unknown kind: err=%v", err)
	}
}

func TestCoefficientsRoundTrip(t *testing.T) {
	tf, err := Butterworth(Lowpass, 3, 2)
	if err != nil {
		t.Fatal(err)
	}

	b, a, err := tf.Coefficients()
	if err != nil {
		t.Fatal(err)
	}

	// (s+2)(s^2+2s+4) = s^3 + 4s^2 + 8s + 8
	wantA := []float64{1, 4, 8, 8}
	for i := range wantA {
		if math.Abs(a[i]-wantA[i]) > 1e-12 {
			t.Fatalf("a=%v want %v", a, wantA)
		}
	}

	if len(b) != 1 || math.Abs(b[0]-8) > 1e-12 {
		t.Fatalf("b=%v want [8]", b)
	}

	back, err := FromCoefficients(b, a)
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range []float64{0, 1, 2, 9} {
		h1, _ := tf.At(f)
		h2, err := back.At(f)
		if err != nil {
			t.Fatal(err)
		}

		if cmplx.Abs(h1-h2) > 1e-9 {
			t.Fatalf("H(%v): original %v rebuilt %v", f, h1, h2)
		}
	}

	if _, err := FromCoefficients([]float64{1}, []float64{0, 0}); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("zero denominator: err=%v", err)
	}
}

func TestString(t *testing.T) {
	tf := TransferFunction{Zeros: []complex128{-1}, Poles: []complex128{complex(-1, 2)}, Gain: 0.5}

	if got, want := tf.String(), "zpk(zeros=[-1], poles=[(-1+2i)], gain=0.5)"; got != want {
		t.Fatalf("String()=%q want %q", got, want)
	}
}
