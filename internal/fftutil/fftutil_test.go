package fftutil

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/duncanmmacleod/gwpy-laac/internal/testutil"
)

func naiveDFT(x []float64) []complex128 {
	n := len(x)
	out := make([]complex128, Bins(n))

	for k := range out {
		var sum complex128
		for m, v := range x {
			phase := -2 * math.Pi * float64(k*m) / float64(n)
			sum += complex(v, 0) * cmplx.Exp(complex(0, phase))
		}

		out[k] = sum
	}

	return out
}

func TestRealForwardMatchesNaiveDFT(t *testing.T) {
	for _, n := range []int{1, 2, 8, 12, 64, 100} {
		x := testutil.DeterministicNoise(int64(n), 1, n)

		got, err := RealForward(x)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}

		want := naiveDFT(x)
		if len(got) != len(want) {
			t.Fatalf("n=%d: len=%d want=%d", n, len(got), len(want))
		}

		for k := range want {
			if cmplx.Abs(got[k]-want[k]) > 1e-9 {
				t.Fatalf("n=%d bin %d: got %v want %v", n, k, got[k], want[k])
			}
		}
	}
}

func TestRealInverseRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 16, 30, 256, 243} {
		x := testutil.DeterministicNoise(int64(100+n), 2, n)

		coeffs, err := RealForward(x)
		if err != nil {
			t.Fatal(err)
		}

		got, err := RealInverse(coeffs, n)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}

		testutil.RequireSliceNearlyEqual(t, got, x, 1e-10)
	}
}

func TestRealInverseLengthMismatch(t *testing.T) {
	if _, err := RealInverse(make([]complex128, 3), 8); err == nil {
		t.Fatal("expected error for coefficient count mismatch")
	}

	if _, err := RealForward(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestConcurrentPlans(t *testing.T) {
	x := testutil.DeterministicSine(5, 64, 1, 64)
	want, err := RealForward(x)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan []complex128)
	for range 8 {
		go func() {
			got, _ := RealForward(x)
			done <- got
		}()
	}

	for range 8 {
		got := <-done
		for k := range want {
			if got[k] != want[k] {
				t.Fatalf("bin %d differs across goroutines", k)
			}
		}
	}
}
