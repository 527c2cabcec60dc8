package window

import (
	"errors"
	"math"
	"testing"
)

func TestGenerateAllTypesFinite(t *testing.T) {
	for _, typ := range Types() {
		t.Run(typ.String(), func(t *testing.T) {
			for _, opts := range [][]Option{nil, {WithPeriodic()}} {
				w := Generate(typ, 64, opts...)
				if len(w) != 64 {
					t.Fatalf("len=%d, want 64", len(w))
				}

				for i, v := range w {
					if math.IsNaN(v) || math.IsInf(v, 0) || v < -1e-3 || v > 1+1e-6 {
						t.Fatalf("coefficient[%d]=%v out of range", i, v)
					}
				}
			}
		})
	}
}

func TestSymmetricWindowsAreSymmetric(t *testing.T) {
	for _, typ := range Types() {
		w := Generate(typ, 33)
		for i := range w {
			if math.Abs(w[i]-w[len(w)-1-i]) > 1e-12 {
				t.Fatalf("%v: w[%d]=%v w[%d]=%v", typ, i, w[i], len(w)-1-i, w[len(w)-1-i])
			}
		}
	}
}

func TestPeriodicHann(t *testing.T) {
	w := Generate(TypeHann, 4, WithPeriodic())
	want := []float64{0, 0.5, 1, 0.5}

	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Fatalf("w[%d]=%v want=%v", i, w[i], want[i])
		}
	}
}

func TestPeriodicIsTruncatedSymmetric(t *testing.T) {
	per := Generate(TypeBlackman, 16, WithPeriodic())
	sym := Generate(TypeBlackman, 17)

	for i := range per {
		if math.Abs(per[i]-sym[i]) > 1e-12 {
			t.Fatalf("index %d: periodic=%v symmetric=%v", i, per[i], sym[i])
		}
	}
}

func TestSingleSampleWindowIsUnity(t *testing.T) {
	for _, typ := range []Type{TypeHann, TypeBlackman, TypeKaiser, TypeTriangle} {
		if w := Generate(typ, 1); math.Abs(w[0]-1) > 1e-12 {
			t.Fatalf("%v: w=%v want [1]", typ, w)
		}
	}
}

func TestTukeyLimits(t *testing.T) {
	rect := Generate(TypeTukey, 32, WithAlpha(0))
	for i, v := range rect {
		if v != 1 {
			t.Fatalf("tukey(0)[%d]=%v want 1", i, v)
		}
	}

	hann := Generate(TypeHann, 32)
	full := Generate(TypeTukey, 32, WithAlpha(1))

	for i := range hann {
		if math.Abs(hann[i]-full[i]) > 1e-12 {
			t.Fatalf("tukey(1)[%d]=%v hann=%v", i, full[i], hann[i])
		}
	}
}

func TestKaiserPeakIsOne(t *testing.T) {
	w := Generate(TypeKaiser, 65, WithAlpha(14))
	if math.Abs(w[32]-1) > 1e-12 {
		t.Fatalf("kaiser centre=%v want 1", w[32])
	}

	if w[0] > 1e-4 {
		t.Fatalf("kaiser edge=%v too large for beta=14", w[0])
	}
}

func TestBesselI0(t *testing.T) {
	tests := []struct{ x, want float64 }{
		{0, 1},
		{1, 1.2660658777520082},
		{5, 27.239871823604442},
		{10, 2815.716628466254},
	}

	for _, tc := range tests {
		if got := besselI0(tc.x); math.Abs(got-tc.want) > 1e-12*tc.want {
			t.Fatalf("I0(%v)=%v want=%v", tc.x, got, tc.want)
		}
	}
}

func TestPowerAndENBW(t *testing.T) {
	w := Generate(TypeHann, 4096, WithPeriodic())

	if got := Power(w); math.Abs(got-0.375*4096) > 1e-9 {
		t.Fatalf("Power=%v want=%v", got, 0.375*4096)
	}

	enbw, err := EquivalentNoiseBandwidth(w)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(enbw-Info(TypeHann).ENBW) > 1e-9 {
		t.Fatalf("ENBW=%v want=1.5", enbw)
	}

	if _, err := EquivalentNoiseBandwidth(nil); !errors.Is(err, errEmptyCoeffs) {
		t.Fatalf("err=%v", err)
	}
}

func TestParse(t *testing.T) {
	tests := map[string]Type{
		"hann":            TypeHann,
		"Hanning":         TypeHann,
		"boxcar":          TypeRectangular,
		"blackman-harris": TypeBlackmanHarris4Term,
		"flat_top":        TypeFlatTop,
		"Bartlett":        TypeTriangle,
		"gaussian":        TypeGauss,
	}

	for name, want := range tests {
		got, err := Parse(name)
		if err != nil || got != want {
			t.Fatalf("Parse(%q)=%v,%v want %v", name, got, err, want)
		}
	}

	if _, err := Parse("chebwin"); !errors.Is(err, errUnknownWindow) {
		t.Fatalf("err=%v want errUnknownWindow", err)
	}
}

func TestApplyCoefficientsInPlace(t *testing.T) {
	buf := []float64{2, 2, 2}
	if err := ApplyCoefficientsInPlace(buf, []float64{0, 0.5, 1}); err != nil {
		t.Fatal(err)
	}

	if buf[0] != 0 || buf[1] != 1 || buf[2] != 2 {
		t.Fatalf("buf=%v", buf)
	}

	if err := ApplyCoefficientsInPlace(buf, []float64{1}); !errors.Is(err, errMismatchedLength) {
		t.Fatalf("err=%v", err)
	}
}
