package timeseries

import (
	"errors"
	"math"
	"testing"

	"github.com/duncanmmacleod/gwpy-laac/segments"
)

func TestNewValidatesSampling(t *testing.T) {
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := New("X", 0, dt, nil); !errors.Is(err, ErrInvalidSampling) {
			t.Fatalf("dt=%v err=%v want ErrInvalidSampling", dt, err)
		}
	}

	if _, err := New("X", math.NaN(), 1, nil); !errors.Is(err, ErrInvalidSampling) {
		t.Fatalf("NaN epoch err=%v", err)
	}

	if _, err := FromSampleRate("X", 0, 0, nil); !errors.Is(err, ErrInvalidSampling) {
		t.Fatalf("zero rate err=%v", err)
	}
}

func TestNewCopiesSamples(t *testing.T) {
	in := []float64{1, 2, 3}

	s, err := New("X", 10, 0.5, in)
	if err != nil {
		t.Fatal(err)
	}

	in[0] = 99
	if s.At(0) != 1 {
		t.Fatal("series shares its input slice")
	}

	out := s.Samples()
	out[1] = 99

	if s.At(1) != 2 {
		t.Fatal("series shares its output slice")
	}
}

func TestSeriesGeometry(t *testing.T) {
	s, err := FromSampleRate("L1:GDS-CALIB_STRAIN", 1000, 16, make([]float64, 64))
	if err != nil {
		t.Fatal(err)
	}

	if s.Dt != 1.0/16 || s.Duration() != 4 || s.End() != 1004 {
		t.Fatalf("Dt=%v Duration=%v End=%v", s.Dt, s.Duration(), s.End())
	}

	span, err := s.Span()
	if err != nil || span != (segments.Interval{Start: 1000, End: 1004}) {
		t.Fatalf("Span=%v err=%v", span, err)
	}

	if s.TimeAt(8) != 1000.5 {
		t.Fatalf("TimeAt(8)=%v", s.TimeAt(8))
	}

	empty, _ := New("E", 0, 1, nil)
	if _, err := empty.Span(); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("empty span err=%v", err)
	}
}

func TestIndex(t *testing.T) {
	s, _ := New("X", 100, 0.25, make([]float64, 8))

	tests := []struct {
		t    float64
		want int
	}{
		{50, 0},
		{100, 0},
		{100.1, 1},
		{100.25, 1},
		{101, 4},
		{101.9, 8},
		{200, 8},
	}

	for _, tc := range tests {
		if got := s.Index(tc.t); got != tc.want {
			t.Fatalf("Index(%v)=%d want=%d", tc.t, got, tc.want)
		}
	}
}

func TestCrop(t *testing.T) {
	s, _ := New("X", 0, 1, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	got, err := s.Crop(segments.Interval{Start: 2, End: 5})
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}

	if got.Epoch != 2 || got.Len() != 3 || got.At(0) != 2 || got.At(2) != 4 {
		t.Fatalf("Crop=%v samples=%v", got, got.Samples())
	}

	// partial overlap clips to the series
	got, err = s.Crop(segments.Interval{Start: 8, End: 20})
	if err != nil || got.Len() != 2 {
		t.Fatalf("clipped crop len=%d err=%v", got.Len(), err)
	}

	if _, err := s.Crop(segments.Interval{Start: 20, End: 30}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err=%v want ErrOutOfRange", err)
	}
}

func TestMeanAndFinite(t *testing.T) {
	s, _ := New("X", 0, 1, []float64{1, 2, 3, 6})

	m, err := s.Mean()
	if err != nil || m != 3 {
		t.Fatalf("Mean=%v err=%v", m, err)
	}

	if err := s.CheckFinite(); err != nil {
		t.Fatalf("CheckFinite: %v", err)
	}

	bad := s.WithSamples([]float64{1, math.Inf(-1)})
	if err := bad.CheckFinite(); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("err=%v want ErrNonFinite", err)
	}
}
