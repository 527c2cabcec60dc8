package state

import (
	"errors"
	"math"
	"testing"

	"github.com/duncanmmacleod/gwpy-laac/segments"
	"github.com/duncanmmacleod/gwpy-laac/timeseries"
)

func series(t *testing.T, epoch, dt float64, samples ...float64) timeseries.Series {
	t.Helper()

	s, err := timeseries.New("H1:GRD-ISC_LOCK_STATE_N", epoch, dt, samples)
	if err != nil {
		t.Fatal(err)
	}

	return s
}

func requireIntervals(t *testing.T, got segments.IntervalSet, want ...segments.Interval) {
	t.Helper()

	if !got.Equal(segments.MustIntervalSet(want...)) {
		t.Fatalf("got %v, want %v", got, segments.MustIntervalSet(want...))
	}
}

func TestExtractRuns(t *testing.T) {
	s := series(t, 0, 1, 1, 1, 2, 2, 1)

	f, err := Extract("LOCKED", s, Equal(2))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	requireIntervals(t, f.Known(), segments.Interval{Start: 0, End: 5})
	requireIntervals(t, f.Active(), segments.Interval{Start: 2, End: 4})

	if f.Name != "LOCKED" {
		t.Fatalf("Name=%q", f.Name)
	}
}

func TestExtractRunOpenAtEnd(t *testing.T) {
	s := series(t, 100, 0.5, 600, 600, 0, 600, 600, 600)

	f, err := Extract("NLN", s, Compare(GreaterEqual, 600))
	if err != nil {
		t.Fatal(err)
	}

	requireIntervals(t, f.Active(),
		segments.Interval{Start: 100, End: 101},
		segments.Interval{Start: 101.5, End: 103})
}

func TestExtractConstantTrueRoundTrip(t *testing.T) {
	s := series(t, 0, 1, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7)

	f, err := Extract("ALL", s, Equal(7))
	if err != nil {
		t.Fatal(err)
	}

	want := segments.MustIntervalSet(segments.Interval{Start: 0, End: 10})
	if !f.Active().Equal(want) || !f.Known().Equal(want) {
		t.Fatalf("flag=%v", f)
	}

	none, err := Extract("NONE", s, Equal(0))
	if err != nil {
		t.Fatal(err)
	}

	if !none.Active().IsEmpty() || !none.Known().Equal(want) {
		t.Fatalf("flag=%v", none)
	}
}

func TestExtractEmptySeries(t *testing.T) {
	s := series(t, 0, 1)

	if _, err := Extract("X", s, Equal(1)); !errors.Is(err, timeseries.ErrEmptySeries) {
		t.Fatalf("err=%v want ErrEmptySeries", err)
	}

	if _, err := Extract("X", series(t, 0, 1, 1), nil); !errors.Is(err, ErrNilPredicate) {
		t.Fatalf("err=%v want ErrNilPredicate", err)
	}
}

func TestExtractNonFinite(t *testing.T) {
	s := series(t, 0, 1, 1, 1, math.NaN(), math.NaN(), 1, 0)

	if _, err := Extract("X", s, Equal(1)); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("default err=%v want ErrNonFinite", err)
	}

	f, err := Extract("X", s, Equal(1), WithNonFinite(NonFiniteFalse))
	if err != nil {
		t.Fatal(err)
	}

	requireIntervals(t, f.Known(), segments.Interval{Start: 0, End: 6})
	requireIntervals(t, f.Active(),
		segments.Interval{Start: 0, End: 2},
		segments.Interval{Start: 4, End: 5})

	f, err = Extract("X", s, Equal(1), WithNonFinite(NonFiniteUnknown))
	if err != nil {
		t.Fatal(err)
	}

	requireIntervals(t, f.Known(),
		segments.Interval{Start: 0, End: 2},
		segments.Interval{Start: 4, End: 6})
	requireIntervals(t, f.Active(),
		segments.Interval{Start: 0, End: 2},
		segments.Interval{Start: 4, End: 5})
}

func TestExtractMinSamples(t *testing.T) {
	s := series(t, 0, 1, 1, 0, 1, 1, 1, 0, 1, 1)

	f, err := Extract("X", s, Equal(1), WithMinSamples(2))
	if err != nil {
		t.Fatal(err)
	}

	requireIntervals(t, f.Active(),
		segments.Interval{Start: 2, End: 5},
		segments.Interval{Start: 6, End: 8})
}

func TestExtractAllKeepsOrder(t *testing.T) {
	s := series(t, 0, 1, 2, 2, 500, 500, 500, 2, 600)

	e := NewExtractor(WithWorkers(2))

	flags, err := e.ExtractAll(s, []Definition{
		{Name: "LOCKED", Predicate: Compare(GreaterEqual, 500)},
		{Name: "DOWN", Predicate: Equal(2)},
		{Name: "ANY", Predicate: In(500, 600)},
	})
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}

	if len(flags) != 3 || flags[0].Name != "LOCKED" || flags[2].Name != "ANY" {
		t.Fatalf("flags=%v", flags)
	}

	requireIntervals(t, flags[0].Active(),
		segments.Interval{Start: 2, End: 5},
		segments.Interval{Start: 6, End: 7})
	requireIntervals(t, flags[1].Active(),
		segments.Interval{Start: 0, End: 2},
		segments.Interval{Start: 5, End: 6})

	if !flags[2].Equal(flags[0]) {
		t.Fatalf("ANY=%v want %v", flags[2], flags[0])
	}
}

func TestLockLossesEndingLocks(t *testing.T) {
	// guardian codes: 2 = lock loss, 500 = DC readout
	s := series(t, 0, 1, 500, 500, 2, 10, 10, 2, 500, 500, 500, 2)

	dc, err := Extract("DC_READOUT", s, Equal(500))
	if err != nil {
		t.Fatal(err)
	}

	loss, err := Extract("LOCKLOSS", s, Equal(2))
	if err != nil {
		t.Fatal(err)
	}

	got := segments.Coincident(loss.Active().Starts(), dc.Active().Ends(), 0)
	if len(got) != 2 || got[0] != 2 || got[1] != 9 {
		t.Fatalf("lock losses ending a lock=%v want [2 9]", got)
	}
}
