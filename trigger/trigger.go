// Package trigger filters event triggers by the segments they fall in.
package trigger

import (
	"cmp"
	"slices"

	"github.com/duncanmmacleod/gwpy-laac/segments"
)

// Trigger is a transient event reported by a search.
type Trigger struct {
	Time      float64
	Frequency float64
	SNR       float64
}

// Gate keeps the triggers whose time lies inside one of the intervals of
// active. Intervals are half-open: a trigger at an interval's end is
// outside it. Order is preserved.
func Gate(triggers []Trigger, active segments.IntervalSet) []Trigger {
	return slices.DeleteFunc(slices.Clone(triggers), func(tr Trigger) bool {
		return !active.Contains(tr.Time)
	})
}

// GateFlag keeps the triggers that fall in the active segments of f.
func GateFlag(triggers []Trigger, f segments.Flag) []Trigger {
	return Gate(triggers, f.Active())
}

// Veto drops the triggers that fall inside vetoed.
func Veto(triggers []Trigger, vetoed segments.IntervalSet) []Trigger {
	return slices.DeleteFunc(slices.Clone(triggers), func(tr Trigger) bool {
		return vetoed.Contains(tr.Time)
	})
}

// AboveSNR keeps the triggers with SNR of at least threshold.
func AboveSNR(triggers []Trigger, threshold float64) []Trigger {
	return slices.DeleteFunc(slices.Clone(triggers), func(tr Trigger) bool {
		return tr.SNR < threshold
	})
}

// Times returns the time of every trigger.
func Times(triggers []Trigger) []float64 {
	out := make([]float64, len(triggers))
	for i, tr := range triggers {
		out[i] = tr.Time
	}

	return out
}

// SortByTime sorts triggers in place by time, keeping the input order of
// simultaneous triggers.
func SortByTime(triggers []Trigger) {
	slices.SortStableFunc(triggers, func(a, b Trigger) int {
		return cmp.Compare(a.Time, b.Time)
	})
}
