package segments

import "fmt"

// Flag records where a condition was known and where it was active.
//
// The active set is always a subset of the known set. Combining flags
// intersects their known time, so an operator is only evaluated where both
// operands are defined.
type Flag struct {
	Name string

	known  IntervalSet
	active IntervalSet
}

// NewFlag returns a flag over the given known and active sets.
func NewFlag(name string, known, active IntervalSet) (Flag, error) {
	if !active.Difference(known).IsEmpty() {
		return Flag{}, fmt.Errorf("flag %q: %w", name, ErrActiveOutsideKnown)
	}

	return Flag{Name: name, known: known, active: active}, nil
}

// Known returns the segments over which the flag's state is defined.
func (f Flag) Known() IntervalSet { return f.known }

// Active returns the segments over which the flag's condition held.
func (f Flag) Active() IntervalSet { return f.active }

// WithName returns a copy of f carrying a different name.
func (f Flag) WithName(name string) Flag {
	f.Name = name
	return f
}

// And is active where both flags are active, known where both are known.
func (f Flag) And(o Flag) Flag {
	return f.combine(o, "&", IntervalSet.Intersect)
}

// Or is active where either flag is active, known where both are known.
func (f Flag) Or(o Flag) Flag {
	return f.combine(o, "|", IntervalSet.Union)
}

func (f Flag) combine(o Flag, op string, fn func(a, b IntervalSet) IntervalSet) Flag {
	known := f.known.Intersect(o.known)

	return Flag{
		Name:   joinNames(f.Name, op, o.Name),
		known:  known,
		active: fn(f.active, o.active).Intersect(known),
	}
}

// Not is active over the known time inside bounds where f is inactive. The
// known set is unchanged. Bounds must be a valid, non-empty interval.
func (f Flag) Not(bounds Interval) (Flag, error) {
	if err := bounds.validate(); err != nil {
		return Flag{}, fmt.Errorf("not %s: %w", f.Name, err)
	}

	window := IntervalSet{intervals: []Interval{bounds}}

	name := ""
	if f.Name != "" {
		name = "~" + f.Name
	}

	return Flag{
		Name:   name,
		known:  f.known,
		active: window.Intersect(f.known).Difference(f.active),
	}, nil
}

// ContainsActive reports whether t lies in an active segment.
func (f Flag) ContainsActive(t float64) bool { return f.active.Contains(t) }

// ContainsKnown reports whether t lies in a known segment.
func (f Flag) ContainsKnown(t float64) bool { return f.known.Contains(t) }

// Equal reports whether both flags have identical known and active sets.
// Names are ignored.
func (f Flag) Equal(o Flag) bool {
	return f.known.Equal(o.known) && f.active.Equal(o.active)
}

// Duration returns the total active time.
func (f Flag) Duration() float64 { return f.active.Duration() }

// Livetime returns the fraction of known time that is active, or 0 when
// nothing is known.
func (f Flag) Livetime() float64 {
	known := f.known.Duration()
	if known == 0 {
		return 0
	}

	return f.active.Duration() / known
}

// CoverageFraction returns the fraction of bounds covered by known time.
func (f Flag) CoverageFraction(bounds Interval) float64 {
	d := bounds.Duration()
	if !(d > 0) {
		return 0
	}

	window := IntervalSet{intervals: []Interval{bounds}}

	return f.known.Intersect(window).Duration() / d
}

// CheckCoverage computes the coverage fraction of bounds and returns a
// warning when it falls below threshold. The warning never stops
// processing; callers decide whether to report it.
func (f Flag) CheckCoverage(bounds Interval, threshold float64) (float64, *CoverageWarning) {
	frac := f.CoverageFraction(bounds)
	if frac >= threshold {
		return frac, nil
	}

	return frac, &CoverageWarning{
		Flag:      f.Name,
		Bounds:    bounds,
		Fraction:  frac,
		Threshold: threshold,
	}
}

func (f Flag) String() string {
	return fmt.Sprintf("%s known=%v active=%v", f.Name, f.known, f.active)
}

// CoverageWarning reports a flag whose known segments cover less of a
// requested span than expected.
type CoverageWarning struct {
	Flag      string
	Bounds    Interval
	Fraction  float64
	Threshold float64
}

// Error implements error so a warning can be wrapped or joined by callers
// that want to escalate it.
func (w *CoverageWarning) Error() string {
	return fmt.Sprintf("flag %q covers %.1f%% of %v (threshold %.1f%%)",
		w.Flag, 100*w.Fraction, w.Bounds, 100*w.Threshold)
}

func joinNames(a, op, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + op + " " + b
	}
}
