package segments

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// IntervalSet is a sorted list of disjoint, non-touching intervals.
//
// The zero value is the empty set. Sets are immutable: every operation
// returns a new set and the backing slice is never exposed.
type IntervalSet struct {
	intervals []Interval
}

// NewIntervalSet coalesces the given intervals into a canonical set.
func NewIntervalSet(intervals ...Interval) (IntervalSet, error) {
	return Coalesce(intervals)
}

// MustIntervalSet is like NewIntervalSet but panics on invalid input.
// It is intended for literals in tests and examples.
func MustIntervalSet(intervals ...Interval) IntervalSet {
	s, err := Coalesce(intervals)
	if err != nil {
		panic(err)
	}

	return s
}

// Coalesce sorts the intervals by start and merges any that overlap or
// touch. The input slice is not modified.
func Coalesce(intervals []Interval) (IntervalSet, error) {
	if len(intervals) == 0 {
		return IntervalSet{}, nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)

	for i, iv := range sorted {
		if err := iv.validate(); err != nil {
			return IntervalSet{}, fmt.Errorf("interval %d: %w", i, err)
		}
	}

	slices.SortFunc(sorted, func(a, b Interval) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})

	return IntervalSet{intervals: merge(sorted)}, nil
}

// FromSorted builds a set from intervals already ordered by start time,
// merging neighbours that overlap or touch. It fails with ErrInvalidBounds
// when the input is not sorted.
func FromSorted(intervals []Interval) (IntervalSet, error) {
	if len(intervals) == 0 {
		return IntervalSet{}, nil
	}

	owned := make([]Interval, len(intervals))
	copy(owned, intervals)

	for i, iv := range owned {
		if err := iv.validate(); err != nil {
			return IntervalSet{}, fmt.Errorf("interval %d: %w", i, err)
		}

		if i > 0 && iv.Start < owned[i-1].Start {
			return IntervalSet{}, fmt.Errorf("%w: interval %d starts before its predecessor", ErrInvalidBounds, i)
		}
	}

	return IntervalSet{intervals: merge(owned)}, nil
}

// merge collapses overlapping or touching neighbours of a start-sorted slice
// in place and returns the shortened slice.
func merge(sorted []Interval) []Interval {
	out := sorted[:1]

	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}

			continue
		}

		out = append(out, iv)
	}

	return out
}

// Len returns the number of intervals in the set.
func (s IntervalSet) Len() int { return len(s.intervals) }

// IsEmpty reports whether the set holds no time.
func (s IntervalSet) IsEmpty() bool { return len(s.intervals) == 0 }

// At returns the i-th interval in time order.
func (s IntervalSet) At(i int) Interval { return s.intervals[i] }

// Intervals returns a copy of the canonical interval list.
func (s IntervalSet) Intervals() []Interval {
	return slices.Clone(s.intervals)
}

// Span returns the smallest interval enclosing the set. The boolean is
// false for the empty set.
func (s IntervalSet) Span() (Interval, bool) {
	if len(s.intervals) == 0 {
		return Interval{}, false
	}

	return Interval{Start: s.intervals[0].Start, End: s.intervals[len(s.intervals)-1].End}, true
}

// Duration returns the total time covered by the set.
func (s IntervalSet) Duration() float64 {
	total := 0.0
	for _, iv := range s.intervals {
		total += iv.Duration()
	}

	return total
}

// Union returns the time covered by either set.
func (s IntervalSet) Union(o IntervalSet) IntervalSet {
	a, b := s.intervals, o.intervals

	switch {
	case len(a) == 0:
		return o
	case len(b) == 0:
		return s
	}

	merged := make([]Interval, 0, len(a)+len(b))
	i, j := 0, 0

	for i < len(a) && j < len(b) {
		if a[i].Start <= b[j].Start {
			merged = append(merged, a[i])
			i++
		} else {
			merged = append(merged, b[j])
			j++
		}
	}

	merged = append(merged, a[i:]...)
	merged = append(merged, b[j:]...)

	return IntervalSet{intervals: merge(merged)}
}

// Intersect returns the time covered by both sets.
func (s IntervalSet) Intersect(o IntervalSet) IntervalSet {
	a, b := s.intervals, o.intervals

	var out []Interval

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := max(a[i].Start, b[j].Start)
		end := min(a[i].End, b[j].End)

		if end > start {
			out = append(out, Interval{Start: start, End: end})
		}

		if a[i].End < b[j].End {
			i++
		} else {
			j++
		}
	}

	return IntervalSet{intervals: out}
}

// Difference returns the time covered by s but not by o. o may extend
// beyond the span of s.
func (s IntervalSet) Difference(o IntervalSet) IntervalSet {
	a, b := s.intervals, o.intervals
	if len(a) == 0 || len(b) == 0 {
		return s
	}

	var out []Interval

	j := 0
	for _, iv := range a {
		cur := iv.Start

		for j < len(b) && b[j].End <= cur {
			j++
		}

		for k := j; k < len(b) && b[k].Start < iv.End; k++ {
			if b[k].Start > cur {
				out = append(out, Interval{Start: cur, End: b[k].Start})
			}

			cur = max(cur, b[k].End)
			if cur >= iv.End {
				break
			}
		}

		if cur < iv.End {
			out = append(out, Interval{Start: cur, End: iv.End})
		}
	}

	return IntervalSet{intervals: out}
}

// Invert returns the complement of s within bounds. bounds must enclose the
// span of s.
func (s IntervalSet) Invert(bounds Interval) (IntervalSet, error) {
	if err := bounds.validate(); err != nil {
		return IntervalSet{}, err
	}

	if span, ok := s.Span(); ok && !bounds.Covers(span) {
		return IntervalSet{}, fmt.Errorf("%w: %v does not enclose %v", ErrInvalidBounds, bounds, span)
	}

	out := make([]Interval, 0, len(s.intervals)+1)
	cur := bounds.Start

	for _, iv := range s.intervals {
		if iv.Start > cur {
			out = append(out, Interval{Start: cur, End: iv.Start})
		}

		cur = iv.End
	}

	if cur < bounds.End {
		out = append(out, Interval{Start: cur, End: bounds.End})
	}

	return IntervalSet{intervals: out}, nil
}

// Contains reports whether t lies inside one of the intervals, using the
// half-open convention.
func (s IntervalSet) Contains(t float64) bool {
	i := s.search(t)
	return i < len(s.intervals) && s.intervals[i].Start <= t
}

// Covers reports whether iv lies entirely inside a single interval of s.
func (s IntervalSet) Covers(iv Interval) bool {
	i := s.search(iv.Start)
	return i < len(s.intervals) && s.intervals[i].Covers(iv)
}

// search returns the index of the first interval ending after t.
func (s IntervalSet) search(t float64) int {
	return sort.Search(len(s.intervals), func(i int) bool {
		return s.intervals[i].End > t
	})
}

// Equal reports whether both sets cover exactly the same time.
func (s IntervalSet) Equal(o IntervalSet) bool {
	return slices.Equal(s.intervals, o.intervals)
}

// Starts returns the start time of every interval.
func (s IntervalSet) Starts() []float64 {
	out := make([]float64, len(s.intervals))
	for i, iv := range s.intervals {
		out[i] = iv.Start
	}

	return out
}

// Ends returns the end time of every interval.
func (s IntervalSet) Ends() []float64 {
	out := make([]float64, len(s.intervals))
	for i, iv := range s.intervals {
		out[i] = iv.End
	}

	return out
}

// Shift moves every interval by dt seconds.
func (s IntervalSet) Shift(dt float64) IntervalSet {
	if len(s.intervals) == 0 {
		return s
	}

	out := make([]Interval, len(s.intervals))
	for i, iv := range s.intervals {
		out[i] = Interval{Start: iv.Start + dt, End: iv.End + dt}
	}

	return IntervalSet{intervals: out}
}

// Contract shrinks every interval by pad seconds at both ends and drops the
// intervals that vanish. A negative pad protracts.
func (s IntervalSet) Contract(pad float64) IntervalSet {
	if pad < 0 {
		return s.Protract(-pad)
	}

	var out []Interval

	for _, iv := range s.intervals {
		start, end := iv.Start+pad, iv.End-pad
		if end > start {
			out = append(out, Interval{Start: start, End: end})
		}
	}

	return IntervalSet{intervals: out}
}

// Protract grows every interval by pad seconds at both ends and merges the
// intervals that come to overlap. A negative pad contracts.
func (s IntervalSet) Protract(pad float64) IntervalSet {
	if pad < 0 {
		return s.Contract(-pad)
	}

	if len(s.intervals) == 0 {
		return s
	}

	out := make([]Interval, len(s.intervals))
	for i, iv := range s.intervals {
		out[i] = Interval{Start: iv.Start - pad, End: iv.End + pad}
	}

	return IntervalSet{intervals: merge(out)}
}

// MinDuration drops intervals shorter than d seconds.
func (s IntervalSet) MinDuration(d float64) IntervalSet {
	var out []Interval

	for _, iv := range s.intervals {
		if iv.Duration() >= d {
			out = append(out, iv)
		}
	}

	return IntervalSet{intervals: out}
}

func (s IntervalSet) String() string {
	parts := make([]string, len(s.intervals))
	for i, iv := range s.intervals {
		parts[i] = iv.String()
	}

	return "{" + strings.Join(parts, " ") + "}"
}

// Coincident returns, in ascending order, the times that lie within tol
// seconds of one of the edges. Neither input needs to be sorted.
func Coincident(times, edges []float64, tol float64) []float64 {
	if len(times) == 0 || len(edges) == 0 {
		return nil
	}

	ts := slices.Clone(times)
	es := slices.Clone(edges)
	slices.Sort(ts)
	slices.Sort(es)

	var out []float64

	j := 0
	for _, t := range ts {
		for j < len(es) && es[j] < t-tol {
			j++
		}

		if j < len(es) && es[j] <= t+tol {
			out = append(out, t)
		}
	}

	return out
}
