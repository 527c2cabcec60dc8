// Package segments implements interval algebra over time segments.
//
// An [Interval] is a half-open span [Start, End) of seconds on an arbitrary
// epoch. An [IntervalSet] is a canonical, sorted list of disjoint,
// non-touching intervals; every set operation returns a new canonical set in
// O(n+m) time and never mutates its operands.
//
// A [Flag] pairs two sets: the known segments, where the state of a
// condition could be determined, and the active segments, where the
// condition held. Active time is always a subset of known time.
package segments
