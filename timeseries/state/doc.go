// Package state converts sampled state channels into segment flags.
//
// A state channel carries integer-valued codes (lock states, guardian
// states, state-vector bit masks). An [Extractor] evaluates a [Predicate] on
// every sample and run-length encodes the samples where it holds into the
// active segments of a [segments.Flag]; the known segments are the span of
// the series.
package state
