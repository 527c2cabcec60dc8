package segments

import (
	"fmt"
	"math"
)

// Interval is the half-open span [Start, End) in seconds.
type Interval struct {
	Start float64
	End   float64
}

// NewInterval returns [start, end). Both bounds must be finite and end must
// be strictly greater than start.
func NewInterval(start, end float64) (Interval, error) {
	if !isFinite(start) || !isFinite(end) {
		return Interval{}, fmt.Errorf("%w: [%v, %v)", ErrInvalidBounds, start, end)
	}

	if end <= start {
		return Interval{}, fmt.Errorf("%w: [%v, %v)", ErrEmptyInterval, start, end)
	}

	return Interval{Start: start, End: end}, nil
}

// Duration returns End - Start.
func (iv Interval) Duration() float64 { return iv.End - iv.Start }

// Contains reports whether t lies in [Start, End).
func (iv Interval) Contains(t float64) bool { return t >= iv.Start && t < iv.End }

// Covers reports whether o lies entirely inside iv.
func (iv Interval) Covers(o Interval) bool { return o.Start >= iv.Start && o.End <= iv.End }

// Overlaps reports whether iv and o share positive-length time.
func (iv Interval) Overlaps(o Interval) bool { return iv.Start < o.End && o.Start < iv.End }

func (iv Interval) String() string {
	return fmt.Sprintf("[%g, %g)", iv.Start, iv.End)
}

func (iv Interval) validate() error {
	_, err := NewInterval(iv.Start, iv.End)
	return err
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
