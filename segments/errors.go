package segments

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInterval is returned when an interval's end does not follow its start.
	ErrEmptyInterval = errors.New("segments: empty interval")
	// ErrInvalidBounds is returned for non-finite interval bounds, unsorted
	// input to FromSorted, and inversion bounds that do not enclose a set.
	ErrInvalidBounds = errors.New("segments: invalid bounds")
	// ErrActiveOutsideKnown is returned by NewFlag when active time is not
	// contained in known time.
	ErrActiveOutsideKnown = fmt.Errorf("%w: active segments outside known segments", ErrInvalidBounds)
)
