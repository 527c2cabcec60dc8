package spectrum

import "errors"

var (
	// ErrInsufficientData is returned when a series is shorter than one
	// segment, or shorter than one bin for a spectrogram.
	ErrInsufficientData = errors.New("spectrum: insufficient data")
	// ErrInvalidConfig is returned for segment lengths, overlaps, strides,
	// exponents or window parameters that cannot produce an estimate.
	ErrInvalidConfig = errors.New("spectrum: invalid configuration")
	// ErrNonFinite is returned when the input series holds NaN or Inf.
	ErrNonFinite = errors.New("spectrum: non-finite input")
	// ErrEmptyBand is returned when a frequency band selects no bins.
	ErrEmptyBand = errors.New("spectrum: empty frequency band")
	// ErrMismatchedLength is returned when a per-bin slice does not match
	// the number of frequency bins.
	ErrMismatchedLength = errors.New("spectrum: length mismatch")
)
