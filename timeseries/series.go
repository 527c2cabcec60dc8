package timeseries

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/duncanmmacleod/gwpy-laac/segments"
)

var (
	// ErrEmptySeries is returned when an operation needs at least one sample.
	ErrEmptySeries = errors.New("timeseries: empty series")
	// ErrInvalidSampling is returned for a non-positive or non-finite sample
	// interval or a non-finite epoch.
	ErrInvalidSampling = errors.New("timeseries: invalid sampling")
	// ErrOutOfRange is returned when a crop selects no samples.
	ErrOutOfRange = errors.New("timeseries: interval outside series")
	// ErrNonFinite is returned when a series holds NaN or Inf samples.
	ErrNonFinite = errors.New("timeseries: non-finite sample")
)

// indexTolerance absorbs rounding when mapping times to sample indices.
const indexTolerance = 1e-9

// Series is a uniformly sampled sequence of values.
type Series struct {
	// Channel names the data source.
	Channel string
	// Epoch is the time of the first sample in seconds.
	Epoch float64
	// Dt is the sample interval in seconds.
	Dt float64

	samples []float64
}

// New returns a series over a copy of samples. An empty sample slice is
// allowed; operations that need data report ErrEmptySeries.
func New(channel string, epoch, dt float64, samples []float64) (Series, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return Series{}, fmt.Errorf("%w: dt=%v", ErrInvalidSampling, dt)
	}

	if math.IsNaN(epoch) || math.IsInf(epoch, 0) {
		return Series{}, fmt.Errorf("%w: epoch=%v", ErrInvalidSampling, epoch)
	}

	return Series{
		Channel: channel,
		Epoch:   epoch,
		Dt:      dt,
		samples: slices.Clone(samples),
	}, nil
}

// FromSampleRate is New with the sampling given in Hz.
func FromSampleRate(channel string, epoch, rate float64, samples []float64) (Series, error) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return Series{}, fmt.Errorf("%w: rate=%v", ErrInvalidSampling, rate)
	}

	return New(channel, epoch, 1/rate, samples)
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.samples) }

// At returns sample i.
func (s Series) At(i int) float64 { return s.samples[i] }

// Samples returns a copy of the sample values.
func (s Series) Samples() []float64 { return slices.Clone(s.samples) }

// SampleRate returns 1/Dt in Hz.
func (s Series) SampleRate() float64 { return 1 / s.Dt }

// Duration returns Dt times the number of samples.
func (s Series) Duration() float64 { return s.Dt * float64(len(s.samples)) }

// TimeAt returns the start time of sample i. i may equal Len, giving the
// series end.
func (s Series) TimeAt(i int) float64 { return s.Epoch + s.Dt*float64(i) }

// End returns the time just after the last sample.
func (s Series) End() float64 { return s.TimeAt(len(s.samples)) }

// Span returns [Epoch, End).
func (s Series) Span() (segments.Interval, error) {
	if len(s.samples) == 0 {
		return segments.Interval{}, ErrEmptySeries
	}

	return segments.NewInterval(s.Epoch, s.End())
}

// Times returns the start time of every sample.
func (s Series) Times() []float64 {
	out := make([]float64, len(s.samples))
	for i := range out {
		out[i] = s.TimeAt(i)
	}

	return out
}

// Index returns the index of the first sample starting at or after t,
// clamped to [0, Len].
func (s Series) Index(t float64) int {
	pos := math.Ceil((t-s.Epoch)/s.Dt - indexTolerance)

	switch {
	case pos <= 0:
		return 0
	case pos >= float64(len(s.samples)):
		return len(s.samples)
	default:
		return int(pos)
	}
}

// Slice returns samples [i, j) as a new series with its epoch moved to
// sample i.
func (s Series) Slice(i, j int) Series {
	return Series{
		Channel: s.Channel,
		Epoch:   s.TimeAt(i),
		Dt:      s.Dt,
		samples: slices.Clone(s.samples[i:j]),
	}
}

// Crop returns the samples whose start times fall in iv.
func (s Series) Crop(iv segments.Interval) (Series, error) {
	i, j := s.Index(iv.Start), s.Index(iv.End)
	if j <= i {
		return Series{}, fmt.Errorf("%w: %v against [%g, %g)", ErrOutOfRange, iv, s.Epoch, s.End())
	}

	return s.Slice(i, j), nil
}

// WithSamples returns a series with the same channel and sampling over new
// values.
func (s Series) WithSamples(samples []float64) Series {
	return Series{
		Channel: s.Channel,
		Epoch:   s.Epoch,
		Dt:      s.Dt,
		samples: slices.Clone(samples),
	}
}

// Mean returns the arithmetic mean of the samples.
func (s Series) Mean() (float64, error) {
	if len(s.samples) == 0 {
		return 0, ErrEmptySeries
	}

	return stat.Mean(s.samples, nil), nil
}

// CheckFinite returns ErrNonFinite for the first NaN or Inf sample.
func (s Series) CheckFinite() error {
	for i, v := range s.samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v at t=%g (sample %d)", ErrNonFinite, v, s.TimeAt(i), i)
		}
	}

	return nil
}

func (s Series) String() string {
	return fmt.Sprintf("%s: %d samples at %g Hz from %g", s.Channel, len(s.samples), s.SampleRate(), s.Epoch)
}
