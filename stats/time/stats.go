// Package time summarises sampled data in the time domain, over a whole
// series or over the active segments of a flag.
package time

import (
	"errors"
	"fmt"
	"math"

	"github.com/duncanmmacleod/gwpy-laac/segments"
	"github.com/duncanmmacleod/gwpy-laac/timeseries"
)

// Stats holds time-domain statistics. Times are absolute, in seconds.
type Stats struct {
	Length int
	// Duration is the total span of the samples included.
	Duration float64
	Mean     float64
	RMS      float64
	Max      float64
	MaxTime  float64
	Min      float64
	MinTime  float64
	// Peak is max(|Max|, |Min|).
	Peak float64
	// CrestFactor is Peak/RMS, zero for a silent input.
	CrestFactor float64
	Variance    float64
	Skewness    float64
	// Kurtosis is the excess kurtosis, zero for Gaussian data.
	Kurtosis float64
	// ZeroCrossings counts sign changes between consecutive samples of the
	// same block.
	ZeroCrossings int
}

// Accumulator gathers statistics block by block with Welford's update, so
// the higher moments stay accurate for long inputs. Blocks need not be
// contiguous in time.
type Accumulator struct {
	n        int
	duration float64
	mean     float64
	m2       float64
	m3       float64
	m4       float64
	sumSq    float64
	max      float64
	maxTime  float64
	min      float64
	minTime  float64
	crossing int
}

// Update adds every sample of s. Non-finite samples are rejected before
// any is added.
func (a *Accumulator) Update(s timeseries.Series) error {
	if err := s.CheckFinite(); err != nil {
		return err
	}

	for i := range s.Len() {
		x := s.At(i)

		a.n++
		ni := float64(a.n)

		delta := x - a.mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * (ni - 1)

		// M4 before M3 before M2: each update reads the previous lower moments.
		a.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
		a.m3 += term1*deltaN*(ni-2) - 3*deltaN*a.m2
		a.m2 += term1
		a.mean += deltaN
		a.sumSq += x * x

		if a.n == 1 || x > a.max {
			a.max, a.maxTime = x, s.TimeAt(i)
		}

		if a.n == 1 || x < a.min {
			a.min, a.minTime = x, s.TimeAt(i)
		}

		if i > 0 && s.At(i-1)*x < 0 {
			a.crossing++
		}
	}

	a.duration += s.Duration()

	return nil
}

// Result returns the statistics of everything added so far.
func (a *Accumulator) Result() (Stats, error) {
	if a.n == 0 {
		return Stats{}, fmt.Errorf("time stats: %w", timeseries.ErrEmptySeries)
	}

	nf := float64(a.n)
	rms := math.Sqrt(a.sumSq / nf)
	peak := math.Max(math.Abs(a.max), math.Abs(a.min))

	st := Stats{
		Length:        a.n,
		Duration:      a.duration,
		Mean:          a.mean,
		RMS:           rms,
		Max:           a.max,
		MaxTime:       a.maxTime,
		Min:           a.min,
		MinTime:       a.minTime,
		Peak:          peak,
		Variance:      a.m2 / nf,
		ZeroCrossings: a.crossing,
	}

	if rms > 0 {
		st.CrestFactor = peak / rms
	}

	if v := st.Variance; v > 0 {
		st.Skewness = (a.m3 / nf) / (v * math.Sqrt(v))
		st.Kurtosis = (a.m4/nf)/(v*v) - 3
	}

	return st, nil
}

// Reset discards everything added so far.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}

// Calculate summarises every sample of s.
func Calculate(s timeseries.Series) (Stats, error) {
	var a Accumulator
	if err := a.Update(s); err != nil {
		return Stats{}, err
	}

	return a.Result()
}

// OverFlag summarises the samples of s that lie in the active segments of
// f. Each segment is a separate block, so no zero crossing is counted
// across a gap.
func OverFlag(s timeseries.Series, f segments.Flag) (Stats, error) {
	span, err := s.Span()
	if err != nil {
		return Stats{}, err
	}

	var a Accumulator

	for _, seg := range f.Active().Intersect(segments.MustIntervalSet(span)).Intervals() {
		piece, err := s.Crop(seg)
		if errors.Is(err, timeseries.ErrOutOfRange) {
			// shorter than a sample and between sample times
			continue
		} else if err != nil {
			return Stats{}, fmt.Errorf("time stats %s: segment %v: %w", s.Channel, seg, err)
		}

		if err := a.Update(piece); err != nil {
			return Stats{}, err
		}
	}

	st, err := a.Result()
	if err != nil {
		return Stats{}, fmt.Errorf("%s over %s: %w", s.Channel, f.Name, err)
	}

	return st, nil
}
