package state

import (
	"errors"
	"fmt"
	"math"

	"github.com/duncanmmacleod/gwpy-laac/internal/parallel"
	"github.com/duncanmmacleod/gwpy-laac/segments"
	"github.com/duncanmmacleod/gwpy-laac/timeseries"
)

var (
	// ErrNonFinite is returned when NonFiniteReject meets a NaN or Inf sample.
	ErrNonFinite = errors.New("state: non-finite sample")
	// ErrNilPredicate is returned when no predicate is given.
	ErrNilPredicate = errors.New("state: nil predicate")
)

// NonFinite selects how NaN and Inf samples are treated.
type NonFinite int

const (
	// NonFiniteReject fails the extraction.
	NonFiniteReject NonFinite = iota
	// NonFiniteFalse treats the sample as known and inactive.
	NonFiniteFalse
	// NonFiniteUnknown removes the sample's span from the known segments.
	NonFiniteUnknown
)

// Option configures an Extractor.
type Option func(*config)

type config struct {
	nonFinite  NonFinite
	minSamples int
	workers    int
}

func defaultConfig() config {
	return config{
		nonFinite:  NonFiniteReject,
		minSamples: 1,
	}
}

// WithNonFinite sets the handling of NaN and Inf samples.
func WithNonFinite(mode NonFinite) Option {
	return func(c *config) {
		c.nonFinite = mode
	}
}

// WithMinSamples drops active runs shorter than n samples.
func WithMinSamples(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.minSamples = n
		}
	}
}

// WithWorkers bounds the concurrency of ExtractAll. Zero picks a default.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.workers = n
		}
	}
}

// Extractor turns state series into flags. It is safe for concurrent use.
type Extractor struct {
	cfg config
}

// NewExtractor returns an extractor configured by opts.
func NewExtractor(opts ...Option) *Extractor {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Extractor{cfg: cfg}
}

// Extract is a one-shot NewExtractor(opts...).Extract(name, s, p).
func Extract(name string, s timeseries.Series, p Predicate, opts ...Option) (segments.Flag, error) {
	return NewExtractor(opts...).Extract(name, s, p)
}

// Extract evaluates p on every sample of s. A run of samples i..j-1 for
// which p holds becomes the active segment [t(i), t(j)); a run still open at
// the last sample closes at the series end.
func (e *Extractor) Extract(name string, s timeseries.Series, p Predicate) (segments.Flag, error) {
	if p == nil {
		return segments.Flag{}, fmt.Errorf("extract %q: %w", name, ErrNilPredicate)
	}

	n := s.Len()
	if n == 0 {
		return segments.Flag{}, fmt.Errorf("extract %q: %w", name, timeseries.ErrEmptySeries)
	}

	var active, unknown []segments.Interval

	activeStart, unknownStart := -1, -1

	for i := range n {
		v := s.At(i)
		holds := false
		bad := math.IsNaN(v) || math.IsInf(v, 0)

		switch {
		case !bad:
			holds = p.Holds(v)
		case e.cfg.nonFinite == NonFiniteReject:
			return segments.Flag{}, fmt.Errorf("extract %q: %w: %v at t=%g (sample %d)",
				name, ErrNonFinite, v, s.TimeAt(i), i)
		}

		unknownRun := bad && e.cfg.nonFinite == NonFiniteUnknown
		if unknownRun && unknownStart < 0 {
			unknownStart = i
		} else if !unknownRun && unknownStart >= 0 {
			unknown = append(unknown, span(s, unknownStart, i))
			unknownStart = -1
		}

		if holds && activeStart < 0 {
			activeStart = i
		} else if !holds && activeStart >= 0 {
			active = e.closeRun(active, s, activeStart, i)
			activeStart = -1
		}
	}

	if activeStart >= 0 {
		active = e.closeRun(active, s, activeStart, n)
	}

	if unknownStart >= 0 {
		unknown = append(unknown, span(s, unknownStart, n))
	}

	return e.flag(name, s, active, unknown)
}

func (e *Extractor) closeRun(active []segments.Interval, s timeseries.Series, i, j int) []segments.Interval {
	if j-i < e.cfg.minSamples {
		return active
	}

	return append(active, span(s, i, j))
}

func (e *Extractor) flag(name string, s timeseries.Series, active, unknown []segments.Interval) (segments.Flag, error) {
	known, err := segments.FromSorted([]segments.Interval{span(s, 0, s.Len())})
	if err != nil {
		return segments.Flag{}, fmt.Errorf("extract %q: %w", name, err)
	}

	if len(unknown) > 0 {
		gaps, err := segments.FromSorted(unknown)
		if err != nil {
			return segments.Flag{}, fmt.Errorf("extract %q: %w", name, err)
		}

		known = known.Difference(gaps)
	}

	act, err := segments.FromSorted(active)
	if err != nil {
		return segments.Flag{}, fmt.Errorf("extract %q: %w", name, err)
	}

	return segments.NewFlag(name, known, act)
}

func span(s timeseries.Series, i, j int) segments.Interval {
	return segments.Interval{Start: s.TimeAt(i), End: s.TimeAt(j)}
}

// Definition names a predicate for ExtractAll.
type Definition struct {
	Name      string
	Predicate Predicate
}

// ExtractAll evaluates every definition over s concurrently. Flags are
// returned in definition order.
func (e *Extractor) ExtractAll(s timeseries.Series, defs []Definition) ([]segments.Flag, error) {
	out := make([]segments.Flag, len(defs))

	err := parallel.ForEach(len(defs), e.cfg.workers, func(i int) error {
		f, err := e.Extract(defs[i].Name, s, defs[i].Predicate)
		if err != nil {
			return err
		}

		out[i] = f

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
