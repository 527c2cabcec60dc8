package spectrum

import (
	"fmt"
	"math"

	"github.com/duncanmmacleod/gwpy-laac/dsp/window"
	"github.com/duncanmmacleod/gwpy-laac/logging"
)

// Detrend selects the per-block trend removal applied before windowing.
type Detrend int

const (
	DetrendNone Detrend = iota
	DetrendConstant
	DetrendLinear
)

// Average selects how block periodograms are combined.
type Average int

const (
	// AverageMean is the arithmetic mean of the periodograms.
	AverageMean Average = iota
	// AverageMedian is the bias-corrected median, robust against
	// transients in individual blocks.
	AverageMedian
)

// Option configures an estimate.
type Option func(*config)

type config struct {
	overlap    float64
	hasOverlap bool
	window     window.Type
	alpha      float64
	hasAlpha   bool
	symmetric  bool
	exponent   float64
	detrend    Detrend
	average    Average
	oneSided   bool
	stride     float64
	workers    int
	logger     logging.Logger
}

func defaultConfig() config {
	return config{
		window:   window.TypeHann,
		exponent: 1,
		detrend:  DetrendConstant,
		average:  AverageMean,
		oneSided: true,
	}
}

func newConfig(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	cfg.logger = logging.OrNop(cfg.logger)

	return cfg, cfg.validate()
}

func (c config) validate() error {
	switch {
	case c.hasOverlap && (!(c.overlap >= 0) || math.IsInf(c.overlap, 0)):
		return fmt.Errorf("%w: overlap=%v s", ErrInvalidConfig, c.overlap)
	case !(c.exponent > 0) || math.IsInf(c.exponent, 0):
		return fmt.Errorf("%w: exponent=%v", ErrInvalidConfig, c.exponent)
	case c.hasAlpha && !(c.alpha >= 0):
		return fmt.Errorf("%w: window alpha=%v", ErrInvalidConfig, c.alpha)
	case !(c.stride >= 0) || math.IsInf(c.stride, 0):
		return fmt.Errorf("%w: stride=%v s", ErrInvalidConfig, c.stride)
	case c.detrend < DetrendNone || c.detrend > DetrendLinear:
		return fmt.Errorf("%w: detrend=%d", ErrInvalidConfig, c.detrend)
	case c.average < AverageMean || c.average > AverageMedian:
		return fmt.Errorf("%w: average=%d", ErrInvalidConfig, c.average)
	}

	if window.Info(c.window).Name == "" {
		return fmt.Errorf("%w: window %v", ErrInvalidConfig, c.window)
	}

	return nil
}

// WithOverlap sets the overlap between consecutive blocks in seconds. The
// default is the window's recommended overlap fraction of the segment.
func WithOverlap(seconds float64) Option {
	return func(c *config) {
		c.overlap = seconds
		c.hasOverlap = true
	}
}

// WithWindow selects the block window. The default is Hann.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.window = t
	}
}

// WithWindowAlpha sets the shape parameter of a parametric window.
func WithWindowAlpha(alpha float64) Option {
	return func(c *config) {
		c.alpha = alpha
		c.hasAlpha = true
	}
}

// WithSymmetricWindow uses the symmetric window form instead of the
// periodic one.
func WithSymmetricWindow() Option {
	return func(c *config) {
		c.symmetric = true
	}
}

// WithExponent raises the final density to e: 1 gives a PSD, 0.5 an ASD.
func WithExponent(e float64) Option {
	return func(c *config) {
		c.exponent = e
	}
}

// WithDetrend selects the per-block trend removal. The default removes the
// block mean.
func WithDetrend(d Detrend) Option {
	return func(c *config) {
		c.detrend = d
	}
}

// WithAverage selects how block periodograms are combined.
func WithAverage(a Average) Option {
	return func(c *config) {
		c.average = a
	}
}

// WithoutFolding returns the density per side of the spectrum, without
// folding negative-frequency power onto positive frequencies.
func WithoutFolding() Option {
	return func(c *config) {
		c.oneSided = false
	}
}

// WithStride sets the spacing of spectrogram bins in seconds. The default
// equals the bin duration, giving contiguous bins.
func WithStride(seconds float64) Option {
	return func(c *config) {
		c.stride = seconds
	}
}

// WithWorkers bounds the number of goroutines. Zero picks a default; one
// runs serially.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
