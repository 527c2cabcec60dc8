// Package conditioning chains the spectral and filtering packages into the
// usual strain-conditioning pipelines: highpass, de-whiten, estimate.
package conditioning

import (
	"errors"
	"fmt"
	"math"

	"github.com/duncanmmacleod/gwpy-laac/dsp/filter/zpk"
	"github.com/duncanmmacleod/gwpy-laac/dsp/spectrum"
	"github.com/duncanmmacleod/gwpy-laac/dsp/window"
	"github.com/duncanmmacleod/gwpy-laac/internal/parallel"
	"github.com/duncanmmacleod/gwpy-laac/logging"
	"github.com/duncanmmacleod/gwpy-laac/segments"
	"github.com/duncanmmacleod/gwpy-laac/timeseries"
)

// ErrInvalidConfig is returned for a Config that cannot drive a pipeline.
var ErrInvalidConfig = errors.New("conditioning: invalid config")

// Highpass describes a Butterworth highpass stage.
type Highpass struct {
	Cutoff float64
	Order  int
}

// Config holds pipeline parameters. Durations are in seconds.
type Config struct {
	// FFTLength is the Welch segment length.
	FFTLength float64
	// Overlap between Welch segments; zero gives contiguous segments.
	Overlap float64
	Window  window.Type
	Average spectrum.Average
	// BinDuration is the spectrogram time resolution.
	BinDuration float64
	// Exponent of the output density: 0.5 for ASDs.
	Exponent float64
	// Highpass, when set, is applied before Filter.
	Highpass *Highpass
	// Filter, when set, is applied to the data, typically the inverse of a
	// whitening filter.
	Filter *zpk.TransferFunction
	// CoverageThreshold is the known-time fraction below which a coverage
	// warning is raised.
	CoverageThreshold float64
	Workers           int
	Logger            logging.Logger
}

// DefaultConfig returns 8 s Hann segments overlapping by 4 s, 30 s
// spectrogram bins and ASD output.
func DefaultConfig() Config {
	return Config{
		FFTLength:         8,
		Overlap:           4,
		Window:            window.TypeHann,
		Average:           spectrum.AverageMean,
		BinDuration:       30,
		Exponent:          0.5,
		CoverageThreshold: 0.9,
	}
}

// Validate checks the scalar parameters. Estimator and filter settings are
// checked again where they are used.
func (c Config) Validate() error {
	switch {
	case !(c.FFTLength > 0) || math.IsInf(c.FFTLength, 0):
		return fmt.Errorf("%w: fft length %v s", ErrInvalidConfig, c.FFTLength)
	case !(c.Overlap >= 0) || c.Overlap >= c.FFTLength:
		return fmt.Errorf("%w: overlap %v s for %v s segments", ErrInvalidConfig, c.Overlap, c.FFTLength)
	case !(c.Exponent > 0) || math.IsInf(c.Exponent, 0):
		return fmt.Errorf("%w: exponent %v", ErrInvalidConfig, c.Exponent)
	case !(c.CoverageThreshold >= 0 && c.CoverageThreshold <= 1):
		return fmt.Errorf("%w: coverage threshold %v", ErrInvalidConfig, c.CoverageThreshold)
	case c.Highpass != nil && (!(c.Highpass.Cutoff > 0) || c.Highpass.Order < 1):
		return fmt.Errorf("%w: highpass %+v", ErrInvalidConfig, *c.Highpass)
	}

	return nil
}

func (c Config) spectrumOptions() []spectrum.Option {
	return []spectrum.Option{
		spectrum.WithOverlap(c.Overlap),
		spectrum.WithWindow(c.Window),
		spectrum.WithAverage(c.Average),
		spectrum.WithExponent(c.Exponent),
		spectrum.WithLogger(c.Logger),
	}
}

// response returns the combined highpass and filter stages, or false when
// there are none.
func (c Config) response() (zpk.TransferFunction, bool, error) {
	tf := zpk.Identity()
	set := false

	if c.Highpass != nil {
		hp, err := zpk.Butterworth(zpk.Highpass, c.Highpass.Order, c.Highpass.Cutoff)
		if err != nil {
			return zpk.TransferFunction{}, false, err
		}

		tf = tf.Cascade(hp)
		set = true
	}

	if c.Filter != nil {
		if err := c.Filter.Validate(); err != nil {
			return zpk.TransferFunction{}, false, err
		}

		tf = tf.Cascade(*c.Filter)
		set = true
	}

	return tf, set, nil
}

// ConditionedASD filters s through the configured highpass and filter
// stages in the frequency domain and returns its Welch estimate.
func ConditionedASD(s timeseries.Series, cfg Config) (spectrum.Spectrum, error) {
	if err := cfg.Validate(); err != nil {
		return spectrum.Spectrum{}, err
	}

	tf, filtered, err := cfg.response()
	if err != nil {
		return spectrum.Spectrum{}, err
	}

	if filtered {
		conditioned, err := zpk.ApplySeries(tf, s)
		if err != nil {
			return spectrum.Spectrum{}, fmt.Errorf("condition %s: %w", s.Channel, err)
		}

		s = conditioned
	}

	opts := append(cfg.spectrumOptions(), spectrum.WithWorkers(cfg.Workers))

	return spectrum.Welch(s, cfg.FFTLength, opts...)
}

// Report collects the soft outcomes of a segment pipeline.
type Report struct {
	// Coverage is the known fraction of the series span.
	Coverage float64
	Warnings []*segments.CoverageWarning
	// Skipped lists active segments too short for a single bin.
	Skipped []segments.Interval
}

// SegmentSpectrograms computes one spectrogram per active segment of flag
// that overlaps s, clipped to the span of s. Highpass and filter stages
// scale every column. Segments shorter than one bin are skipped and
// reported. Results are in segment order.
func SegmentSpectrograms(s timeseries.Series, flag segments.Flag, cfg Config) ([]spectrum.Spectrogram, Report, error) {
	var report Report

	if err := cfg.Validate(); err != nil {
		return nil, report, err
	}

	if !(cfg.BinDuration >= cfg.FFTLength) || math.IsInf(cfg.BinDuration, 0) {
		return nil, report, fmt.Errorf("%w: %v s bins for %v s segments", ErrInvalidConfig, cfg.BinDuration, cfg.FFTLength)
	}

	logger := logging.OrNop(cfg.Logger).WithFields(logging.Fields{"channel": s.Channel, "flag": flag.Name})

	span, err := s.Span()
	if err != nil {
		return nil, report, err
	}

	coverage, warning := flag.CheckCoverage(span, cfg.CoverageThreshold)
	report.Coverage = coverage

	if warning != nil {
		report.Warnings = append(report.Warnings, warning)
		logger.Warn("incomplete segment coverage", logging.Fields{
			"coverage":  coverage,
			"threshold": cfg.CoverageThreshold,
		})
	}

	tf, filtered, err := cfg.response()
	if err != nil {
		return nil, report, err
	}

	binLen := int(math.Round(cfg.BinDuration / s.Dt))

	var pieces []timeseries.Series

	for _, seg := range flag.Active().Intersect(segments.MustIntervalSet(span)).Intervals() {
		var piece timeseries.Series
		if seg.Duration() >= cfg.BinDuration {
			piece, err = s.Crop(seg)
			if err != nil {
				return nil, report, err
			}
		}

		if piece.Len() < binLen {
			report.Skipped = append(report.Skipped, seg)
			logger.Debug("segment shorter than one bin", logging.Fields{"segment": seg.String()})

			continue
		}

		pieces = append(pieces, piece)
	}

	out := make([]spectrum.Spectrogram, len(pieces))
	opts := append(cfg.spectrumOptions(), spectrum.WithWorkers(1))

	err = parallel.ForEach(len(pieces), cfg.Workers, func(i int) error {
		sg, err := spectrum.NewSpectrogram(pieces[i], cfg.BinDuration, cfg.FFTLength, opts...)
		if err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}

		if filtered {
			sg, err = zpk.ApplySpectrogram(tf, sg)
			if err != nil {
				return fmt.Errorf("segment %d: %w", i, err)
			}
		}

		out[i] = sg

		return nil
	})
	if err != nil {
		return nil, report, err
	}

	logger.Info("segment spectrograms", logging.Fields{
		"segments": len(out),
		"skipped":  len(report.Skipped),
	})

	return out, report, nil
}
