package config

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/duncanmmacleod/gwpy-laac/dsp/filter/zpk"
	"github.com/duncanmmacleod/gwpy-laac/dsp/spectrum"
	"github.com/duncanmmacleod/gwpy-laac/dsp/window"
	"github.com/duncanmmacleod/gwpy-laac/logging"
	"github.com/duncanmmacleod/gwpy-laac/measure/conditioning"
)

// ErrInvalidDocument is returned for documents that decode but cannot be
// converted.
var ErrInvalidDocument = errors.New("config: invalid document")

// Analysis holds the estimator and filter settings of a conditioning run.
//
//	fft_length: 8
//	overlap: 4
//	window: hann
//	average: median
//	bin_duration: 30
//	highpass: {cutoff: 4, order: 8}
//	filter:
//	  zeros: [100, 100, 100, 100, 100]
//	  poles: [1, 1, 1, 1, 1]
//	  gain: 2.5e-14
//	  invert: true
type Analysis struct {
	// FFTLength is the Welch segment length in seconds.
	FFTLength float64 `yaml:"fft_length"`
	Overlap   float64 `yaml:"overlap"`
	// Window is a name understood by window.Parse.
	Window string `yaml:"window"`
	// Average is "mean" or "median".
	Average     string  `yaml:"average"`
	BinDuration float64 `yaml:"bin_duration"`
	// Exponent is 1 for power and 0.5 for amplitude densities.
	Exponent          float64       `yaml:"exponent"`
	CoverageThreshold float64       `yaml:"coverage_threshold"`
	Workers           int           `yaml:"workers"`
	Highpass          *HighpassSpec `yaml:"highpass"`
	Filter            *FilterSpec   `yaml:"filter"`
}

// HighpassSpec is a Butterworth highpass stage.
type HighpassSpec struct {
	Cutoff float64 `yaml:"cutoff"`
	Order  int     `yaml:"order"`
}

// FilterSpec is a zero-pole-gain stage in Hz. With Invert set the stage is
// applied as its inverse, which is how whitening filters are undone.
type FilterSpec struct {
	Zeros  []Root  `yaml:"zeros"`
	Poles  []Root  `yaml:"poles"`
	Gain   float64 `yaml:"gain"`
	Invert bool    `yaml:"invert"`
}

// UnmarshalYAML defaults the gain to one.
func (f *FilterSpec) UnmarshalYAML(node *yaml.Node) error {
	type raw FilterSpec

	r := raw{Gain: 1}
	if err := node.Decode(&r); err != nil {
		return err
	}

	*f = FilterSpec(r)

	return nil
}

// TransferFunction builds the stage, inverted when requested.
func (f FilterSpec) TransferFunction() (zpk.TransferFunction, error) {
	tf, err := zpk.New(roots(f.Zeros), roots(f.Poles), f.Gain)
	if err != nil {
		return zpk.TransferFunction{}, err
	}

	if f.Invert {
		return tf.Inverse()
	}

	return tf, nil
}

// Root is a zero or pole location. It decodes from a number (a real root)
// or a two-element [re, im] sequence.
type Root complex128

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Root) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return err
		}

		*r = Root(complex(v, 0))

		return nil
	case yaml.SequenceNode:
		var parts []float64
		if err := node.Decode(&parts); err != nil {
			return err
		}

		if len(parts) != 2 {
			return fmt.Errorf("line %d: root needs [re, im], got %d values", node.Line, len(parts))
		}

		*r = Root(complex(parts[0], parts[1]))

		return nil
	default:
		return fmt.Errorf("line %d: root must be a number or [re, im]", node.Line)
	}
}

func roots(rs []Root) []complex128 {
	out := make([]complex128, len(rs))
	for i, r := range rs {
		out[i] = complex128(r)
	}

	return out
}

var averageByName = map[string]spectrum.Average{
	"mean":   spectrum.AverageMean,
	"median": spectrum.AverageMedian,
}

// DefaultAnalysis mirrors conditioning.DefaultConfig.
func DefaultAnalysis() Analysis {
	d := conditioning.DefaultConfig()

	return Analysis{
		FFTLength:         d.FFTLength,
		Overlap:           d.Overlap,
		Window:            "hann",
		Average:           "mean",
		BinDuration:       d.BinDuration,
		Exponent:          d.Exponent,
		CoverageThreshold: d.CoverageThreshold,
	}
}

// ParseAnalysis decodes an analysis document over DefaultAnalysis and
// checks that it converts.
func ParseAnalysis(data []byte) (Analysis, error) {
	a := DefaultAnalysis()
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Analysis{}, fmt.Errorf("parse yaml: %w", err)
	}

	if _, err := a.Conditioning(nil); err != nil {
		return Analysis{}, err
	}

	return a, nil
}

// LoadAnalysis reads and parses the analysis document at path.
func LoadAnalysis(path string) (Analysis, error) {
	return load("analysis config", path, ParseAnalysis)
}

// Conditioning converts a into a validated pipeline configuration.
func (a Analysis) Conditioning(logger logging.Logger) (conditioning.Config, error) {
	w, err := window.Parse(a.Window)
	if err != nil {
		return conditioning.Config{}, fmt.Errorf("%w: window: %w", ErrInvalidDocument, err)
	}

	avg, ok := averageByName[strings.ToLower(strings.TrimSpace(a.Average))]
	if !ok {
		return conditioning.Config{}, fmt.Errorf("%w: average %q: want mean|median", ErrInvalidDocument, a.Average)
	}

	cfg := conditioning.Config{
		FFTLength:         a.FFTLength,
		Overlap:           a.Overlap,
		Window:            w,
		Average:           avg,
		BinDuration:       a.BinDuration,
		Exponent:          a.Exponent,
		CoverageThreshold: a.CoverageThreshold,
		Workers:           a.Workers,
		Logger:            logger,
	}

	if a.Highpass != nil {
		cfg.Highpass = &conditioning.Highpass{Cutoff: a.Highpass.Cutoff, Order: a.Highpass.Order}
	}

	if a.Filter != nil {
		tf, err := a.Filter.TransferFunction()
		if err != nil {
			return conditioning.Config{}, fmt.Errorf("%w: filter: %w", ErrInvalidDocument, err)
		}

		cfg.Filter = &tf
	}

	if err := cfg.Validate(); err != nil {
		return conditioning.Config{}, err
	}

	return cfg, nil
}
