package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/duncanmmacleod/gwpy-laac/timeseries"
)

// SeriesDocument is a sampled channel. Exactly one of SampleRate and Dt
// sets the sampling.
type SeriesDocument struct {
	Channel    string    `yaml:"channel"`
	Epoch      float64   `yaml:"epoch"`
	SampleRate float64   `yaml:"sample_rate,omitempty"`
	Dt         float64   `yaml:"dt,omitempty"`
	Samples    []float64 `yaml:"samples"`
}

// ToSeries converts the document.
func (d SeriesDocument) ToSeries() (timeseries.Series, error) {
	switch {
	case d.SampleRate != 0 && d.Dt != 0:
		return timeseries.Series{}, fmt.Errorf("%w: series %q sets both sample_rate and dt", ErrInvalidDocument, d.Channel)
	case d.SampleRate != 0:
		return timeseries.FromSampleRate(d.Channel, d.Epoch, d.SampleRate, d.Samples)
	default:
		return timeseries.New(d.Channel, d.Epoch, d.Dt, d.Samples)
	}
}

// ParseSeries decodes a series document.
func ParseSeries(data []byte) (SeriesDocument, error) {
	var d SeriesDocument
	if err := yaml.Unmarshal(data, &d); err != nil {
		return SeriesDocument{}, fmt.Errorf("parse yaml: %w", err)
	}

	if _, err := d.ToSeries(); err != nil {
		return SeriesDocument{}, err
	}

	return d, nil
}

// LoadSeries reads the series document at path and converts it.
func LoadSeries(path string) (timeseries.Series, error) {
	d, err := load("series document", path, ParseSeries)
	if err != nil {
		return timeseries.Series{}, err
	}

	return d.ToSeries()
}

// FromSeries is the inverse of ToSeries, sampling given by Dt.
func FromSeries(s timeseries.Series) SeriesDocument {
	return SeriesDocument{
		Channel: s.Channel,
		Epoch:   s.Epoch,
		Dt:      s.Dt,
		Samples: s.Samples(),
	}
}
