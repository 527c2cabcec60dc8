// Package blrms computes band-limited RMS trends: the RMS of a signal in a
// frequency band, one value per spectrogram bin.
package blrms

import (
	"errors"
	"fmt"
	"math"

	"github.com/duncanmmacleod/gwpy-laac/dsp/spectrum"
	"github.com/duncanmmacleod/gwpy-laac/timeseries"
)

// ErrIrregularBins is returned for spectrograms whose columns are not spaced
// by their stride, such as one gated by a flag. Gated spectrograms are
// trended per contiguous run with Runs.
var ErrIrregularBins = errors.New("blrms: spectrogram bins are not evenly spaced")

// Band is a frequency band [Low, High) in Hz.
type Band struct {
	Low  float64
	High float64
}

func (b Band) String() string {
	return fmt.Sprintf("%g_%g", b.Low, b.High)
}

// Standard seismic bands.
var (
	Band30mHz100mHz  = Band{Low: 0.03, High: 0.1}
	Band100mHz300mHz = Band{Low: 0.1, High: 0.3}
	Band300mHz1Hz    = Band{Low: 0.3, High: 1}
	Band1Hz3Hz       = Band{Low: 1, High: 3}
	Band3Hz10Hz      = Band{Low: 3, High: 10}
	Band10Hz30Hz     = Band{Low: 10, High: 30}
)

// FromSpectrogram integrates the power density of every column over
// [flo, fhi) and returns the square root as a series sampled at the
// spectrogram stride. ASD spectrograms are converted back to power first.
// Columns must start exactly one stride apart.
func FromSpectrogram(sg spectrum.Spectrogram, flo, fhi float64) (timeseries.Series, error) {
	if sg.Len() == 0 {
		return timeseries.Series{}, fmt.Errorf("blrms %s: %w: spectrogram has no bins", sg.Channel, spectrum.ErrInsufficientData)
	}

	if i, ok := regular(sg); !ok {
		return timeseries.Series{}, fmt.Errorf("%w: %s bin %d starts at %v, not %v",
			ErrIrregularBins, sg.Channel, i, sg.At(i).Epoch, sg.At(0).Epoch+float64(i)*sg.Stride)
	}

	values := make([]float64, sg.Len())

	for i := range values {
		power, err := sg.At(i).BandPower(flo, fhi)
		if err != nil {
			return timeseries.Series{}, fmt.Errorf("blrms %s: %w", sg.Channel, err)
		}

		values[i] = math.Sqrt(power)
	}

	channel := fmt.Sprintf("%s_BLRMS_%s", sg.Channel, Band{Low: flo, High: fhi})

	return timeseries.New(channel, sg.At(0).Epoch, sg.Stride, values)
}

// regular reports whether column i starts i strides after the first for
// every i, returning the first offending column otherwise.
func regular(sg spectrum.Spectrogram) (int, bool) {
	tol := 1e-6 * sg.Stride

	for i := 1; i < sg.Len(); i++ {
		want := sg.At(0).Epoch + float64(i)*sg.Stride
		if math.Abs(sg.At(i).Epoch-want) > tol {
			return i, false
		}
	}

	return 0, true
}

// Runs computes one trend per contiguous run of columns, for spectrograms
// with gaps such as those gated by a flag. Trends are in time order.
func Runs(sg spectrum.Spectrogram, flo, fhi float64) ([]timeseries.Series, error) {
	if sg.Len() == 0 {
		return nil, fmt.Errorf("blrms %s: %w: spectrogram has no bins", sg.Channel, spectrum.ErrInsufficientData)
	}

	var out []timeseries.Series

	start := 0
	for i := 1; i <= sg.Len(); i++ {
		if i < sg.Len() && math.Abs(sg.At(i).Epoch-sg.At(i-1).Epoch-sg.Stride) <= 1e-6*sg.Stride {
			continue
		}

		s, err := FromSpectrogram(sg.Slice(start, i), flo, fhi)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
		start = i
	}

	return out, nil
}

// Bands computes one trend per band from the same spectrogram.
func Bands(sg spectrum.Spectrogram, bands []Band) ([]timeseries.Series, error) {
	out := make([]timeseries.Series, len(bands))

	for i, b := range bands {
		s, err := FromSpectrogram(sg, b.Low, b.High)
		if err != nil {
			return nil, err
		}

		out[i] = s
	}

	return out, nil
}

// FromSeries builds a spectrogram of s with the given bin and segment
// lengths and returns its trend in [flo, fhi).
func FromSeries(s timeseries.Series, binDuration, segmentLength, flo, fhi float64, opts ...spectrum.Option) (timeseries.Series, error) {
	sg, err := spectrum.NewSpectrogram(s, binDuration, segmentLength, opts...)
	if err != nil {
		return timeseries.Series{}, err
	}

	return FromSpectrogram(sg, flo, fhi)
}
