package spectrum

import (
	"fmt"
	"math"
	"slices"

	"github.com/duncanmmacleod/gwpy-laac/internal/parallel"
	"github.com/duncanmmacleod/gwpy-laac/logging"
	"github.com/duncanmmacleod/gwpy-laac/segments"
	"github.com/duncanmmacleod/gwpy-laac/timeseries"
)

// Spectrogram is a sequence of spectra over consecutive time bins. Every
// column shares the frequency axis and exponent of the spectrogram.
type Spectrogram struct {
	Channel     string
	F0          float64
	Df          float64
	Exponent    float64
	BinDuration float64
	Stride      float64

	columns []Spectrum
}

// NewSpectrogram splits s into bins of binDuration seconds, spaced by the
// stride option, and runs a Welch estimate with the given segment length
// inside each bin. Bins that would run past the end of the series are
// dropped. Bins are estimated concurrently; each estimate is serial.
func NewSpectrogram(s timeseries.Series, binDuration, segmentLength float64, opts ...Option) (Spectrogram, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return Spectrogram{}, err
	}

	if !(binDuration > 0) || math.IsInf(binDuration, 0) {
		return Spectrogram{}, fmt.Errorf("%w: bin duration %v s", ErrInvalidConfig, binDuration)
	}

	stride := cfg.stride
	if stride == 0 {
		stride = binDuration
	}

	binLen := int(math.Round(binDuration / s.Dt))
	strideLen := int(math.Round(stride / s.Dt))

	if binLen < 1 || strideLen < 1 {
		return Spectrogram{}, fmt.Errorf("%w: bin %v s, stride %v s at dt=%v", ErrInvalidConfig, binDuration, stride, s.Dt)
	}

	p, err := newPlan(s.Dt, segmentLength, cfg)
	if err != nil {
		return Spectrogram{}, err
	}

	if p.blocks(binLen) == 0 {
		return Spectrogram{}, fmt.Errorf("%w: %v s bin shorter than %v s segment", ErrInsufficientData, binDuration, segmentLength)
	}

	n := s.Len()
	if n < binLen {
		return Spectrogram{}, fmt.Errorf("spectrogram %s: %w: %d samples, bin needs %d", s.Channel, ErrInsufficientData, n, binLen)
	}

	if err := s.CheckFinite(); err != nil {
		return Spectrogram{}, fmt.Errorf("spectrogram: %w: %w", ErrNonFinite, err)
	}

	samples := s.Samples()
	ncols := (n-binLen)/strideLen + 1
	columns := make([]Spectrum, ncols)

	err = parallel.ForEach(ncols, cfg.workers, func(i int) error {
		start := i * strideLen

		values, _, err := p.estimate(samples[start:start+binLen], 1)
		if err != nil {
			return fmt.Errorf("bin %d: %w", i, err)
		}

		columns[i] = Spectrum{
			Channel:  s.Channel,
			Epoch:    s.TimeAt(start),
			Duration: float64(binLen) * s.Dt,
			Df:       p.df,
			Exponent: cfg.exponent,
			values:   values,
		}

		return nil
	})
	if err != nil {
		return Spectrogram{}, fmt.Errorf("spectrogram %s: %w", s.Channel, err)
	}

	cfg.logger.Debug("spectrogram estimate", logging.Fields{
		"channel": s.Channel,
		"bins":    ncols,
		"nfft":    p.nfft,
		"stride":  stride,
	})

	return Spectrogram{
		Channel:     s.Channel,
		Df:          p.df,
		Exponent:    cfg.exponent,
		BinDuration: float64(binLen) * s.Dt,
		Stride:      float64(strideLen) * s.Dt,
		columns:     columns,
	}, nil
}

// Len returns the number of time bins.
func (sg Spectrogram) Len() int { return len(sg.columns) }

// At returns the spectrum of time bin i.
func (sg Spectrogram) At(i int) Spectrum { return sg.columns[i] }

// Columns returns the spectra in time order.
func (sg Spectrogram) Columns() []Spectrum { return slices.Clone(sg.columns) }

// Slice returns the columns [i, j), sharing storage with sg.
func (sg Spectrogram) Slice(i, j int) Spectrogram {
	out := sg
	out.columns = sg.columns[i:j:j]

	return out
}

// Times returns the start time of every bin.
func (sg Spectrogram) Times() []float64 {
	out := make([]float64, len(sg.columns))
	for i, c := range sg.columns {
		out[i] = c.Epoch
	}

	return out
}

// Frequencies returns the shared frequency axis.
func (sg Spectrogram) Frequencies() []float64 {
	if len(sg.columns) == 0 {
		return nil
	}

	return sg.columns[0].Frequencies()
}

// Bins returns the number of frequency bins per column.
func (sg Spectrogram) Bins() int {
	if len(sg.columns) == 0 {
		return 0
	}

	return sg.columns[0].Len()
}

// Pow raises every column to e.
func (sg Spectrogram) Pow(e float64) Spectrogram {
	return sg.mapColumns(func(c Spectrum) Spectrum { return c.Pow(e) }, sg.Exponent*e)
}

// Scale multiplies bin k of every column by factors[k].
func (sg Spectrogram) Scale(factors []float64) (Spectrogram, error) {
	if len(factors) != sg.Bins() {
		return Spectrogram{}, fmt.Errorf("%w: %d factors for %d bins", ErrMismatchedLength, len(factors), sg.Bins())
	}

	out := sg
	out.columns = make([]Spectrum, len(sg.columns))

	for i, c := range sg.columns {
		scaled, err := c.Scale(factors)
		if err != nil {
			return Spectrogram{}, err
		}

		out.columns[i] = scaled
	}

	return out, nil
}

// Crop keeps the frequency bins in [fmin, fmax].
func (sg Spectrogram) Crop(fmin, fmax float64) (Spectrogram, error) {
	out := sg
	out.columns = make([]Spectrum, len(sg.columns))

	for i, c := range sg.columns {
		cropped, err := c.Crop(fmin, fmax)
		if err != nil {
			return Spectrogram{}, err
		}

		out.columns[i] = cropped
		out.F0 = cropped.F0
	}

	return out, nil
}

// Gate keeps the bins whose whole span lies inside one active segment of f.
func (sg Spectrogram) Gate(f segments.Flag) Spectrogram {
	out := sg
	out.columns = nil

	for _, c := range sg.columns {
		span := segments.Interval{Start: c.Epoch, End: c.Epoch + c.Duration}
		if f.Active().Covers(span) {
			out.columns = append(out.columns, c)
		}
	}

	return out
}

// Median returns the per-bin median over time as a single spectrum.
func (sg Spectrogram) Median() (Spectrum, error) {
	if len(sg.columns) == 0 {
		return Spectrum{}, fmt.Errorf("%w: spectrogram has no bins", ErrInsufficientData)
	}

	rows := make([][]float64, len(sg.columns))
	for i, c := range sg.columns {
		rows[i] = c.values
	}

	first, last := sg.columns[0], sg.columns[len(sg.columns)-1]

	values := make([]float64, sg.Bins())
	column := make([]float64, len(rows))

	for k := range values {
		for i, row := range rows {
			column[i] = row[k]
		}

		values[k] = median(column)
	}

	return Spectrum{
		Channel:  sg.Channel,
		Epoch:    first.Epoch,
		Duration: last.Epoch + last.Duration - first.Epoch,
		F0:       first.F0,
		Df:       sg.Df,
		Exponent: sg.Exponent,
		values:   values,
	}, nil
}

func (sg Spectrogram) mapColumns(fn func(Spectrum) Spectrum, exponent float64) Spectrogram {
	out := sg
	out.Exponent = exponent
	out.columns = make([]Spectrum, len(sg.columns))

	for i, c := range sg.columns {
		out.columns[i] = fn(c)
	}

	return out
}
