package spectrum

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/duncanmmacleod/gwpy-laac/dsp/window"
	"github.com/duncanmmacleod/gwpy-laac/internal/fftutil"
	"github.com/duncanmmacleod/gwpy-laac/internal/parallel"
	"github.com/duncanmmacleod/gwpy-laac/logging"
	"github.com/duncanmmacleod/gwpy-laac/timeseries"
)

// Welch estimates the spectral density of s from blocks of segmentLength
// seconds. With the default options the result is a one-sided PSD:
//
//	P[k] = c_k * Dt / sum(w^2) * mean_b |DFT(w * x_b)[k]|^2
//
// where c_k is 2 for every bin except DC and (even block length) Nyquist,
// and 1 for those. The exponent option is applied last.
func Welch(s timeseries.Series, segmentLength float64, opts ...Option) (Spectrum, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return Spectrum{}, err
	}

	p, err := newPlan(s.Dt, segmentLength, cfg)
	if err != nil {
		return Spectrum{}, err
	}

	if err := s.CheckFinite(); err != nil {
		return Spectrum{}, fmt.Errorf("welch: %w: %w", ErrNonFinite, err)
	}

	values, blocks, err := p.estimate(s.Samples(), cfg.workers)
	if err != nil {
		return Spectrum{}, fmt.Errorf("welch %s: %w", s.Channel, err)
	}

	cfg.logger.Debug("welch estimate", logging.Fields{
		"channel": s.Channel,
		"nfft":    p.nfft,
		"step":    p.step,
		"blocks":  blocks,
		"window":  cfg.window.String(),
	})

	return Spectrum{
		Channel:  s.Channel,
		Epoch:    s.Epoch,
		Duration: s.Duration(),
		Df:       p.df,
		Exponent: cfg.exponent,
		values:   values,
	}, nil
}

// PSD is Welch with exponent 1.
func PSD(s timeseries.Series, segmentLength float64, opts ...Option) (Spectrum, error) {
	return Welch(s, segmentLength, append(slices.Clone(opts), WithExponent(1))...)
}

// ASD is Welch with exponent 0.5.
func ASD(s timeseries.Series, segmentLength float64, opts ...Option) (Spectrum, error) {
	return Welch(s, segmentLength, append(slices.Clone(opts), WithExponent(0.5))...)
}

// plan holds everything about an estimate that depends only on the block
// geometry, so spectrogram bins can share it.
type plan struct {
	nfft   int
	step   int
	df     float64
	scale  float64
	coeffs []float64
	ramp   []float64
	cfg    config
}

func newPlan(dt, segmentLength float64, cfg config) (*plan, error) {
	if !(segmentLength > 0) || math.IsInf(segmentLength, 0) {
		return nil, fmt.Errorf("%w: segment length %v s", ErrInvalidConfig, segmentLength)
	}

	nfft := int(math.Round(segmentLength / dt))
	if nfft < 2 {
		return nil, fmt.Errorf("%w: segment length %v s is %d samples at dt=%v", ErrInvalidConfig, segmentLength, nfft, dt)
	}

	var noverlap int
	if cfg.hasOverlap {
		noverlap = int(math.Round(cfg.overlap / dt))
	} else {
		noverlap = int(math.Round(window.Info(cfg.window).RecommendedOverlap * float64(nfft)))
	}

	if noverlap >= nfft {
		return nil, fmt.Errorf("%w: overlap of %d samples not shorter than %d-sample segment", ErrInvalidConfig, noverlap, nfft)
	}

	var wopts []window.Option
	if !cfg.symmetric {
		wopts = append(wopts, window.WithPeriodic())
	}

	if cfg.hasAlpha {
		wopts = append(wopts, window.WithAlpha(cfg.alpha))
	}

	coeffs := window.Generate(cfg.window, nfft, wopts...)

	power := window.Power(coeffs)
	if !(power > 0) {
		return nil, fmt.Errorf("%w: %v window has no power at %d samples", ErrInvalidConfig, cfg.window, nfft)
	}

	p := &plan{
		nfft:   nfft,
		step:   nfft - noverlap,
		df:     1 / (float64(nfft) * dt),
		scale:  dt / power,
		coeffs: coeffs,
		cfg:    cfg,
	}

	if cfg.detrend == DetrendLinear {
		p.ramp = floats.Span(make([]float64, nfft), 0, float64(nfft-1))
	}

	return p, nil
}

// blocks returns the number of whole blocks in n samples.
func (p *plan) blocks(n int) int {
	if n < p.nfft {
		return 0
	}

	return (n-p.nfft)/p.step + 1
}

// estimate returns the scaled density of samples and the number of blocks
// averaged.
func (p *plan) estimate(samples []float64, workers int) ([]float64, int, error) {
	nblocks := p.blocks(len(samples))
	if nblocks == 0 {
		return nil, 0, fmt.Errorf("%w: %d samples, segment needs %d", ErrInsufficientData, len(samples), p.nfft)
	}

	pgrams := make([][]float64, nblocks)

	err := parallel.ForEach(nblocks, workers, func(b int) error {
		start := b * p.step

		pg, err := p.periodogram(samples[start : start+p.nfft])
		if err != nil {
			return fmt.Errorf("block %d: %w", b, err)
		}

		pgrams[b] = pg

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	var out []float64
	if p.cfg.average == AverageMedian {
		out = medianOf(pgrams)
	} else {
		out = meanOf(pgrams)
	}

	p.finish(out)

	return out, nblocks, nil
}

// periodogram returns |DFT(w * detrend(x))|^2 for one block.
func (p *plan) periodogram(block []float64) ([]float64, error) {
	buf := slices.Clone(block)

	switch p.cfg.detrend {
	case DetrendConstant:
		floats.AddConst(-stat.Mean(buf, nil), buf)
	case DetrendLinear:
		alpha, beta := stat.LinearRegression(p.ramp, buf, nil, false)
		for i, x := range p.ramp {
			buf[i] -= alpha + beta*x
		}
	}

	if err := window.ApplyCoefficientsInPlace(buf, p.coeffs); err != nil {
		return nil, err
	}

	coeffs, err := fftutil.RealForward(buf)
	if err != nil {
		return nil, err
	}

	return Power(coeffs), nil
}

// finish applies density scaling, one-sided folding and the exponent.
func (p *plan) finish(values []float64) {
	vecmath.ScaleBlockInPlace(values, p.scale)

	if p.cfg.oneSided {
		last := len(values) - 1
		for k := 1; k <= last; k++ {
			if k == last && p.nfft%2 == 0 {
				break
			}

			values[k] *= 2
		}
	}

	if p.cfg.exponent != 1 {
		copy(values, powValues(values, p.cfg.exponent))
	}
}

// meanOf averages the rows in index order.
func meanOf(rows [][]float64) []float64 {
	out := make([]float64, len(rows[0]))
	for _, row := range rows {
		vecmath.AddBlockInPlace(out, row)
	}

	vecmath.ScaleBlockInPlace(out, 1/float64(len(rows)))

	return out
}

// medianOf takes the per-bin median of the rows divided by the bias of the
// median of n exponentially distributed values relative to their mean.
func medianOf(rows [][]float64) []float64 {
	n := len(rows)
	bias := medianBias(n)
	column := make([]float64, n)
	out := make([]float64, len(rows[0]))

	for k := range out {
		for b, row := range rows {
			column[b] = row[k]
		}

		out[k] = median(column) / bias
	}

	return out
}

// median sorts values in place and returns their median.
func median(values []float64) float64 {
	slices.Sort(values)

	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}

	return (values[n/2-1] + values[n/2]) / 2
}

// medianBias returns 1 + sum_{i=1}^{(n-1)/2} (1/(2i+1) - 1/(2i)), which
// tends to ln 2.
func medianBias(n int) float64 {
	bias := 1.0
	for i := 1; i <= (n-1)/2; i++ {
		ii := 2 * float64(i)
		bias += 1/(ii+1) - 1/ii
	}

	return bias
}
