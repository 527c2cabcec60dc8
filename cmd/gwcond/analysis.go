package main

import (
	"github.com/spf13/cobra"

	"github.com/duncanmmacleod/gwpy-laac/config"
	"github.com/duncanmmacleod/gwpy-laac/measure/conditioning"
)

// analysisFlags overlays command-line estimator settings on an analysis
// document.
type analysisFlags struct {
	path        string
	fftLength   float64
	overlap     float64
	window      string
	average     string
	binDuration float64
	highpass    float64
	order       int
	workers     int
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	d := config.DefaultAnalysis()

	cmd.Flags().StringVar(&f.path, "analysis", "", "analysis document with estimator and filter settings")
	cmd.Flags().Float64Var(&f.fftLength, "fft-length", d.FFTLength, "Welch segment length in seconds")
	cmd.Flags().Float64Var(&f.overlap, "overlap", d.Overlap, "Welch segment overlap in seconds")
	cmd.Flags().StringVar(&f.window, "window", d.Window, "Welch window")
	cmd.Flags().StringVar(&f.average, "average", d.Average, "periodogram average (mean, median)")
	cmd.Flags().Float64Var(&f.binDuration, "bin", d.BinDuration, "spectrogram bin duration in seconds")
	cmd.Flags().Float64Var(&f.highpass, "highpass", 0, "Butterworth highpass cutoff in Hz (0 disables)")
	cmd.Flags().IntVar(&f.order, "highpass-order", 8, "Butterworth highpass order")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "concurrent estimates (0 picks a default)")
}

// resolve loads the analysis document, if any, and applies the flags the
// user set explicitly or through the config file and environment.
func (f *analysisFlags) resolve(cmd *cobra.Command, a *app) (conditioning.Config, error) {
	an := config.DefaultAnalysis()

	if f.path != "" {
		loaded, err := config.LoadAnalysis(f.path)
		if err != nil {
			return conditioning.Config{}, err
		}

		an = loaded
	}

	changed := cmd.Flags().Changed

	if changed("fft-length") {
		an.FFTLength = f.fftLength
	}

	if changed("overlap") {
		an.Overlap = f.overlap
	}

	if changed("window") {
		an.Window = f.window
	}

	if changed("average") {
		an.Average = f.average
	}

	if changed("bin") {
		an.BinDuration = f.binDuration
	}

	if changed("workers") {
		an.Workers = f.workers
	}

	if changed("highpass") {
		an.Highpass = nil
		if f.highpass > 0 {
			an.Highpass = &config.HighpassSpec{Cutoff: f.highpass, Order: f.order}
		}
	} else if changed("highpass-order") && an.Highpass != nil {
		an.Highpass.Order = f.order
	}

	return an.Conditioning(a.logger)
}
