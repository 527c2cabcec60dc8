package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/duncanmmacleod/gwpy-laac/config"
	"github.com/duncanmmacleod/gwpy-laac/dsp/spectrum"
	"github.com/duncanmmacleod/gwpy-laac/logging"
	"github.com/duncanmmacleod/gwpy-laac/measure/conditioning"
	"github.com/duncanmmacleod/gwpy-laac/stats/frequency"
)

func newASDCmd(a *app) *cobra.Command {
	var (
		af         analysisFlags
		fmin, fmax float64
	)

	cmd := &cobra.Command{
		Use:   "asd SERIES-FILE",
		Short: "Print the conditioned amplitude spectral density of a series",
		Long: `Applies the highpass and zero-pole-gain stages of the analysis to the
series and prints its Welch estimate, one frequency per row.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := af.resolve(cmd, a)
			if err != nil {
				return err
			}

			s, err := config.LoadSeries(args[0])
			if err != nil {
				return err
			}

			asd, err := conditioning.ConditionedASD(s, cfg)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("fmin") || cmd.Flags().Changed("fmax") {
				hi := fmax
				if !cmd.Flags().Changed("fmax") {
					hi = asd.Frequency(asd.Len() - 1)
				}

				asd, err = asd.Crop(fmin, hi)
				if err != nil {
					return err
				}
			}

			shape, err := frequency.Calculate(asd)
			if err != nil {
				return err
			}

			a.logger.Info("asd", logging.Fields{
				"channel":   s.Channel,
				"bins":      asd.Len(),
				"df":        asd.Df,
				"peak_freq": shape.PeakFrequency,
				"centroid":  shape.Centroid,
				"flatness":  shape.Flatness,
			})

			return printSpectrum(cmd.OutOrStdout(), asd)
		},
	}

	af.register(cmd)
	cmd.Flags().Float64Var(&fmin, "fmin", 0, "lowest frequency printed in Hz")
	cmd.Flags().Float64Var(&fmax, "fmax", 0, "highest frequency printed in Hz")

	return cmd
}

func printSpectrum(w io.Writer, s spectrum.Spectrum) error {
	unit := "ASD"
	if s.Exponent == 1 {
		unit = "PSD"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Frequency [Hz]\t%s\n", unit)
	fmt.Fprintf(tw, "--------------\t---\n")

	for k := range s.Len() {
		fmt.Fprintf(tw, "%g\t%.6e\n", s.Frequency(k), s.At(k))
	}

	return tw.Flush()
}
