package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/duncanmmacleod/gwpy-laac/dsp/window"
	"github.com/duncanmmacleod/gwpy-laac/logging"
)

func newWindowsCmd(a *app) *cobra.Command {
	var (
		size     int
		alpha    float64
		periodic bool
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "windows [window-name ...]",
		Short: "Print spectral properties of the estimator windows",
		Long: `Prints coherent gain, noise bandwidth, 3 dB bandwidth, scalloping loss and
the recommended Welch overlap of each window. Without arguments every
window is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, t := range window.Types() {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}

				return nil
			}

			types := window.Types()

			if len(args) > 0 {
				types = types[:0:0]

				for _, name := range args {
					t, err := window.Parse(name)
					if err != nil {
						return err
					}

					types = append(types, t)
				}
			}

			var opts []window.Option
			if periodic {
				opts = append(opts, window.WithPeriodic())
			}

			if size < 2 {
				return fmt.Errorf("window size %d: need at least 2 samples", size)
			}

			a.logger.Debug("window analysis", logging.Fields{"size": size, "windows": len(types)})

			return printWindows(cmd.OutOrStdout(), types, size, alpha, opts)
		},
	}

	cmd.Flags().IntVar(&size, "size", 1024, "window length in samples")
	cmd.Flags().Float64Var(&alpha, "alpha", math.NaN(), "shape parameter for parametric windows (kaiser, tukey, gauss)")
	cmd.Flags().BoolVar(&periodic, "periodic", false, "use the periodic (DFT-even) form used by the estimators")
	cmd.Flags().BoolVar(&list, "list", false, "list window names")

	return cmd
}

func printWindows(w io.Writer, types []window.Type, size int, alpha float64, baseOpts []window.Option) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Window\tSize\tCoherent Gain\tENBW [bins]\tBW 3dB [bins]\tScallop [dB]\tPower Gain\tOverlap\n")
	fmt.Fprintf(tw, "------\t----\t-------------\t-----------\t-------------\t------------\t----------\t-------\n")

	for _, t := range types {
		info := window.Info(t)
		opts := baseOpts
		label := info.Name

		if info.Parametric {
			a := info.DefaultAlpha
			if !math.IsNaN(alpha) {
				a = alpha
			}

			opts = append(opts[:len(opts):len(opts)], window.WithAlpha(a))
			label = fmt.Sprintf("%s (a=%.2f)", info.Name, a)
		}

		r := window.Analyze(window.Generate(t, size, opts...))

		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.4f\t%.4f\t%.4f\t%.6f\t%.3f\n",
			label, size, r.CoherentGain, r.ENBW, r.Bandwidth3dB, r.ScallopLossdB, r.PowerGain, info.RecommendedOverlap)
	}

	return tw.Flush()
}
