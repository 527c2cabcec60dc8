package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/duncanmmacleod/gwpy-laac/config"
	"github.com/duncanmmacleod/gwpy-laac/dsp/spectrum"
	"github.com/duncanmmacleod/gwpy-laac/logging"
	"github.com/duncanmmacleod/gwpy-laac/measure/blrms"
)

var seismicBands = []blrms.Band{
	blrms.Band30mHz100mHz,
	blrms.Band100mHz300mHz,
	blrms.Band300mHz1Hz,
	blrms.Band1Hz3Hz,
	blrms.Band3Hz10Hz,
	blrms.Band10Hz30Hz,
}

func newBLRMSCmd(a *app) *cobra.Command {
	var (
		bands     []string
		bin       float64
		fftLength float64
		overlap   float64
	)

	cmd := &cobra.Command{
		Use:   "blrms SERIES-FILE",
		Short: "Compute band-limited RMS trends of a series",
		Long: `Writes one trend per band, sampled once per spectrogram bin. Without
--band the standard seismic bands from 30 mHz to 30 Hz are used; bands
above the Nyquist frequency fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := seismicBands

			if len(bands) > 0 {
				selected = make([]blrms.Band, len(bands))

				for i, b := range bands {
					band, err := parseBand(b)
					if err != nil {
						return err
					}

					selected[i] = band
				}
			}

			s, err := config.LoadSeries(args[0])
			if err != nil {
				return err
			}

			sg, err := spectrum.NewSpectrogram(s, bin, fftLength,
				spectrum.WithOverlap(overlap), spectrum.WithLogger(a.logger))
			if err != nil {
				return err
			}

			trends, err := blrms.Bands(sg, selected)
			if err != nil {
				return err
			}

			docs := make([]config.SeriesDocument, len(trends))
			for i, tr := range trends {
				docs[i] = config.FromSeries(tr)
			}

			a.logger.Info("blrms trends", logging.Fields{"channel": s.Channel, "bands": len(trends), "bins": sg.Len()})

			return writeYAML(cmd.OutOrStdout(), docs)
		},
	}

	cmd.Flags().StringArrayVar(&bands, "band", nil, "frequency band LOW,HIGH in Hz, repeatable")
	cmd.Flags().Float64Var(&bin, "bin", 60, "trend sample interval in seconds")
	cmd.Flags().Float64Var(&fftLength, "fft-length", 8, "Welch segment length in seconds")
	cmd.Flags().Float64Var(&overlap, "overlap", 4, "Welch segment overlap in seconds")

	return cmd
}

func parseBand(text string) (blrms.Band, error) {
	lo, hi, ok := strings.Cut(text, ",")
	if !ok {
		return blrms.Band{}, fmt.Errorf("band %q: want LOW,HIGH", text)
	}

	low, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return blrms.Band{}, fmt.Errorf("band %q: %w", text, err)
	}

	high, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return blrms.Band{}, fmt.Errorf("band %q: %w", text, err)
	}

	if !(high > low) {
		return blrms.Band{}, fmt.Errorf("band %q: high edge must exceed low edge", text)
	}

	return blrms.Band{Low: low, High: high}, nil
}
