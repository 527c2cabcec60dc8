package main

import (
	"github.com/spf13/cobra"

	"github.com/duncanmmacleod/gwpy-laac/config"
	"github.com/duncanmmacleod/gwpy-laac/dsp/spectrum"
	"github.com/duncanmmacleod/gwpy-laac/measure/conditioning"
)

type spectrogramOutput struct {
	Channel      string            `yaml:"channel"`
	Flag         string            `yaml:"flag"`
	Coverage     float64           `yaml:"coverage"`
	Skipped      [][]float64       `yaml:"skipped,omitempty"`
	Spectrograms []spectrogramData `yaml:"spectrograms"`
}

type spectrogramData struct {
	Epoch    float64 `yaml:"epoch"`
	Stride   float64 `yaml:"stride"`
	F0       float64 `yaml:"f0"`
	Df       float64 `yaml:"df"`
	Exponent float64 `yaml:"exponent"`
	// Times holds bin start times; with --median a single entry.
	Times  []float64   `yaml:"times,flow"`
	Values [][]float64 `yaml:"values"`
}

func newSpectrogramCmd(a *app) *cobra.Command {
	var (
		af         analysisFlags
		flagsPath  string
		flagName   string
		fmin, fmax float64
		med        bool
	)

	cmd := &cobra.Command{
		Use:   "spectrogram SERIES-FILE",
		Short: "Compute conditioned spectrograms over the active segments of a flag",
		Long: `Crops the series to each active segment of --flag, computes a spectrogram
per segment and applies the analysis filter stages to every bin. Segments
shorter than one bin are skipped and listed in the output.`,
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

			doc, err := config.LoadFlags(flagsPath)
			if err != nil {
				return err
			}

			flag, err := doc.Lookup(flagName)
			if err != nil {
				return err
			}

			sgs, report, err := conditioning.SegmentSpectrograms(s, flag, cfg)
			if err != nil {
				return err
			}

			out := spectrogramOutput{
				Channel:  s.Channel,
				Flag:     flag.Name,
				Coverage: report.Coverage,
			}

			for _, iv := range report.Skipped {
				out.Skipped = append(out.Skipped, []float64{iv.Start, iv.End})
			}

			crop := cmd.Flags().Changed("fmin") || cmd.Flags().Changed("fmax")

			for _, sg := range sgs {
				if crop {
					hi := fmax
					if !cmd.Flags().Changed("fmax") {
						hi = sg.F0 + float64(sg.Bins()-1)*sg.Df
					}

					sg, err = sg.Crop(fmin, hi)
					if err != nil {
						return err
					}
				}

				data, err := spectrogramDocument(sg, med)
				if err != nil {
					return err
				}

				out.Spectrograms = append(out.Spectrograms, data)
			}

			return writeYAML(cmd.OutOrStdout(), out)
		},
	}

	af.register(cmd)
	cmd.Flags().StringVar(&flagsPath, "flags", "", "flag document")
	cmd.Flags().StringVar(&flagName, "flag", "", "flag whose active segments are analysed")
	cmd.Flags().Float64Var(&fmin, "fmin", 0, "lowest frequency kept in Hz")
	cmd.Flags().Float64Var(&fmax, "fmax", 0, "highest frequency kept in Hz")
	cmd.Flags().BoolVar(&med, "median", false, "write the per-segment median spectrum instead of every bin")

	_ = cmd.MarkFlagRequired("flags")
	_ = cmd.MarkFlagRequired("flag")

	return cmd
}

func spectrogramDocument(sg spectrum.Spectrogram, med bool) (spectrogramData, error) {
	data := spectrogramData{
		Epoch:    sg.At(0).Epoch,
		Stride:   sg.Stride,
		F0:       sg.F0,
		Df:       sg.Df,
		Exponent: sg.Exponent,
	}

	if med {
		m, err := sg.Median()
		if err != nil {
			return spectrogramData{}, err
		}

		data.Times = []float64{m.Epoch}
		data.Values = [][]float64{m.Values()}

		return data, nil
	}

	data.Times = sg.Times()
	for _, c := range sg.Columns() {
		data.Values = append(data.Values, c.Values())
	}

	return data, nil
}
