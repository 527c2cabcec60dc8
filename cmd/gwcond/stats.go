package main

import (
	"github.com/spf13/cobra"

	"github.com/duncanmmacleod/gwpy-laac/config"
	"github.com/duncanmmacleod/gwpy-laac/logging"
	"github.com/duncanmmacleod/gwpy-laac/measure/conditioning"
	"github.com/duncanmmacleod/gwpy-laac/stats/frequency"
	timestats "github.com/duncanmmacleod/gwpy-laac/stats/time"
)

type statsOutput struct {
	Channel   string           `yaml:"channel"`
	Flag      string           `yaml:"flag,omitempty"`
	Time      timestats.Stats  `yaml:"time"`
	Frequency *frequency.Stats `yaml:"frequency,omitempty"`
}

func newStatsCmd(a *app) *cobra.Command {
	var (
		af        analysisFlags
		flagsPath string
		flagName  string
		spectral  bool
	)

	cmd := &cobra.Command{
		Use:   "stats SERIES-FILE",
		Short: "Summarise a series in the time and frequency domains",
		Long: `Writes time-domain statistics of the series, restricted to the active
segments of --flag when given. With --spectral the shape of the
conditioned ASD of the whole series is summarised as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadSeries(args[0])
			if err != nil {
				return err
			}

			out := statsOutput{Channel: s.Channel}

			if flagName != "" {
				doc, err := config.LoadFlags(flagsPath)
				if err != nil {
					return err
				}

				flag, err := doc.Lookup(flagName)
				if err != nil {
					return err
				}

				out.Flag = flag.Name

				out.Time, err = timestats.OverFlag(s, flag)
				if err != nil {
					return err
				}
			} else {
				out.Time, err = timestats.Calculate(s)
				if err != nil {
					return err
				}
			}

			if spectral {
				cfg, err := af.resolve(cmd, a)
				if err != nil {
					return err
				}

				asd, err := conditioning.ConditionedASD(s, cfg)
				if err != nil {
					return err
				}

				fs, err := frequency.Calculate(asd)
				if err != nil {
					return err
				}

				out.Frequency = &fs
			}

			a.logger.Debug("series stats", logging.Fields{"channel": s.Channel, "samples": out.Time.Length})

			return writeYAML(cmd.OutOrStdout(), out)
		},
	}

	af.register(cmd)
	cmd.Flags().StringVar(&flagsPath, "flags", "", "flag document")
	cmd.Flags().StringVar(&flagName, "flag", "", "restrict time statistics to this flag's active segments")
	cmd.Flags().BoolVar(&spectral, "spectral", false, "also summarise the conditioned ASD")
	cmd.MarkFlagsRequiredTogether("flags", "flag")

	return cmd
}
