package main

import (
	"github.com/spf13/cobra"

	"github.com/duncanmmacleod/gwpy-laac/config"
	"github.com/duncanmmacleod/gwpy-laac/logging"
	"github.com/duncanmmacleod/gwpy-laac/trigger"
)

func newGateCmd(a *app) *cobra.Command {
	var (
		flagsPath string
		flagName  string
		vetoName  string
		minSNR    float64
	)

	cmd := &cobra.Command{
		Use:   "gate TRIGGERS-FILE",
		Short: "Keep the triggers inside the active segments of a flag",
		Long: `Keeps the triggers whose time lies in an active segment of --flag,
removes those in an active segment of --veto and those quieter than
--min-snr, and writes the rest in time order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			triggers, err := config.LoadTriggers(args[0])
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

			kept := trigger.GateFlag(triggers, flag)

			if vetoName != "" {
				veto, err := doc.Lookup(vetoName)
				if err != nil {
					return err
				}

				kept = trigger.Veto(kept, veto.Active())
			}

			if cmd.Flags().Changed("min-snr") {
				kept = trigger.AboveSNR(kept, minSNR)
			}

			trigger.SortByTime(kept)

			a.logger.Info("triggers gated", logging.Fields{
				"flag": flag.Name,
				"in":   len(triggers),
				"kept": len(kept),
			})

			return writeYAML(cmd.OutOrStdout(), config.FromTriggers(kept))
		},
	}

	cmd.Flags().StringVar(&flagsPath, "flags", "", "flag document")
	cmd.Flags().StringVar(&flagName, "flag", "", "flag whose active segments keep triggers")
	cmd.Flags().StringVar(&vetoName, "veto", "", "flag whose active segments remove triggers")
	cmd.Flags().Float64Var(&minSNR, "min-snr", 0, "minimum signal-to-noise ratio")

	_ = cmd.MarkFlagRequired("flags")
	_ = cmd.MarkFlagRequired("flag")

	return cmd
}
