package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/duncanmmacleod/gwpy-laac/config"
	"github.com/duncanmmacleod/gwpy-laac/logging"
	"github.com/duncanmmacleod/gwpy-laac/timeseries/state"
)

var nonFiniteModes = map[string]state.NonFinite{
	"reject":  state.NonFiniteReject,
	"false":   state.NonFiniteFalse,
	"unknown": state.NonFiniteUnknown,
}

func newStateCmd(a *app) *cobra.Command {
	var (
		defines    []string
		minSamples int
		nonFinite  string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "state SERIES-FILE",
		Short: "Extract segment flags from a state channel",
		Long: `Evaluates one predicate per --define on every sample of a state series and
writes the runs where it holds as the active segments of a flag document.

Predicates: "== 500", "!= 0", ">= 3", "in {1, 2}", "bit 4", "not (...)".`,
		Example: `  gwcond state guardian.yaml --define 'H1:LOCKED=== 500' --define 'H1:BIT4=bit 4'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(defines) == 0 {
				return fmt.Errorf("at least one --define NAME=PREDICATE is required")
			}

			mode, ok := nonFiniteModes[nonFinite]
			if !ok {
				return fmt.Errorf("unknown --non-finite %q: want reject|false|unknown", nonFinite)
			}

			defs := make([]state.Definition, len(defines))

			for i, d := range defines {
				def, err := parseDefinition(d)
				if err != nil {
					return err
				}

				defs[i] = def
			}

			s, err := config.LoadSeries(args[0])
			if err != nil {
				return err
			}

			ex := state.NewExtractor(
				state.WithNonFinite(mode),
				state.WithMinSamples(minSamples),
				state.WithWorkers(workers),
			)

			flags, err := ex.ExtractAll(s, defs)
			if err != nil {
				return err
			}

			var doc config.FlagDocument

			for i, f := range flags {
				doc.Flags = append(doc.Flags, config.FromFlag(f))

				a.logger.Info("state flag", logging.Fields{
					"flag":      f.Name,
					"predicate": defs[i].Predicate.String(),
					"segments":  f.Active().Len(),
					"duration":  f.Duration(),
				})
			}

			return writeYAML(cmd.OutOrStdout(), doc)
		},
	}

	cmd.Flags().StringArrayVar(&defines, "define", nil, "flag definition NAME=PREDICATE, repeatable")
	cmd.Flags().IntVar(&minSamples, "min-samples", 1, "drop active runs shorter than this many samples")
	cmd.Flags().StringVar(&nonFinite, "non-finite", "reject", "NaN/Inf handling (reject, false, unknown)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent extractions (0 picks a default)")

	return cmd
}

// parseDefinition splits at the first '=' so predicates may contain "==".
func parseDefinition(text string) (state.Definition, error) {
	name, pred, ok := strings.Cut(text, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return state.Definition{}, fmt.Errorf("definition %q: want NAME=PREDICATE", text)
	}

	p, err := state.Parse(pred)
	if err != nil {
		return state.Definition{}, fmt.Errorf("definition %q: %w", text, err)
	}

	return state.Definition{Name: strings.TrimSpace(name), Predicate: p}, nil
}
