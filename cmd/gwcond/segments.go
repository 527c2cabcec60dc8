package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/duncanmmacleod/gwpy-laac/config"
	"github.com/duncanmmacleod/gwpy-laac/logging"
	"github.com/duncanmmacleod/gwpy-laac/segments"
)

type segmentsOutput struct {
	Flags    []config.FlagSpec `yaml:"flags"`
	Duration float64           `yaml:"duration"`
	Livetime float64           `yaml:"livetime"`
	// Coincident lists active-segment starts of the --coincide flag that
	// match an active-segment end of the result, e.g. lock losses caused
	// by a readout transition.
	Coincident []float64 `yaml:"coincident,omitempty"`
}

func newSegmentsCmd(a *app) *cobra.Command {
	var (
		op       string
		invert   bool
		contract float64
		minDur   float64
		name     string
		coincide string
		tol      float64
	)

	cmd := &cobra.Command{
		Use:   "segments FLAGS-FILE [FLAG ...]",
		Short: "Combine and reshape segment flags",
		Long: `Combines the named flags of a flag document left to right with --op, then
optionally inverts the result within its known span, contracts its active
segments and drops short ones. Without names every flag in the document is
combined. With --coincide the active starts of another flag that fall on an
active end of the result are reported, e.g. lock losses at the end of a
DC-readout segment.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := config.LoadFlags(args[0])
			if err != nil {
				return err
			}

			flags, err := selectFlags(doc, args[1:])
			if err != nil {
				return err
			}

			combine, err := flagOperator(op)
			if err != nil {
				return err
			}

			result := flags[0]
			for _, f := range flags[1:] {
				result = combine(result, f)
			}

			if invert {
				span, ok := result.Known().Span()
				if !ok {
					return fmt.Errorf("invert %q: flag has no known time", result.Name)
				}

				result, err = result.Not(span)
				if err != nil {
					return err
				}
			}

			active := result.Active().Contract(contract).Intersect(result.Known()).MinDuration(minDur)

			result, err = segments.NewFlag(result.Name, result.Known(), active)
			if err != nil {
				return err
			}

			if name != "" {
				result = result.WithName(name)
			}

			out := segmentsOutput{
				Flags:    []config.FlagSpec{config.FromFlag(result)},
				Duration: result.Duration(),
				Livetime: result.Livetime(),
			}

			if coincide != "" {
				other, err := doc.Lookup(coincide)
				if err != nil {
					return err
				}

				out.Coincident = segments.Coincident(other.Active().Starts(), result.Active().Ends(), tol)
			}

			a.logger.Info("segments combined", logging.Fields{
				"flag":     result.Name,
				"segments": result.Active().Len(),
				"livetime": out.Livetime,
			})

			return writeYAML(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&op, "op", "and", "operator combining the flags (and, or)")
	cmd.Flags().BoolVar(&invert, "not", false, "invert the result within its known span")
	cmd.Flags().Float64Var(&contract, "contract", 0, "seconds removed from both ends of each active segment; negative pads")
	cmd.Flags().Float64Var(&minDur, "min-duration", 0, "drop active segments shorter than this many seconds")
	cmd.Flags().StringVar(&name, "name", "", "name of the resulting flag")
	cmd.Flags().StringVar(&coincide, "coincide", "", "report this flag's active starts within --tol of an active end of the result")
	cmd.Flags().Float64Var(&tol, "tol", 0, "coincidence tolerance in seconds")

	return cmd
}

func selectFlags(doc config.FlagDocument, names []string) ([]segments.Flag, error) {
	if len(names) == 0 {
		flags, err := doc.ToFlags()
		if err != nil {
			return nil, err
		}

		if len(flags) == 0 {
			return nil, fmt.Errorf("flag document holds no flags")
		}

		return flags, nil
	}

	flags := make([]segments.Flag, len(names))

	for i, n := range names {
		f, err := doc.Lookup(n)
		if err != nil {
			return nil, err
		}

		flags[i] = f
	}

	return flags, nil
}

func flagOperator(op string) (func(a, b segments.Flag) segments.Flag, error) {
	switch op {
	case "and", "&":
		return segments.Flag.And, nil
	case "or", "|":
		return segments.Flag.Or, nil
	default:
		return nil, fmt.Errorf("unknown operator %q: want and|or", op)
	}
}
