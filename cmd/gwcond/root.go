package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/duncanmmacleod/gwpy-laac/logging"
)

const envPrefix = "GWCOND"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v      *viper.Viper
	logger logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: logging.NewNop()}

	var configFile string

	root := &cobra.Command{
		Use:   "gwcond",
		Short: "Segment algebra and spectral conditioning of detector data",
		Long: `gwcond combines data-quality segment flags, extracts flags from state
channels, and computes conditioned amplitude spectral densities and
spectrograms of sampled channels.

Inputs and outputs are YAML documents (JSON is accepted).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize(cmd, configFile)
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file holding flag defaults")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "log as JSON instead of console text")

	root.AddCommand(
		newWindowsCmd(a),
		newSegmentsCmd(a),
		newStateCmd(a),
		newASDCmd(a),
		newSpectrogramCmd(a),
		newGateCmd(a),
		newBLRMSCmd(a),
		newStatsCmd(a),
	)

	return root
}

// initialize merges the config file and environment into the parsed flags
// and builds the logger.
func (a *app) initialize(cmd *cobra.Command, configFile string) error {
	if configFile != "" {
		a.v.SetConfigFile(configFile)

		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %q: %w", configFile, err)
		}
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	if err := bindFlags(cmd, a.v); err != nil {
		return err
	}

	level, err := logging.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}

	build := logging.New
	if a.v.GetBool("log-json") {
		build = logging.NewJSON
	}

	a.logger, err = build(level)

	return err
}

// bindFlags fills every flag the user did not set from the config file or
// environment, then binds it to v.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		env := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))

		if err := v.BindEnv(f.Name, env); err != nil {
			lastErr = err
		}

		if !f.Changed && v.IsSet(f.Name) {
			if err := setFlag(cmd.Flags(), f, v.Get(f.Name)); err != nil {
				lastErr = fmt.Errorf("flag --%s: %w", f.Name, err)
			}
		}

		if err := v.BindPFlag(f.Name, f); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

// setFlag assigns a config value, expanding lists for repeatable flags.
func setFlag(fs *pflag.FlagSet, f *pflag.Flag, val any) error {
	items, ok := val.([]any)
	if !ok {
		return fs.Set(f.Name, fmt.Sprintf("%v", val))
	}

	for _, item := range items {
		if err := fs.Set(f.Name, fmt.Sprintf("%v", item)); err != nil {
			return err
		}
	}

	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return err
	}

	return enc.Close()
}
