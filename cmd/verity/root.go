package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/verity/pkg/cli"
	"mercator-hq/verity/pkg/config"
	"mercator-hq/verity/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "verity",
	Short: "Verity - declarative data validation",
	Long: `Verity checks JSON and YAML documents against declarative rule files.

Rule files map field paths to rules such as require, email, min:3 or
between:1,120. Custom regular expressions, aliases and messages are declared
next to the rules. Results can be stored in SQLite and browsed later.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, err = newLogger(cfg)
		return err
	},
}

// Execute runs the root command and exits with the command's exit code.
func Execute() {
	ctx, stop := cli.SetupSignalHandler()
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults plus VERITY_* environment when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig returns the global configuration, loading it on first use.
func loadConfig() (*config.Config, error) {
	if cfg := config.GetConfig(); cfg != nil {
		return cfg, nil
	}
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	config.SetConfig(cfg)
	return cfg, nil
}

// newLogger builds the process logger from cfg and installs it as the slog
// default.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	lc := cfg.Telemetry.Logging
	if verbose {
		lc.Level = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:     lc.Level,
		Format:    lc.Format,
		AddSource: lc.AddSource,
		Writer:    os.Stderr,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.SetDefault()
	return logger, nil
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
