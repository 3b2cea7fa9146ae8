package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/strider/internal/config"
	"github.com/zero-day-ai/strider/internal/observability"
)

// Version is set at build time via -ldflags.
var Version = "v0.1.0"

// Global flags.
var (
	homeDir    string
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "strider",
	Short: "Strider - Reinforcement-Learning Attack-Strategy Engine",
	Long: `Strider trains a reinforcement-learning agent to sequence
penetration-testing actions against a simulated target environment.

The agent learns a policy over a fixed action catalog (reconnaissance,
vulnerability scanning, exploitation, privilege escalation and data
exfiltration), balancing exploration against the learned policy and
adapting its exploration rate to the observed success rate.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Strider home directory (default: ~/.strider)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: <home>/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveHomeDir applies the --home flag, the STRIDER_HOME environment
// variable and the built-in default, in that order.
func resolveHomeDir() string {
	if homeDir != "" {
		return homeDir
	}
	if env := os.Getenv("STRIDER_HOME"); env != "" {
		return env
	}
	return config.DefaultHomeDir()
}

// resolveConfigPath returns the effective config file path.
func resolveConfigPath() string {
	if configFile != "" {
		return configFile
	}
	return config.DefaultConfigPath(resolveHomeDir())
}

// loadConfig loads the effective configuration, falling back to defaults
// when no config file exists yet.
func loadConfig() (*config.Config, error) {
	loader := config.NewConfigLoader(config.NewValidator())
	return loader.LoadWithDefaults(resolveConfigPath())
}

// buildLogger constructs the process logger from the logging config,
// with --verbose forcing debug level.
func buildLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return observability.NewLogger(os.Stderr, cfg.Logging.Format, level, "strider")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Strider %s\n", Version)
	},
}
