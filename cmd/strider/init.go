package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/strider/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize Strider configuration",
	Long: `Initialize Strider by creating the home directory structure and
writing the default configuration file.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	home := resolveHomeDir()
	configPath := config.DefaultConfigPath(home)

	cmd.Printf("Initializing Strider in %s...\n", home)

	dirs := []string{
		home,
		filepath.Join(home, "data"),
		filepath.Join(home, "checkpoints"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
	}

	cfg := config.DefaultConfig()
	cfg.Core.DataDir = filepath.Join(home, "data")

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize default config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cmd.Println("\nStrider initialized successfully!")
	cmd.Printf("  Home directory: %s\n", home)
	cmd.Printf("  Config file:    %s\n", configPath)
	cmd.Println("\nRun 'strider train' to start training")

	return nil
}
