package config

import (
	"os"
	"path/filepath"
)

// DefaultConfig returns the stock configuration. Every required
// hyperparameter is populated, so the defaults always validate.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			DataDir: filepath.Join(DefaultHomeDir(), "data"),
			Debug:   false,
			Seed:    0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		AI: AIConfig{
			LearningRate:    0.001,
			Gamma:           0.99,
			Tau:             0.005,
			BatchSize:       32,
			MemorySize:      10000,
			ExplorationRate: 0.1,
			HiddenSize:      128,
		},
		Environment: EnvironmentConfig{
			MaxSteps:         1000,
			RewardSuccess:    100,
			RewardFailure:    -10,
			RewardDiscovery:  5,
			RewardEscalation: 50,
		},
	}
}

// DefaultHomeDir returns the Strider home directory (~/.strider).
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".strider"
	}
	return filepath.Join(home, ".strider")
}

// DefaultConfigPath returns the config file path under a home directory.
func DefaultConfigPath(homeDir string) string {
	return filepath.Join(homeDir, "config.yaml")
}
