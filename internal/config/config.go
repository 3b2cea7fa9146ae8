// Package config defines and loads Strider's YAML configuration. Missing
// or out-of-range hyperparameters are a fatal error at load time; the
// training core never sees a partially valid configuration.
package config

// Config is the root configuration for Strider.
type Config struct {
	Core        CoreConfig        `mapstructure:"core" yaml:"core"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	AI          AIConfig          `mapstructure:"ai" yaml:"ai" validate:"required"`
	Environment EnvironmentConfig `mapstructure:"environment" yaml:"environment" validate:"required"`
}

// CoreConfig contains core application settings.
type CoreConfig struct {
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	Debug   bool   `mapstructure:"debug" yaml:"debug"`
	// Seed fixes the random source for reproducible runs; 0 means seed
	// from the clock.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AIConfig contains the learning hyperparameters. Every field is required;
// the agent cannot be constructed without them.
type AIConfig struct {
	LearningRate    float64 `mapstructure:"learning_rate" yaml:"learning_rate" validate:"required,gt=0"`
	Gamma           float64 `mapstructure:"gamma" yaml:"gamma" validate:"required,gt=0,lte=1"`
	Tau             float64 `mapstructure:"tau" yaml:"tau" validate:"gte=0,lte=1"`
	BatchSize       int     `mapstructure:"batch_size" yaml:"batch_size" validate:"required,min=1"`
	MemorySize      int     `mapstructure:"memory_size" yaml:"memory_size" validate:"required,min=1"`
	ExplorationRate float64 `mapstructure:"exploration_rate" yaml:"exploration_rate" validate:"gte=0,lte=1"`
	HiddenSize      int     `mapstructure:"hidden_size" yaml:"hidden_size" validate:"required,min=1"`
}

// EnvironmentConfig contains the simulated-environment knobs: the episode
// step cap and the four reward constants.
type EnvironmentConfig struct {
	MaxSteps         int     `mapstructure:"max_steps" yaml:"max_steps" validate:"required,min=1"`
	RewardSuccess    float64 `mapstructure:"reward_success" yaml:"reward_success" validate:"required,gt=0"`
	RewardFailure    float64 `mapstructure:"reward_failure" yaml:"reward_failure" validate:"required,lt=0"`
	RewardDiscovery  float64 `mapstructure:"reward_discovery" yaml:"reward_discovery" validate:"required,gt=0"`
	RewardEscalation float64 `mapstructure:"reward_escalation" yaml:"reward_escalation" validate:"required,gt=0"`
}
