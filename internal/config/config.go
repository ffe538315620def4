package config

import (
	"fmt"

	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/spf13/viper"
)

// Default values for configuration keys.
const (
	DefaultDatabasePath  = "~/.local/share/gpa/gpa.db"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultServerAddress = ":8080"
	DefaultFutureCredits = 15.0
	DefaultFinalTarget   = 90.0
	DefaultFinalWeight   = 25.0
	DefaultPlanTarget    = 3.5
)

// Config is the typed view of the application's settings.
type Config struct {
	Logging  LoggingConfig
	Database DatabaseConfig
	Server   ServerConfig
	Targets  TargetConfig
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string
	Format string
}

// DatabaseConfig locates the session store.
type DatabaseConfig struct {
	Path string
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address string
}

// TargetConfig holds the defaults of the target solvers.
type TargetConfig struct {
	FinalTarget   float64
	FinalWeight   float64
	PlanTarget    float64
	FutureCredits float64
}

// SetDefaults registers every default with viper.
func SetDefaults() {
	viper.SetDefault("logging.level", DefaultLogLevel)
	viper.SetDefault("logging.format", DefaultLogFormat)
	viper.SetDefault("database.path", DefaultDatabasePath)
	viper.SetDefault("server.address", DefaultServerAddress)
	viper.SetDefault("final.target", DefaultFinalTarget)
	viper.SetDefault("final.weight", DefaultFinalWeight)
	viper.SetDefault("planning.target", DefaultPlanTarget)
	viper.SetDefault("planning.future_credits", DefaultFutureCredits)
}

// Load reads the configuration from viper and validates it.
func Load() (*Config, error) {
	SetDefaults()

	cfg := &Config{
		Logging: LoggingConfig{
			Level:  viper.GetString("logging.level"),
			Format: viper.GetString("logging.format"),
		},
		Database: DatabaseConfig{
			Path: DatabasePath(),
		},
		Server: ServerConfig{
			Address: viper.GetString("server.address"),
		},
		Targets: TargetConfig{
			FinalTarget:   viper.GetFloat64("final.target"),
			FinalWeight:   viper.GetFloat64("final.weight"),
			PlanTarget:    viper.GetFloat64("planning.target"),
			FutureCredits: viper.GetFloat64("planning.future_credits"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the ranges of the numeric settings.
func (c *Config) Validate() error {
	if c.Targets.FinalWeight <= 0 || c.Targets.FinalWeight > 100 {
		return fmt.Errorf("%w: final.weight must be in (0, 100], got %g", common.ErrInvalidConfig, c.Targets.FinalWeight)
	}
	if c.Targets.FinalTarget < 0 {
		return fmt.Errorf("%w: final.target cannot be negative", common.ErrInvalidConfig)
	}
	if c.Targets.PlanTarget < 0 || c.Targets.PlanTarget > 4 {
		return fmt.Errorf("%w: planning.target must be between 0 and 4, got %g", common.ErrInvalidConfig, c.Targets.PlanTarget)
	}
	if c.Targets.FutureCredits <= 0 {
		return fmt.Errorf("%w: planning.future_credits must be positive", common.ErrInvalidConfig)
	}
	if c.Server.Address == "" {
		return fmt.Errorf("%w: server.address is empty", common.ErrMissingConfig)
	}
	return nil
}
