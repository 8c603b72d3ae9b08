package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for synthgen
type Config struct {
	// Database configuration for the import command
	Database DatabaseConfig `mapstructure:"database"`

	// Data generation configuration
	Generate GenerateConfig `mapstructure:"generate"`

	// Logging
	Verbose bool `mapstructure:"verbose"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	// Connection string (DSN)
	// Format: user:password@tcp(host:port)/database
	DSN string `mapstructure:"dsn"`

	// Connection pool settings
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// GenerateConfig holds data generation settings
type GenerateConfig struct {
	// Random seed for reproducibility (0 = random)
	Seed int64 `mapstructure:"seed"`

	// Output directory for generated datasets
	OutputDir string `mapstructure:"output_dir"`

	// NumUsers is the number of synthetic user profiles
	NumUsers int `mapstructure:"num_users"`

	// HistoryMonths is the transaction window length in 30-day months
	HistoryMonths int `mapstructure:"history_months"`

	// StartDate pins the window start (YYYY-MM-DD). Empty means
	// history_months before today.
	StartDate string `mapstructure:"start_date"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Generate: GenerateConfig{
			Seed:          DefaultSeed,
			OutputDir:     DefaultOutputDir,
			NumUsers:      DefaultNumUsers,
			HistoryMonths: DefaultHistoryMonths,
		},
		Verbose: false,
	}
}

// Load reads configuration from viper into a Config struct
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []string

	if c.Generate.NumUsers < 0 {
		errs = append(errs, "generate.num_users must be non-negative")
	}
	if c.Generate.HistoryMonths <= 0 {
		errs = append(errs, "generate.history_months must be positive")
	}
	if c.Generate.Seed < 0 {
		errs = append(errs, "generate.seed must be non-negative")
	}
	if c.Generate.OutputDir == "" {
		errs = append(errs, "generate.output_dir must not be empty")
	}
	if c.Generate.StartDate != "" {
		if _, err := time.Parse("2006-01-02", c.Generate.StartDate); err != nil {
			errs = append(errs, fmt.Sprintf("generate.start_date %q is not YYYY-MM-DD", c.Generate.StartDate))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// WindowStart resolves the configured start date. The zero time means
// the caller should derive the start from history_months.
func (c *Config) WindowStart() (time.Time, error) {
	if c.Generate.StartDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", c.Generate.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_date: %w", err)
	}
	return t, nil
}
