package config

import (
	"os"
	"strconv"

	"github.com/sanjaybasu/medicaid-frailty-bias/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Simulation SimulationConfig
	Database   DatabaseConfig
	Server     ServerConfig
	Paths      PathConfig
}

// SimulationConfig holds Monte Carlo settings
type SimulationConfig struct {
	Seed          int64
	NSim          int
	SamplePerRace int
	MaxParallel   int64 // concurrent state simulations
}

// DatabaseConfig holds the optional results-store connection settings
type DatabaseConfig struct {
	URL     string // empty disables persistence
	SSLMode string
}

// ServerConfig holds results API settings
type ServerConfig struct {
	Port string
}

// PathConfig holds file system paths
type PathConfig struct {
	CohortFile string // .xlsx or .csv cohort table; empty means synthetic cohort
	OutputDir  string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Simulation: SimulationConfig{
			Seed:          getEnvInt64OrDefault("AUDIT_SEED", 42),
			NSim:          getEnvIntOrDefault("AUDIT_NSIM", 500),
			SamplePerRace: getEnvIntOrDefault("AUDIT_SAMPLE_N", 3000),
			MaxParallel:   int64(getEnvIntOrDefault("AUDIT_MAX_PARALLEL", 4)),
		},
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Paths: PathConfig{
			CohortFile: os.Getenv("COHORT_FILE"),
			OutputDir:  getEnvOrDefault("OUTPUT_DIR", "output"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Simulation.NSim <= 0 {
		return errors.ConfigInvalid("AUDIT_NSIM must be positive")
	}
	if cfg.Simulation.SamplePerRace <= 0 {
		return errors.ConfigInvalid("AUDIT_SAMPLE_N must be positive")
	}
	if cfg.Simulation.MaxParallel <= 0 {
		return errors.ConfigInvalid("AUDIT_MAX_PARALLEL must be positive")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64OrDefault(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
