package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorisk/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `validate:"required"`
	Analysis AnalysisConfig `validate:"required"`
	Data     DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string `validate:"required"`
	GinMode         string
	ShutdownTimeout time.Duration
}

// AnalysisConfig holds resampling defaults and limits
type AnalysisConfig struct {
	Iterations    int
	MaxIterations int
	Confidence    float64
	Seed          int64
	Workers       int
}

// DataConfig holds trial data source settings
type DataConfig struct {
	CountsFile string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   loadServerConfig(),
		Analysis: loadAnalysisConfig(),
		Data:     loadDataConfig(),
	}

	// Validate required fields
	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "debug"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Iterations:    getEnvIntOrDefault("RESAMPLE_ITERATIONS", 1000),
		MaxIterations: getEnvIntOrDefault("MAX_ITERATIONS", 100000),
		Confidence:    getEnvFloatOrDefault("CONFIDENCE_LEVEL", 0.95),
		Seed:          getEnvInt64OrDefault("BASE_SEED", 42),
		Workers:       getEnvIntOrDefault("RESAMPLE_WORKERS", 4),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		CountsFile: getEnvOrDefault("COUNTS_FILE", ""),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Analysis.Iterations < 1 {
		return errors.ConfigInvalid("resample iterations must be at least 1")
	}
	if config.Analysis.MaxIterations < config.Analysis.Iterations {
		return errors.ConfigInvalid(fmt.Sprintf("max iterations %d is below default iterations %d",
			config.Analysis.MaxIterations, config.Analysis.Iterations))
	}
	if config.Analysis.Confidence <= 0 || config.Analysis.Confidence >= 1 {
		return errors.ConfigInvalid("confidence level must be strictly between 0 and 1")
	}
	if config.Analysis.Workers < 1 {
		return errors.ConfigInvalid("resample workers must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
