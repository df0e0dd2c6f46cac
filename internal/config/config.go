package config

import (
	"os"
	"strconv"
	"strings"

	"filplus/domain/dataset"
	"filplus/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Log       LogConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds input dataset settings
type DataConfig struct {
	File            string
	DuplicatePolicy string
	HistogramBins   int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		Log:       LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
		Profiling: *loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8050"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:            getEnvOrDefault("DATA_FILE", "assets/filplus_data.csv"),
		DuplicatePolicy: strings.ToLower(getEnvOrDefault("DUPLICATE_POLICY", string(dataset.DuplicateLatest))),
		HistogramBins:   getEnvIntOrDefault("HISTOGRAM_BINS", 30),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Data.File == "" {
		return errors.ConfigInvalid("DATA_FILE is required")
	}
	if _, err := dataset.ParseDuplicatePolicy(config.Data.DuplicatePolicy); err != nil {
		return errors.ConfigInvalid("DUPLICATE_POLICY: " + err.Error())
	}
	if config.Data.HistogramBins < 1 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be positive")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
