package config

import (
	"os"
	"strconv"
	"time"

	"riskexplorer/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Fetch   FetchConfig
	Session SessionConfig
	Chart   ChartConfig
	Log     LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds data loading settings
type DataConfig struct {
	DefaultCSVPath string
	MaxUploadBytes int64
	PreviewRows    int
}

// FetchConfig holds remote CSV fetch settings
type FetchConfig struct {
	Timeout       time.Duration
	MaxConcurrent int64
	MaxBodyBytes  int64
}

// SessionConfig holds upload store settings
type SessionConfig struct {
	UploadTTL  time.Duration
	MaxEntries int
}

// ChartConfig holds chart canvas size in pixels
type ChartConfig struct {
	Width  int
	Height int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

const megabyte = 1024 * 1024

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Data: DataConfig{
			DefaultCSVPath: getEnvOrDefault("DEFAULT_CSV_PATH", "heart.csv"),
			MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 50)) * megabyte,
			PreviewRows:    getEnvIntOrDefault("PREVIEW_ROWS", 1000),
		},
		Fetch: FetchConfig{
			Timeout:       getEnvDurationOrDefault("FETCH_TIMEOUT", 30*time.Second),
			MaxConcurrent: int64(getEnvIntOrDefault("FETCH_MAX_CONCURRENT", 4)),
			MaxBodyBytes:  int64(getEnvIntOrDefault("FETCH_MAX_MB", 50)) * megabyte,
		},
		Session: SessionConfig{
			UploadTTL:  getEnvDurationOrDefault("UPLOAD_TTL", time.Hour),
			MaxEntries: getEnvIntOrDefault("UPLOAD_MAX_ENTRIES", 64),
		},
		Chart: ChartConfig{
			Width:  getEnvIntOrDefault("CHART_WIDTH", 1000),
			Height: getEnvIntOrDefault("CHART_HEIGHT", 500),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8080", GinMode: "debug"},
		Data:    DataConfig{DefaultCSVPath: "heart.csv", MaxUploadBytes: 50 * megabyte, PreviewRows: 1000},
		Fetch:   FetchConfig{Timeout: 30 * time.Second, MaxConcurrent: 4, MaxBodyBytes: 50 * megabyte},
		Session: SessionConfig{UploadTTL: time.Hour, MaxEntries: 64},
		Chart:   ChartConfig{Width: 1000, Height: 500},
		Log:     LogConfig{Level: "INFO"},
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Data.DefaultCSVPath == "" {
		return errors.ConfigInvalid("DEFAULT_CSV_PATH must not be empty")
	}
	if config.Data.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Data.PreviewRows <= 0 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be positive")
	}
	if config.Fetch.Timeout <= 0 {
		return errors.ConfigInvalid("FETCH_TIMEOUT must be positive")
	}
	if config.Fetch.MaxConcurrent <= 0 {
		return errors.ConfigInvalid("FETCH_MAX_CONCURRENT must be positive")
	}
	if config.Fetch.MaxBodyBytes <= 0 {
		return errors.ConfigInvalid("FETCH_MAX_MB must be positive")
	}
	if config.Session.MaxEntries <= 0 {
		return errors.ConfigInvalid("UPLOAD_MAX_ENTRIES must be positive")
	}
	if config.Chart.Width < 100 || config.Chart.Height < 100 {
		return errors.ConfigInvalid("chart canvas must be at least 100x100")
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
