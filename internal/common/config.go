// Package common provides shared utilities for Finch
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Finch
type Config struct {
	Environment     string        `toml:"environment"`
	DisplayCurrency string        `toml:"display_currency"` // default display currency ISO code
	Server          ServerConfig  `toml:"server"`
	Storage         StorageConfig `toml:"storage"`
	Auth            AuthConfig    `toml:"auth"`
	Advisor         AdvisorConfig `toml:"advisor"`
	Logging         LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds storage backend configuration.
// Driver selects the backend: "surrealdb" (default) or "file".
type StorageConfig struct {
	Driver    string `toml:"driver"`
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	DataPath  string `toml:"data_path"` // base path for the file driver and chart output
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret      string `toml:"jwt_secret"`
	TokenExpiry    string `toml:"token_expiry"`     // duration string, default "24h"
	LoginRateLimit int    `toml:"login_rate_limit"` // login attempts per minute per address
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// AdvisorConfig holds AI advisor configuration.
type AdvisorConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:     "development",
		DisplayCurrency: "USD",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Driver:    "surrealdb",
			Address:   "ws://localhost:8000",
			Username:  "root",
			Password:  "root",
			Namespace: "finch",
			Database:  "finch",
			DataPath:  "data",
		},
		Auth: AuthConfig{
			JWTSecret:      "dev-jwt-secret-change-in-production",
			TokenExpiry:    "24h",
			LoginRateLimit: 10,
		},
		Advisor: AdvisorConfig{
			Model: "gemini-2.0-flash",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateDisplayCurrency(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINCH_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FINCH_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FINCH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FINCH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if driver := os.Getenv("FINCH_STORAGE_DRIVER"); driver != "" {
		config.Storage.Driver = driver
	}

	if addr := os.Getenv("FINCH_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}

	if path := os.Getenv("FINCH_DATA_PATH"); path != "" {
		config.Storage.DataPath = filepath.Clean(path)
	}

	if dc := os.Getenv("FINCH_DISPLAY_CURRENCY"); dc != "" {
		config.DisplayCurrency = strings.ToUpper(dc)
	}

	if v := os.Getenv("FINCH_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("FINCH_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}

	if v := os.Getenv("FINCH_ADVISOR_API_KEY"); v != "" {
		config.Advisor.APIKey = v
	}
	if v := os.Getenv("FINCH_ADVISOR_MODEL"); v != "" {
		config.Advisor.Model = v
	}
}

// validateDisplayCurrency normalizes the configured currency to a 3-letter
// upper-case ISO code, falling back to USD.
func validateDisplayCurrency(config *Config) {
	dc := strings.ToUpper(strings.TrimSpace(config.DisplayCurrency))
	if len(dc) != 3 {
		dc = "USD"
	}
	config.DisplayCurrency = dc
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
