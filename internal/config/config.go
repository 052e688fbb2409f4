// Package config loads process configuration from the environment.
package config

import (
	"os"
)

// Config holds everything the process needs at startup. Built once in main
// and passed down explicitly; components never read the environment
// themselves.
type Config struct {
	APIKey      string // Anthropic API key (may be filled in by a prompt)
	DSN         string // SQL Server connection string for the Lahman database
	ModelsPath  string // optional models.yaml override
	TelemetryDB string // optional sqlite usage journal; empty disables it
	ModelKey    string // initial model registry key
}

// FromEnv builds a Config from environment variables, applying defaults.
// Callers should load .env files (godotenv) before calling this.
func FromEnv() Config {
	cfg := Config{
		APIKey:      os.Getenv(EnvAPIKey),
		DSN:         os.Getenv(EnvDSN),
		ModelsPath:  os.Getenv(EnvModelsPath),
		TelemetryDB: os.Getenv(EnvTelemetryDB),
		ModelKey:    os.Getenv(EnvModelKey),
	}
	if cfg.DSN == "" {
		cfg.DSN = DefaultDSN
	}
	if cfg.ModelKey == "" {
		cfg.ModelKey = DefaultModelKey
	}
	return cfg
}
