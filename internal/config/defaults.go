// Package config - defaults.go centralizes magic numbers and default values.
//
// DESIGN: All default values that appear in multiple places should be defined
// here. This makes configuration more maintainable and auditable.
package config

import "time"

// =============================================================================
// DATABASE
// =============================================================================

// DefaultDSN targets a local SQL Server Express instance holding the Lahman
// database. Overridden by LAHMAN_DSN.
const DefaultDSN = "server=localhost;database=lahman2024;trusted_connection=yes;encrypt=true;trustservercertificate=true"

// QueryTimeout bounds a single tool query against the database.
const QueryTimeout = 30 * time.Second

// MaxQueryRows is the hard cap on data rows returned to the model.
const MaxQueryRows = 50

// =============================================================================
// MODEL REQUESTS
// =============================================================================

// DefaultMaxOutputTokens is the per-request output token ceiling.
const DefaultMaxOutputTokens = 4096

// DefaultModelKey is the registry key used when none is configured.
// Haiku is the default: cheaper and higher rate limits for iteration.
const DefaultModelKey = "haiku"

// TokenEstimateRatio is the approximate number of characters per token.
// Used for rough token counting when the tokenizer is unavailable.
const TokenEstimateRatio = 4

// =============================================================================
// ENVIRONMENT VARIABLES
// =============================================================================

const (
	EnvAPIKey      = "ANTHROPIC_API_KEY"
	EnvDSN         = "LAHMAN_DSN"
	EnvModelsPath  = "DUGOUT_MODELS"
	EnvTelemetryDB = "DUGOUT_TELEMETRY_DB"
	EnvModelKey    = "DUGOUT_MODEL"
)
