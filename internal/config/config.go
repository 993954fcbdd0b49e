// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Connections
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	SemanticURL string `json:"semantic_url,omitempty"` // Base URL of the semantic matching service; empty disables it

	// Batch behavior
	SemanticTimeoutSeconds int     `json:"semantic_timeout_seconds,omitempty"` // Remote call timeout before local fallback
	MinScore               float64 `json:"min_score,omitempty"`                // Minimum overall score to persist (0-100)
	Concurrency            int     `json:"concurrency,omitempty"`              // Bounded scoring fan-out
	Strategy               string  `json:"strategy,omitempty"`                 // Rule execution strategy: PRIORITY, SEQUENTIAL, GROUPED

	// Output
	Verbose  bool `json:"verbose,omitempty"`   // Print detailed debug information
	JSONLogs bool `json:"json_logs,omitempty"` // Emit logs as JSON instead of console lines
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("config error: 'min_score' must be between 0 and 100")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.SemanticTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'semantic_timeout_seconds' must be non-negative")
	}

	switch c.Strategy {
	case "", "PRIORITY", "SEQUENTIAL", "GROUPED":
	default:
		return fmt.Errorf("config error: 'strategy' must be one of PRIORITY, SEQUENTIAL, GROUPED")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SemanticURL == "" {
		result.SemanticURL = defaults.SemanticURL
	}
	if result.Strategy == "" {
		result.Strategy = defaults.Strategy
	}

	// Numeric fields: use default if zero
	if result.SemanticTimeoutSeconds == 0 {
		result.SemanticTimeoutSeconds = defaults.SemanticTimeoutSeconds
	}
	if result.MinScore == 0 {
		result.MinScore = defaults.MinScore
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
