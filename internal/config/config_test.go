package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"database_url": "postgres://localhost:5432/matchengine",
		"semantic_url": "http://localhost:8000",
		"min_score": 40,
		"concurrency": 4,
		"strategy": "GROUPED",
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres://localhost:5432/matchengine", cfg.DatabaseURL)
	assert.Equal(t, "http://localhost:8000", cfg.SemanticURL)
	assert.Equal(t, 40.0, cfg.MinScore)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "GROUPED", cfg.Strategy)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_MinScoreOutOfRange(t *testing.T) {
	cfg := &Config{MinScore: 120}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "min_score")
}

func TestValidate_NegativeConcurrency(t *testing.T) {
	cfg := &Config{Concurrency: -1}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency")
}

func TestValidate_UnknownStrategy(t *testing.T) {
	cfg := &Config{Strategy: "RANDOM"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "strategy")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost:5432/matchengine",
		MinScore:    50,
		Concurrency: 8,
		Strategy:    "PRIORITY",
	}

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		DatabaseURL:            "postgres://localhost:5432/matchengine",
		SemanticURL:            "http://localhost:8000",
		SemanticTimeoutSeconds: 10,
		Concurrency:            8,
	}

	partial := Config{
		DatabaseURL: "postgres://db.internal:5432/prod",
		MinScore:    35,
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "postgres://db.internal:5432/prod", merged.DatabaseURL)
	assert.Equal(t, 35.0, merged.MinScore)

	// Default values should fill in empty fields
	assert.Equal(t, "http://localhost:8000", merged.SemanticURL)
	assert.Equal(t, 10, merged.SemanticTimeoutSeconds)
	assert.Equal(t, 8, merged.Concurrency)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{
		DatabaseURL: "postgres://localhost:5432/matchengine",
		Strategy:    "SEQUENTIAL",
	}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "postgres://localhost:5432/matchengine", merged.DatabaseURL)
	assert.Equal(t, "SEQUENTIAL", merged.Strategy)
}
