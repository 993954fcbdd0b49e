package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetSettingsFlags() {
	flagConfig = ""
	flagDatabaseURL = ""
	flagVerbose = false
	flagJSONLogs = false
}

func TestResolveSettings_FlagWinsOverEnv(t *testing.T) {
	resetSettingsFlags()
	t.Setenv("DATABASE_URL", "postgres://env:5432/db")
	flagDatabaseURL = "postgres://flag:5432/db"

	cfg, err := resolveSettings()
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag:5432/db", cfg.DatabaseURL)
}

func TestResolveSettings_EnvFallback(t *testing.T) {
	resetSettingsFlags()
	t.Setenv("DATABASE_URL", "postgres://env:5432/db")

	cfg, err := resolveSettings()
	require.NoError(t, err)
	assert.Equal(t, "postgres://env:5432/db", cfg.DatabaseURL)
}

func TestResolveSettings_MissingDatabaseURL(t *testing.T) {
	resetSettingsFlags()
	t.Setenv("DATABASE_URL", "")

	_, err := resolveSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is required")
}

func TestResolveSettings_ConfigFile(t *testing.T) {
	resetSettingsFlags()
	t.Setenv("DATABASE_URL", "")

	content := `{"database_url": "postgres://file:5432/db", "strategy": "GROUPED", "min_score": 30}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	flagConfig = path

	cfg, err := resolveSettings()
	require.NoError(t, err)
	assert.Equal(t, "postgres://file:5432/db", cfg.DatabaseURL)
	assert.Equal(t, "GROUPED", cfg.Strategy)
	assert.Equal(t, 30.0, cfg.MinScore)
}

func TestResolveSettings_FlagWinsOverConfigFile(t *testing.T) {
	resetSettingsFlags()
	t.Setenv("DATABASE_URL", "")

	content := `{"database_url": "postgres://file:5432/db", "semantic_url": "http://matcher:8000", "verbose": true}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	flagConfig = path
	flagDatabaseURL = "postgres://flag:5432/db"

	cfg, err := resolveSettings()
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag:5432/db", cfg.DatabaseURL)
	assert.Equal(t, "http://matcher:8000", cfg.SemanticURL, "file fills fields the flags leave unset")
	assert.True(t, cfg.Verbose, "a file-enabled bool survives an unset flag")
}

func TestResolveSettings_InvalidConfigRejected(t *testing.T) {
	resetSettingsFlags()

	content := `{"database_url": "postgres://file:5432/db", "strategy": "RANDOM"}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	flagConfig = path

	_, err := resolveSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy")
}

func TestParseUUIDs(t *testing.T) {
	ids, err := parseUUIDs([]string{
		"550e8400-e29b-41d4-a716-446655440000",
		"550e8400-e29b-41d4-a716-446655440001",
	})
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestParseUUIDs_Empty(t *testing.T) {
	ids, err := parseUUIDs(nil)
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestParseUUIDs_Malformed(t *testing.T) {
	_, err := parseUUIDs([]string{"not-a-uuid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid candidate UUID")
}
