package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jharmon/matchengine/internal/config"
)

// Flags shared by the commands that talk to the database.
var (
	flagConfig      string
	flagDatabaseURL string
	flagVerbose     bool
	flagJSONLogs    bool
)

// resolveSettings merges the optional config file with CLI flags and the
// environment. Flags win over the file; DATABASE_URL from the environment is
// the fallback for runs without either.
func resolveSettings() (*config.Config, error) {
	fromFlags := config.Config{
		DatabaseURL: flagDatabaseURL,
		Verbose:     flagVerbose,
		JSONLogs:    flagJSONLogs,
	}

	var fromFile config.Config
	if flagConfig != "" {
		loaded, err := config.LoadConfig(flagConfig)
		if err != nil {
			return nil, err
		}
		fromFile = *loaded
	}

	cfg := fromFlags.MergeWithDefaults(fromFile)
	// Bool fields are not merged; the file can only turn them on.
	cfg.Verbose = cfg.Verbose || fromFile.Verbose
	cfg.JSONLogs = cfg.JSONLogs || fromFile.JSONLogs

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required: set --database-url, DATABASE_URL, or 'database_url' in the config file")
	}
	return &cfg, nil
}

// addSharedFlags attaches the connection and output flags every DB-backed
// command takes.
func addSharedFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Path to JSON config file")
	cmd.Flags().StringVarP(&flagDatabaseURL, "database-url", "d", "", "PostgreSQL connection URL (defaults to DATABASE_URL)")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print detailed debug information")
	cmd.Flags().BoolVar(&flagJSONLogs, "json-logs", false, "Emit logs as JSON instead of console lines")
}
