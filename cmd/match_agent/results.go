package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jharmon/matchengine/internal/db"
	"github.com/jharmon/matchengine/internal/observability"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List ranked match results for a job posting",
	Long:  "Lists a job posting's persisted match results in rank order. Disqualified candidates sort last with no rank.",
	RunE:  runResults,
}

var (
	resultsJobID string
	resultsLimit int
	resultsJSON  bool
)

func init() {
	resultsCmd.Flags().StringVarP(&resultsJobID, "job", "j", "", "Job posting UUID (required)")
	resultsCmd.Flags().IntVarP(&resultsLimit, "limit", "n", 0, "Maximum results to return (0 = all)")
	resultsCmd.Flags().BoolVar(&resultsJSON, "json", false, "Print full results as JSON instead of a table")
	addSharedFlags(resultsCmd)

	if err := resultsCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveSettings()
	if err != nil {
		return err
	}

	jobID, err := uuid.Parse(resultsJobID)
	if err != nil {
		return fmt.Errorf("invalid job UUID %q: %w", resultsJobID, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	results, err := database.ListMatchResultsByJob(ctx, jobID, resultsLimit)
	if err != nil {
		return fmt.Errorf("failed to list match results: %w", err)
	}

	if resultsJSON {
		encoded, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal match results to JSON: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(encoded))
		return nil
	}

	printable := make([]*db.MatchResult, len(results))
	for i := range results {
		printable[i] = &results[i]
	}
	observability.NewPrinter(os.Stdout).PrintMatchResults(printable)
	return nil
}
