package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jharmon/matchengine/internal/db"
	"github.com/jharmon/matchengine/internal/logger"
	"github.com/jharmon/matchengine/internal/matching"
	"github.com/jharmon/matchengine/internal/observability"
	"github.com/jharmon/matchengine/internal/rules"
	"github.com/jharmon/matchengine/internal/semantic"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Run a match batch for a job posting",
	Long:  "Scores a set of candidates (or every eligible candidate) against one job posting, persists the results, and recomputes ranks. Uses the remote semantic service when configured, falling back to local scoring.",
	RunE:  runMatch,
}

var (
	matchJobID           string
	matchCandidateIDs    []string
	matchMinScore        float64
	matchConcurrency     int
	matchStrategy        string
	matchSemanticURL     string
	matchSemanticTimeout int
)

func init() {
	matchCmd.Flags().StringVarP(&matchJobID, "job", "j", "", "Job posting UUID (required)")
	matchCmd.Flags().StringSliceVar(&matchCandidateIDs, "candidates", nil, "Candidate UUIDs to score (default: all eligible candidates)")
	matchCmd.Flags().Float64Var(&matchMinScore, "min-score", 0, "Minimum overall score required to persist a result (0-100)")
	matchCmd.Flags().IntVar(&matchConcurrency, "concurrency", 0, "Bounded scoring fan-out (default 8)")
	matchCmd.Flags().StringVar(&matchStrategy, "strategy", "", "Rule execution strategy: PRIORITY, SEQUENTIAL, GROUPED")
	matchCmd.Flags().StringVar(&matchSemanticURL, "semantic-url", "", "Base URL of the semantic matching service (empty disables it)")
	matchCmd.Flags().IntVar(&matchSemanticTimeout, "semantic-timeout", 0, "Seconds to wait for the semantic service before local fallback")
	addSharedFlags(matchCmd)

	if err := matchCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveSettings()
	if err != nil {
		return err
	}
	if matchSemanticURL != "" {
		cfg.SemanticURL = matchSemanticURL
	}
	if matchSemanticTimeout > 0 {
		cfg.SemanticTimeoutSeconds = matchSemanticTimeout
	}
	if matchStrategy == "" {
		matchStrategy = cfg.Strategy
	}
	if matchMinScore == 0 {
		matchMinScore = cfg.MinScore
	}
	if matchConcurrency == 0 {
		matchConcurrency = cfg.Concurrency
	}

	jobID, err := uuid.Parse(matchJobID)
	if err != nil {
		return fmt.Errorf("invalid job UUID %q: %w", matchJobID, err)
	}
	candidateIDs, err := parseUUIDs(matchCandidateIDs)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.JSONLogs, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	var remote matching.Matcher
	if cfg.SemanticURL != "" {
		client, err := semantic.NewClient(semantic.Options{
			BaseURL: cfg.SemanticURL,
			Timeout: time.Duration(cfg.SemanticTimeoutSeconds) * time.Second,
		})
		if err != nil {
			return fmt.Errorf("invalid semantic service configuration: %w", err)
		}
		remote = client
	}

	coordinator := matching.NewCoordinator(database, remote, log)
	summary, err := coordinator.RunBatch(ctx, matching.BatchOptions{
		JobID:         jobID,
		CandidateIDs:  candidateIDs,
		MinScore:      matchMinScore,
		Strategy:      rules.Strategy(matchStrategy),
		Concurrency:   matchConcurrency,
		RemoteTimeout: time.Duration(cfg.SemanticTimeoutSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("match batch failed: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintBatchSummary(summary)
	return nil
}

// parseUUIDs parses the --candidates values, rejecting the whole batch on the
// first malformed ID.
func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid candidate UUID %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
