// Package matching drives batch scoring of candidates against a job posting:
// remote semantic matching when available, local scoring plus rule evaluation
// as the mandatory fallback, persistence of match results, and the rank
// recompute that follows a completed batch.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jharmon/matchengine/internal/db"
	"github.com/jharmon/matchengine/internal/rules"
	"github.com/jharmon/matchengine/internal/scoring"
	"github.com/jharmon/matchengine/internal/semantic"
)

// DefaultConcurrency bounds the per-candidate scoring fan-out when the caller
// does not choose a limit.
const DefaultConcurrency = 8

// ErrUnknownJob is returned when the batch references a job posting that does
// not exist. It is the only per-batch hard failure at the input boundary.
var ErrUnknownJob = errors.New("unknown job posting")

// Store is the persistence surface the coordinator reads snapshots from and
// writes match results to.
type Store interface {
	GetJobPostingByID(ctx context.Context, id uuid.UUID) (*db.JobPosting, error)
	GetCandidateByID(ctx context.Context, id uuid.UUID) (*db.Candidate, error)
	ListCandidateIDs(ctx context.Context) ([]uuid.UUID, error)
	ActiveRules(ctx context.Context, jobID uuid.UUID, templateID *uuid.UUID) ([]rules.Definition, error)
	UpsertMatchResult(ctx context.Context, m *db.MatchResult) (bool, error)
	RecomputeRanks(ctx context.Context, jobID uuid.UUID) error
}

// Matcher is the optional remote semantic-matching call.
type Matcher interface {
	Match(ctx context.Context, req semantic.MatchRequest) (*semantic.MatchResponse, error)
}

// BatchOptions configures one batch run. An empty CandidateIDs list means
// every eligible candidate.
type BatchOptions struct {
	JobID         uuid.UUID      `validate:"required"`
	CandidateIDs  []uuid.UUID    `validate:"-"`
	MinScore      float64        `validate:"gte=0,lte=100"`
	Strategy      rules.Strategy `validate:"omitempty,oneof=PRIORITY SEQUENTIAL GROUPED"`
	Concurrency   int            `validate:"gte=0,lte=64"`
	RemoteTimeout time.Duration  `validate:"-"`
}

// BatchSummary is always returned for a started batch, even under partial
// failure.
type BatchSummary struct {
	JobID        uuid.UUID     `json:"job_id"`
	Source       string        `json:"source"`
	Processed    int           `json:"processed"`
	Created      int           `json:"created"`
	Updated      int           `json:"updated"`
	Skipped      int           `json:"skipped"`
	Failed       int           `json:"failed"`
	Disqualified int           `json:"disqualified"`
	AverageScore float64       `json:"average_score"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Coordinator runs match batches. A nil remote matcher simply disables the
// semantic path.
type Coordinator struct {
	store    Store
	remote   Matcher
	log      *zap.Logger
	validate *validator.Validate
}

// NewCoordinator builds a coordinator. A nil logger is replaced with a no-op
// one.
func NewCoordinator(store Store, remote Matcher, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		store:    store,
		remote:   remote,
		log:      log,
		validate: validator.New(),
	}
}

// RunBatch scores a candidate set against one job. The remote semantic path
// is attempted first; on any remote failure or an empty result the local
// path runs for every candidate. Per-candidate failures are counted, never
// propagated. After all candidates are persisted the job's ranks are
// recomputed wholesale.
func (c *Coordinator) RunBatch(ctx context.Context, opts BatchOptions) (*BatchSummary, error) {
	start := time.Now()

	if err := c.validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid batch options: %w", err)
	}

	job, err := c.store.GetJobPostingByID(ctx, opts.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job posting: %w", err)
	}
	if job == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, opts.JobID)
	}

	summary := &BatchSummary{JobID: job.ID, Source: db.MatchSourceLocal}

	if c.remote == nil || !c.runRemote(ctx, job, opts, summary) {
		if err := c.runLocal(ctx, job, opts, summary); err != nil {
			return summary, err
		}
	}

	if summary.Created+summary.Updated > 0 {
		if err := c.store.RecomputeRanks(ctx, job.ID); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, fmt.Errorf("failed to recompute ranks: %w", err)
		}
	}

	summary.Elapsed = time.Since(start)
	c.log.Info("match batch complete",
		zap.String("job_id", job.ID.String()),
		zap.String("source", summary.Source),
		zap.Int("processed", summary.Processed),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("disqualified", summary.Disqualified),
		zap.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

// runRemote attempts the semantic path. It reports false whenever the local
// fallback should run instead: remote error, timeout, empty result, or a
// result set with nothing usable in it.
func (c *Coordinator) runRemote(ctx context.Context, job *db.JobPosting, opts BatchOptions, summary *BatchSummary) bool {
	timeout := opts.RemoteTimeout
	if timeout <= 0 {
		timeout = semantic.DefaultTimeout
	}
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.remote.Match(rctx, semantic.MatchRequest{
		JobID:        job.ID,
		CandidateIDs: opts.CandidateIDs,
		MinScore:     opts.MinScore,
	})
	if err != nil {
		c.log.Warn("semantic matching unavailable, falling back to local scoring",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
		return false
	}
	if len(resp.Matches) == 0 {
		c.log.Info("semantic matching returned no matches, falling back to local scoring",
			zap.String("job_id", job.ID.String()))
		return false
	}

	requested := make(map[uuid.UUID]bool, len(opts.CandidateIDs))
	for _, id := range opts.CandidateIDs {
		requested[id] = true
	}

	track := newTracker(summary)
	for _, m := range resp.Matches {
		if m.CandidateID == uuid.Nil || m.CombinedScore == nil {
			c.log.Debug("skipping semantic match missing required fields",
				zap.String("job_id", job.ID.String()))
			continue
		}
		if len(requested) > 0 && !requested[m.CandidateID] {
			continue
		}

		result := remoteResult(job, m)
		created, err := c.store.UpsertMatchResult(ctx, result)
		if err != nil {
			c.log.Error("failed to persist semantic match result",
				zap.String("candidate_id", m.CandidateID.String()),
				zap.Error(err))
			track.failed()
			continue
		}
		track.persisted(created, result.OverallScore, result.Disqualified)
	}

	if summary.Created+summary.Updated == 0 {
		// Nothing usable came back, the local path still has to run
		return false
	}
	summary.Source = db.MatchSourceSemantic
	track.finish()
	return true
}

// runLocal scores every candidate through the calculator and rule engine on a
// bounded worker pool. Rank recomputation happens strictly after the pool has
// drained.
func (c *Coordinator) runLocal(ctx context.Context, job *db.JobPosting, opts BatchOptions, summary *BatchSummary) error {
	candidateIDs := opts.CandidateIDs
	if len(candidateIDs) == 0 {
		ids, err := c.store.ListCandidateIDs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list candidates: %w", err)
		}
		candidateIDs = ids
	}

	engine := rules.NewEngine(opts.Strategy, c.log)
	ruleSet, err := engine.Load(ctx, c.store, job.ID, job.TemplateID)
	if err != nil {
		return fmt.Errorf("failed to load scoring rules: %w", err)
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	track := newTracker(summary)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, candidateID := range candidateIDs {
		candidateID := candidateID
		g.Go(func() error {
			c.scoreOne(gctx, job, engine, ruleSet, candidateID, opts.MinScore, track)
			return nil
		})
	}
	// The pool never returns errors; Wait is the batch barrier
	_ = g.Wait()

	track.finish()
	return nil
}

// scoreOne computes and persists one candidate's match. All failures are
// recorded on the tracker and logged; none abort the batch.
func (c *Coordinator) scoreOne(ctx context.Context, job *db.JobPosting, engine *rules.Engine, ruleSet []rules.Rule, candidateID uuid.UUID, minScore float64, track *tracker) {
	candidate, err := c.store.GetCandidateByID(ctx, candidateID)
	if err != nil {
		c.log.Error("failed to load candidate",
			zap.String("candidate_id", candidateID.String()),
			zap.Error(err))
		track.failed()
		return
	}
	if candidate == nil {
		c.log.Warn("candidate not found, skipping",
			zap.String("candidate_id", candidateID.String()))
		track.failed()
		return
	}

	result, eval, err := scoreCandidate(job, candidate, engine, ruleSet)
	if err != nil {
		c.log.Error("failed to score candidate",
			zap.String("candidate_id", candidateID.String()),
			zap.Error(err))
		track.failed()
		return
	}

	// Below-threshold candidates are not persisted; disqualified ones are,
	// so reviewers can see why a candidate dropped out.
	if !eval.Disqualified && eval.FinalScore < minScore {
		track.skipped()
		return
	}

	created, err := c.store.UpsertMatchResult(ctx, result)
	if err != nil {
		c.log.Error("failed to persist match result",
			zap.String("candidate_id", candidateID.String()),
			zap.Error(err))
		track.failed()
		return
	}
	track.persisted(created, result.OverallScore, result.Disqualified)
}

// scoreCandidate runs the local scoring pipeline for one candidate: the four
// category scores, then the rule engine over the combined snapshot view.
func scoreCandidate(job *db.JobPosting, candidate *db.Candidate, engine *rules.Engine, ruleSet []rules.Rule) (*db.MatchResult, *rules.Evaluation, error) {
	weights := job.Weights()

	skillScore, skillDetails := scoring.SkillScore(candidate.Skills, job.RequiredSkills)
	categories := scoring.CategoryScores{
		Skill:      skillScore,
		Experience: scoring.ExperienceScore(candidate.ExperienceYears, job.MinExperienceYears, job.PreferredExperienceYears),
		Education:  scoring.EducationScore(candidate.EducationLevelOrEmpty(), job.RequiredEducationOrEmpty()),
		Location: scoring.LocationScore(
			candidate.CityOrEmpty(), candidate.CountryOrEmpty(),
			job.CityOrEmpty(), job.CountryOrEmpty(), job.LocationType),
	}

	view, err := rules.NewView(candidate, job)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build rule view: %w", err)
	}

	eval := engine.Evaluate(ruleSet, view, categories, weights)

	result := &db.MatchResult{
		CandidateID:     candidate.ID,
		JobPostingID:    job.ID,
		SkillScore:      eval.CategoryScores.Skill,
		ExperienceScore: eval.CategoryScores.Experience,
		EducationScore:  eval.CategoryScores.Education,
		LocationScore:   eval.CategoryScores.Location,
		OverallScore:    eval.FinalScore,
		Breakdown: &db.ScoreBreakdown{
			Weights:           weights,
			SkillMatches:      skillDetails,
			WeightAdjustments: eval.WeightAdjustments,
		},
		AuditTrail:   eval.AuditTrail,
		Disqualified: eval.Disqualified,
		Source:       db.MatchSourceLocal,
	}
	if eval.Disqualified {
		reason := eval.DisqualificationReason
		result.DisqualificationReason = &reason
	}
	return result, &eval, nil
}

// remoteResult maps one semantic service match onto a persistable result.
func remoteResult(job *db.JobPosting, m semantic.Match) *db.MatchResult {
	cosine := m.CosineSimilarity
	criteria := m.CriteriaScore
	return &db.MatchResult{
		CandidateID:  m.CandidateID,
		JobPostingID: job.ID,
		OverallScore: scoring.Clamp(scoring.Round2(*m.CombinedScore)),
		Breakdown: &db.ScoreBreakdown{
			Weights:          job.Weights(),
			MatchedCriteria:  m.MatchedCriteria,
			MissingCriteria:  m.MissingCriteria,
			CosineSimilarity: &cosine,
			CriteriaScore:    &criteria,
		},
		Disqualified: m.Disqualified,
		Source:       db.MatchSourceSemantic,
	}
}

// tracker aggregates batch counters from concurrent workers.
type tracker struct {
	mu         sync.Mutex
	summary    *BatchSummary
	totalScore float64
	scored     int
}

func newTracker(summary *BatchSummary) *tracker {
	return &tracker{summary: summary}
}

func (t *tracker) persisted(created bool, score float64, disqualified bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary.Processed++
	if created {
		t.summary.Created++
	} else {
		t.summary.Updated++
	}
	if disqualified {
		t.summary.Disqualified++
	} else {
		t.totalScore += score
		t.scored++
	}
}

func (t *tracker) skipped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary.Processed++
	t.summary.Skipped++
}

func (t *tracker) failed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary.Processed++
	t.summary.Failed++
}

func (t *tracker) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.scored > 0 {
		t.summary.AverageScore = scoring.Round2(t.totalScore / float64(t.scored))
	}
}
