// Package semantic provides the client for the optional remote
// semantic-matching service. The service is strictly best-effort: every
// failure here is meant to be caught at the batch coordinator boundary and
// answered with local scoring, never surfaced to the caller.
package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a semantic match request.
const DefaultTimeout = 10 * time.Second

// matchPath is the service endpoint for batch matching.
const matchPath = "/v1/match"

// Error represents an error talking to the semantic-matching service.
type Error struct {
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("semantic match error during %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("semantic match error during %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the remote semantic-matching service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient validates the base URL and builds a client. An empty base URL is
// an error; callers that have no service configured should not construct a
// client at all.
func NewClient(opts Options) (*Client, error) {
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{Op: "configure", Message: "invalid base URL", Cause: err}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: parsed.String(),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// MatchRequest asks the service to score candidates against a job. An empty
// CandidateIDs list means all known candidates.
type MatchRequest struct {
	JobID        uuid.UUID   `json:"jobId"`
	CandidateIDs []uuid.UUID `json:"candidateIds,omitempty"`
	MinScore     float64     `json:"minScore"`
	Limit        int         `json:"limit,omitempty"`
}

// Match is one candidate's precomputed match from the service.
type Match struct {
	CandidateID      uuid.UUID       `json:"candidateId"`
	CosineSimilarity float64         `json:"cosineSimilarity"`
	CriteriaScore    float64         `json:"criteriaScore"`
	CombinedScore    *float64        `json:"combinedScore"`
	Rank             int             `json:"rank"`
	ScoreBreakdown   json.RawMessage `json:"scoreBreakdown,omitempty"`
	MatchedCriteria  []string        `json:"matchedCriteria,omitempty"`
	MissingCriteria  []string        `json:"missingCriteria,omitempty"`
	Disqualified     bool            `json:"disqualified"`
}

// MatchResponse is the service's response envelope.
type MatchResponse struct {
	Matches []Match `json:"matches"`
}

// Match performs one batch-matching call. The context bounds the request in
// addition to the client timeout.
func (c *Client) Match(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &Error{Op: "request", Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+matchPath, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Op: "request", Message: "failed to build request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &Error{Op: "request", Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: "request", Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, &Error{Op: "response", Message: "failed to read response", Cause: err}
	}

	var parsed MatchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &Error{Op: "response", Message: "failed to decode response", Cause: err}
	}
	return &parsed, nil
}
