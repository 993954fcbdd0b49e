package semantic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: ""})
	assert.Error(t, err)

	_, err = NewClient(Options{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestMatch_Success(t *testing.T) {
	jobID := uuid.New()
	candidateID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/match", r.URL.Path)

		var req MatchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, jobID, req.JobID)

		combined := 87.5
		_ = json.NewEncoder(w).Encode(MatchResponse{Matches: []Match{
			{CandidateID: candidateID, CombinedScore: &combined, CosineSimilarity: 0.91, Rank: 1},
		}})
	}))
	defer server.Close()

	client, err := NewClient(Options{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := client.Match(context.Background(), MatchRequest{JobID: jobID, MinScore: 50})
	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, candidateID, resp.Matches[0].CandidateID)
	require.NotNil(t, resp.Matches[0].CombinedScore)
	assert.Equal(t, 87.5, *resp.Matches[0].CombinedScore)
}

func TestMatch_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(Options{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Match(context.Background(), MatchRequest{JobID: uuid.New()})
	require.Error(t, err)

	var matchErr *Error
	assert.ErrorAs(t, err, &matchErr)
}

func TestMatch_TimeoutHonored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"matches": []}`))
	}))
	defer server.Close()

	client, err := NewClient(Options{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.Match(context.Background(), MatchRequest{JobID: uuid.New()})
	assert.Error(t, err)
}

func TestMatch_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"matches": `))
	}))
	defer server.Close()

	client, err := NewClient(Options{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Match(context.Background(), MatchRequest{JobID: uuid.New()})
	assert.Error(t, err)
}
