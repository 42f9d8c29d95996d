package reranker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_ScoresInInputOrder(t *testing.T) {
	var gotReq rerankRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/rerank", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		// backend answers best-first, not in input order
		json.NewEncoder(w).Encode(rerankResponse{Results: []rerankResult{
			{Index: 2, RelevanceScore: 0.9},
			{Index: 0, RelevanceScore: 0.4},
			{Index: 1, RelevanceScore: 0.1},
		}})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", "rerank-english-v3.0")
	scored, err := client.Score(context.Background(), "some query", []string{"first", "second", "third"})
	require.NoError(t, err)

	assert.Equal(t, "some query", gotReq.Query)
	assert.Equal(t, "rerank-english-v3.0", gotReq.Model)

	require.Len(t, scored, 3)
	assert.Equal(t, "first", scored[0].Text)
	assert.Equal(t, 0.4, scored[0].Score)
	assert.Equal(t, "second", scored[1].Text)
	assert.Equal(t, 0.1, scored[1].Score)
	assert.Equal(t, "third", scored[2].Text)
	assert.Equal(t, 0.9, scored[2].Score)
}

func TestHTTPClient_EmptyPassages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("backend must not be called for an empty candidate list")
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", "model")
	scored, err := client.Score(context.Background(), "query", nil)
	require.NoError(t, err)
	assert.Empty(t, scored)
}

func TestHTTPClient_BackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", "model")
	_, err := client.Score(context.Background(), "query", []string{"passage"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPClient_IncompleteScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(rerankResponse{Results: []rerankResult{
			{Index: 0, RelevanceScore: 0.5},
		}})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", "model")
	_, err := client.Score(context.Background(), "query", []string{"one", "two"})
	assert.Error(t, err)
}

func TestLexical_Score(t *testing.T) {
	scorer := NewLexical()

	scored, err := scorer.Score(context.Background(), "robotics market size", []string{
		"Robotics market grows 20% in 2024.",
		"A recipe for fried rice.",
	})
	require.NoError(t, err)
	require.Len(t, scored, 2)
	assert.Greater(t, scored[0].Score, scored[1].Score)
	assert.Equal(t, 0.0, scored[1].Score)
}

func TestLexical_EmptyPassages(t *testing.T) {
	scored, err := NewLexical().Score(context.Background(), "query", nil)
	require.NoError(t, err)
	assert.Empty(t, scored)
}
