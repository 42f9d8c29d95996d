package reranker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"industry-rag/internal/models"
)

// HTTPClient scores query-passage pairs against a cross-encoder served over a
// Cohere-compatible rerank endpoint.
type HTTPClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

type rerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	Model     string   `json:"model"`
}

type rerankResponse struct {
	Results []rerankResult `json:"results"`
}

type rerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

func NewHTTPClient(baseURL, apiKey, model string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Score returns one relevance score per input passage, in input order. Any
// backend failure fails the whole call, there is no per-passage degradation.
func (c *HTTPClient) Score(ctx context.Context, query string, passages []string) ([]models.ScoredPassage, error) {
	if len(passages) == 0 {
		return nil, nil
	}

	reqBody := rerankRequest{
		Query:     query,
		Documents: passages,
		Model:     c.model,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/rerank", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rerank request failed: %d, %s", resp.StatusCode, string(body))
	}

	var rerankResp rerankResponse
	if err := json.Unmarshal(body, &rerankResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	if len(rerankResp.Results) != len(passages) {
		return nil, fmt.Errorf("rerank returned %d scores for %d passages", len(rerankResp.Results), len(passages))
	}

	scored := make([]models.ScoredPassage, len(passages))
	for _, r := range rerankResp.Results {
		if r.Index < 0 || r.Index >= len(passages) {
			return nil, fmt.Errorf("rerank returned out-of-range index %d", r.Index)
		}
		scored[r.Index] = models.ScoredPassage{
			Text:  passages[r.Index],
			Score: r.RelevanceScore,
		}
	}
	return scored, nil
}
