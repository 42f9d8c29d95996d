package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"industry-rag/internal/config"
	"industry-rag/internal/models"
)

// Client talks to a Tavily-compatible search API. Retry with exponential
// backoff lives here, at the provider boundary, never inside the engine.
type Client struct {
	baseURL     string
	apiKey      string
	searchDepth string
	maxResults  int
	maxRetries  int
	client      *http.Client
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type searchResponse struct {
	Results []models.SearchResult `json:"results"`
}

func NewClient(cfg *config.SearchConfig) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		searchDepth: cfg.SearchDepth,
		maxResults:  cfg.MaxResults,
		maxRetries:  cfg.MaxRetries,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
}

// Search returns raw text+source results for the query.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		results, err := c.search(ctx, query)
		if err == nil {
			log.Info().Msgf("Search returned %d results", len(results))
			return results, nil
		}
		lastErr = err
		log.Warn().Err(err).Msgf("Search failed (attempt %d/%d)", i+1, c.maxRetries)

		if i < c.maxRetries-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("search failed after %d attempts: %v", c.maxRetries, lastErr)
}

func (c *Client) search(ctx context.Context, query string) ([]models.SearchResult, error) {
	reqBody := searchRequest{
		APIKey:      c.apiKey,
		Query:       query,
		SearchDepth: c.searchDepth,
		MaxResults:  c.maxResults,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/search", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed: %d, %s", resp.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	return searchResp.Results, nil
}
