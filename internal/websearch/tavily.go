// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/namesty/evo.predict/internal/httputil"
	"github.com/namesty/evo.predict/pkg/types"
)

// tavilyAPIURL is the Tavily search endpoint. Declared as a var so tests can
// substitute an httptest server.
var tavilyAPIURL = "https://api.tavily.com/search"

// Tavily queries the Tavily search API.
type Tavily struct {
	APIKey string
	Client *http.Client

	// Depth is Tavily's search_depth: "basic" or "advanced" (default).
	Depth string

	// UserAgent is sent with every request when set.
	UserAgent string
}

// NewTavily builds a Tavily backend from cfg.
func NewTavily(cfg types.SearchConfig) *Tavily {
	return &Tavily{
		APIKey:    cfg.APIKey,
		Client:    &http.Client{Timeout: cfg.Timeout},
		Depth:     cfg.Depth,
		UserAgent: cfg.UserAgent,
	}
}

// Search posts query to Tavily, asking for raw page content, and returns
// the results in provider ranking order. A missing API key and 4xx
// responses other than 429 are reported as permanent errors so the retry
// stage does not repeat the call.
func (t *Tavily) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	if strings.TrimSpace(t.APIKey) == "" {
		return nil, httputil.Permanent(ErrMissingAPIKey)
	}
	depth := t.Depth
	if depth == "" {
		depth = "advanced"
	}

	payload, err := json.Marshal(tavilyRequest{
		APIKey:            t.APIKey,
		Query:             query,
		SearchDepth:       depth,
		MaxResults:        maxResults,
		IncludeRawContent: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	// Client owns the only retry stage, 429 included.
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Tavily API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("Tavily API returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < http.StatusInternalServerError {
			return nil, httputil.Permanent(err)
		}
		return nil, err
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing Tavily response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(tr.Results))
	for _, r := range tr.Results {
		results = append(results, types.SearchResult{
			Query:       query,
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Content,
			RawContent:  r.RawContent,
			Relevancy:   r.Score,
		})
	}
	return results, nil
}

// Tavily API JSON structures.
type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResponse struct {
	Query   string         `json:"query"`
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	RawContent string  `json:"raw_content"`
	Score      float64 `json:"score"`
}
