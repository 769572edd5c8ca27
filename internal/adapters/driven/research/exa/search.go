// Package exa provides a web research adapter using the Exa search API.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
	"github.com/custodia-labs/captor-cli/internal/core/ports/driven"
)

// Ensure SearchService implements the interface.
var _ driven.SearchService = (*SearchService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.exa.ai"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Exa search service.
type Config struct {
	// APIKey is the Exa API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.exa.ai).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// SearchService issues neural web searches against Exa.
type SearchService struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// searchRequest is the Exa /search request format.
type searchRequest struct {
	Query      string         `json:"query"`
	NumResults int            `json:"num_results"`
	Type       string         `json:"type"`
	Contents   searchContents `json:"contents"`
}

type searchContents struct {
	Text searchText `json:"text"`
}

type searchText struct {
	MaxCharacters int `json:"max_characters"`
}

// searchResponse is the Exa /search response format.
type searchResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Text  string `json:"text"`
	} `json:"results"`
}

// NewSearchService creates a new Exa search adapter.
func NewSearchService(cfg Config) (*SearchService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("exa: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &SearchService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}, nil
}

// Search returns ranked results for one query.
func (s *SearchService) Search(ctx context.Context, query string, opts driven.SearchOptions) ([]domain.EvidenceItem, error) {
	reqBody := searchRequest{
		Query:      query,
		NumResults: opts.NumResults,
		Type:       "neural",
		Contents: searchContents{
			Text: searchText{MaxCharacters: opts.MaxExcerptChars},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/search",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		detail := string(body)
		if len(detail) > 200 {
			detail = detail[:200]
		}
		return nil, fmt.Errorf("exa error (status %d): %s", resp.StatusCode, detail)
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]domain.EvidenceItem, 0, len(result.Results))
	for _, r := range result.Results {
		items = append(items, domain.EvidenceItem{
			Title: r.Title,
			URL:   r.URL,
			Text:  r.Text,
		})
	}
	return items, nil
}
