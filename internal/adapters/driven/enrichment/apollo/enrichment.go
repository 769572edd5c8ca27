// Package apollo provides a contact enrichment adapter using the
// Apollo.io people search API.
package apollo

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
	"github.com/custodia-labs/captor-cli/internal/logger"
)

// Ensure EnrichmentService implements the interface.
var _ driven.EnrichmentService = (*EnrichmentService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.apollo.io"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Apollo enrichment service.
type Config struct {
	// APIKey is the Apollo API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.apollo.io).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// EnrichmentService looks up contacts in the Apollo people database.
type EnrichmentService struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// searchRequest is the mixed_people search request format.
// The search is constrained to a single result: the pipeline only ever
// wants the best match.
type searchRequest struct {
	PersonName          string `json:"q_person_name"`
	Page                int    `json:"page"`
	PerPage             int    `json:"per_page"`
	OrganizationDomains string `json:"q_organization_domains,omitempty"`
}

// searchResponse is the mixed_people search response format.
type searchResponse struct {
	People []struct {
		Name         string `json:"name"`
		Title        string `json:"title"`
		Email        string `json:"email"`
		LinkedInURL  string `json:"linkedin_url"`
		City         string `json:"city"`
		State        string `json:"state"`
		Country      string `json:"country"`
		Organization *struct {
			Name       string `json:"name"`
			WebsiteURL string `json:"website_url"`
		} `json:"organization"`
	} `json:"people"`
}

// NewEnrichmentService creates a new Apollo enrichment adapter.
func NewEnrichmentService(cfg Config) (*EnrichmentService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("apollo: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &EnrichmentService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}, nil
}

// Lookup searches for the contact and returns the normalised best match.
// A non-success status from Apollo is logged and treated as no match so a
// flaky enrichment service never aborts the pipeline.
func (s *EnrichmentService) Lookup(ctx context.Context, name, domainHint string) (*domain.EnrichedContact, error) {
	reqBody := searchRequest{
		PersonName:          name,
		Page:                1,
		PerPage:             1,
		OrganizationDomains: domainHint,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/v1/mixed_people/api_search",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", s.apiKey)

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
		logger.Warn("apollo: status %d: %s", resp.StatusCode, detail)
		return nil, nil
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.People) == 0 {
		return nil, nil
	}

	p := result.People[0]
	enriched := &domain.EnrichedContact{
		Name:        p.Name,
		Title:       p.Title,
		Email:       p.Email,
		LinkedInURL: p.LinkedInURL,
		City:        p.City,
		State:       p.State,
		Country:     p.Country,
	}
	if p.Organization != nil {
		enriched.Company = p.Organization.Name
		enriched.CompanyWebsite = p.Organization.WebsiteURL
	}
	return enriched, nil
}
