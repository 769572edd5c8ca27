package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
	"github.com/custodia-labs/captor-cli/internal/core/ports/driven"
	"github.com/custodia-labs/captor-cli/internal/logger"
)

// Research tuning. Each query asks for a small fixed result count with a
// length-capped excerpt; the bound keeps the synthesis prompt affordable.
const (
	resultsPerQuery = 5
	maxExcerptChars = 1500
)

// Researcher gathers a bounded, deduplicated evidence set about a contact
// from ranked web searches.
type Researcher struct {
	search driven.SearchService
}

// NewResearcher creates a new research gatherer. A nil search service
// means the research capability is absent: Gather returns an empty set.
func NewResearcher(search driven.SearchService) *Researcher {
	return &Researcher{search: search}
}

// Gather issues 1-2 queries for the contact and merges the results.
// Ordering follows query issuance order then per-query rank; a result is
// dropped if its URL was already seen earlier. A failed query is logged
// and contributes zero results - research never aborts the pipeline.
func (r *Researcher) Gather(ctx context.Context, name, company string) []domain.EvidenceItem {
	if r.search == nil {
		logger.Info("research: service not configured, skipping")
		return nil
	}

	var queries []string
	if company != "" {
		queries = append(queries,
			fmt.Sprintf("%s %s", name, company),
			fmt.Sprintf("%s %s interview OR keynote OR article OR LinkedIn", name, company),
		)
	} else {
		queries = append(queries, name)
	}

	opts := driven.SearchOptions{
		NumResults:      resultsPerQuery,
		MaxExcerptChars: maxExcerptChars,
	}

	var evidence []domain.EvidenceItem
	seen := make(map[string]struct{})

	for _, query := range queries {
		results, err := r.search.Search(ctx, query, opts)
		if err != nil {
			logger.Warn("research: query %q failed: %s", query, logger.Truncate(err))
			continue
		}
		for _, item := range results {
			if _, ok := seen[item.URL]; ok {
				continue
			}
			seen[item.URL] = struct{}{}
			evidence = append(evidence, item)
		}
	}

	logger.Info("research: %d results across %d queries", len(evidence), len(queries))
	return evidence
}
