package driven

import (
	"context"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
)

// SearchService issues one ranked web search. This is an optional
// capability - when nil, research yields an empty evidence set.
//
// Cross-query concerns (query construction, URL deduplication, soft
// per-query failure) live in the research gatherer, not here.
type SearchService interface {
	// Search returns ranked results for a query. Result excerpts are
	// capped at opts.MaxExcerptChars by the service.
	Search(ctx context.Context, query string, opts SearchOptions) ([]domain.EvidenceItem, error)
}

// SearchOptions configures a single search request.
type SearchOptions struct {
	// NumResults is the number of ranked results to request.
	NumResults int

	// MaxExcerptChars caps the length of each result's text excerpt.
	MaxExcerptChars int
}
