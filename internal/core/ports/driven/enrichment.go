package driven

import (
	"context"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
)

// EnrichmentService queries a people/organisation database for the best
// match on a name. This is an optional capability - when nil, the
// enrichment stage is skipped entirely.
type EnrichmentService interface {
	// Lookup returns at most one normalised match for name, optionally
	// constrained by a company domain hint. (nil, nil) means no match,
	// which is an expected outcome. A non-success response from the
	// service is also reported as no match; only transport-level failures
	// return an error, and callers treat those as soft.
	Lookup(ctx context.Context, name, domainHint string) (*domain.EnrichedContact, error)
}
