package driven

import (
	"context"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
)

// RecordStore persists contact records to the destination store.
type RecordStore interface {
	// CreateContact writes one record (typed properties plus rendered
	// content body) and returns its URL. Failures wrap
	// domain.ErrPersistenceFailed.
	CreateContact(ctx context.Context, rec domain.ContactRecord) (string, error)
}

// ProvisionResult describes a freshly created destination database.
type ProvisionResult struct {
	// DatabaseID is the identifier the pipeline needs for record creation.
	DatabaseID string

	// URL is the browsable location of the database.
	URL string
}

// Provisioner performs the one-time schema setup in the destination store.
// Run manually via the setup command; never called by the recurring pipeline.
type Provisioner interface {
	// Provision creates the contact database under the given parent page
	// and returns its identifiers.
	Provision(ctx context.Context, parentPageID string) (ProvisionResult, error)
}
