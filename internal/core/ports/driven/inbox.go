package driven

import (
	"context"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
)

// Inbox provides access to the polled messaging source.
//
// Delivery semantics are batch-level: FetchPending returns everything since
// the last acknowledged cursor, and Acknowledge advances the cursor past an
// entire batch in one call. There is no per-message acknowledgment.
type Inbox interface {
	// FetchPending returns all messages since the last acknowledged
	// cursor, in sequence order. An empty inbox is not an error.
	FetchPending(ctx context.Context) ([]domain.InboundMessage, error)

	// Acknowledge advances the cursor past lastSequenceID so those
	// messages are never returned again. Call only after every fetched
	// message has been attempted. Re-acknowledging the same sequence ID
	// is a no-op.
	Acknowledge(ctx context.Context, lastSequenceID int64) error

	// DownloadAttachment resolves an attachment reference and fetches its
	// bytes. Failures wrap domain.ErrDownloadFailed.
	DownloadAttachment(ctx context.Context, attachmentID string) ([]byte, error)

	// Notify sends a text reply to a channel. Best effort: callers must
	// not let a notify failure abort processing.
	Notify(ctx context.Context, chatID int64, text string) error
}
