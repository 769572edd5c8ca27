package driving

import "context"

// Pipeline drives one poll-process-acknowledge cycle over the inbox.
type Pipeline interface {
	// RunOnce fetches all pending messages, runs each through the
	// processing stages, then acknowledges the whole batch regardless of
	// per-message outcomes. A failure while processing one message never
	// aborts the batch. RunOnce returns an error only when the poll or
	// the acknowledgment itself fails.
	RunOnce(ctx context.Context) (RunReport, error)
}

// RunReport summarises one batch run.
type RunReport struct {
	// RunID uniquely identifies this batch for log correlation.
	RunID string

	// Fetched is the number of pending messages returned by the poll.
	Fetched int

	// Processed is the number of messages that produced a record.
	Processed int

	// Skipped counts messages dropped without processing (unauthorized
	// senders, commands, unsupported payloads).
	Skipped int

	// Failed counts messages whose processing aborted. Failed messages
	// are still acknowledged; this is the accepted at-least-once
	// tradeoff, surfaced here so operators can see it.
	Failed int
}
