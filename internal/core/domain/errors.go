package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrExtractionFailed indicates the extraction model's response could
	// not be parsed as the expected structured contact shape. This is the
	// pipeline's first hard-fail point: the message is abandoned with a
	// user-facing apology.
	ErrExtractionFailed = errors.New("contact extraction failed")

	// ErrDownloadFailed indicates an attachment could not be resolved or
	// fetched from the inbox. Hard-fail for that message only.
	ErrDownloadFailed = errors.New("attachment download failed")

	// ErrPersistenceFailed indicates the destination store rejected the
	// record after all upstream work succeeded. The sender is told the
	// contact was parsed but not saved.
	ErrPersistenceFailed = errors.New("record persistence failed")

	// ErrInvalidConfig indicates required configuration is missing or
	// malformed at startup.
	ErrInvalidConfig = errors.New("invalid configuration")
)
