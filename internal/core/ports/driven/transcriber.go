package driven

import "context"

// Transcriber converts audio bytes to text.
// This is an optional capability - when nil, voice notes are rejected with
// an explicit user notice rather than silently failing.
type Transcriber interface {
	// Transcribe returns the spoken text of an audio clip. An empty
	// string with a nil error means the service genuinely heard nothing.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
