package domain

// MessageKind discriminates the payload of an inbound message.
type MessageKind string

const (
	// KindText is a plain text note.
	KindText MessageKind = "text"

	// KindVoice is a voice note or audio attachment.
	KindVoice MessageKind = "voice"

	// KindPhoto is a photo attachment (treated as a business card).
	KindPhoto MessageKind = "photo"

	// KindUnsupported is anything else (stickers, locations, etc).
	// Unsupported messages are skipped but still consumed by the batch ack.
	KindUnsupported MessageKind = "unsupported"
)

// InboundMessage is one polled unit from the inbox.
// It is transient - never persisted by the pipeline.
type InboundMessage struct {
	// SequenceID is the monotonically increasing identifier used for
	// acknowledgment. Acknowledging through the highest SequenceID in a
	// batch prevents the batch from being returned again.
	SequenceID int64

	// ChatID identifies the sender/channel for replies and access control.
	ChatID int64

	// Kind discriminates which payload fields are populated.
	Kind MessageKind

	// Text is the message text for KindText.
	Text string

	// Caption is the optional caption attached to media messages.
	Caption string

	// AttachmentID references the media blob for KindVoice and KindPhoto.
	AttachmentID string

	// MediaType is a MIME hint for photo attachments (e.g. image/jpeg).
	MediaType string
}

// IsCommand reports whether a text message is a bot command rather than
// a note about a person. Commands never enter the processing pipeline.
func (m InboundMessage) IsCommand() bool {
	return m.Kind == KindText && len(m.Text) > 0 && m.Text[0] == '/'
}
