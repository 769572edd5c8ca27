package driven

import "context"

// LLMService provides language model operations for extraction and
// synthesis. The extraction contract additionally requires the completion
// to be machine-parsable JSON; enforcing that is the caller's job.
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// DescribeImage produces a text completion from an image plus an
	// instruction prompt (used to read business card photos). mediaType
	// is the image MIME type (image/jpeg or image/png).
	DescribeImage(ctx context.Context, image []byte, mediaType, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
