package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/captor-cli/internal/core/ports/driven"
)

// cardReadMaxTokens bounds the card description completion.
const cardReadMaxTokens = 1024

// CardReader turns a photographed business card into a one-sentence
// natural-language note via a vision model call with a fixed prompt.
type CardReader struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewCardReader creates a new business card reader.
func NewCardReader(llm driven.LLMService, prompts driven.PromptStore) *CardReader {
	return &CardReader{
		llm:     llm,
		prompts: prompts,
	}
}

// Read returns the card's content as free text enumerating every visible
// field. The result becomes the canonical raw note for the message.
func (c *CardReader) Read(ctx context.Context, image []byte, mediaType string) (string, error) {
	prompt, err := c.prompts.Load(driven.PromptReadCard)
	if err != nil {
		return "", fmt.Errorf("load card prompt: %w", err)
	}

	text, err := c.llm.DescribeImage(ctx, image, mediaType, prompt, driven.GenerateOptions{
		MaxTokens: cardReadMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("read business card: %w", err)
	}
	return strings.TrimSpace(text), nil
}
