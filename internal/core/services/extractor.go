package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
	"github.com/custodia-labs/captor-cli/internal/core/ports/driven"
	"github.com/custodia-labs/captor-cli/internal/logger"
)

// extractMaxTokens bounds the extraction completion. The JSON record is
// small; anything larger than this is the model rambling.
const extractMaxTokens = 1024

// Extractor converts a free-text note into a structured contact record
// via a single-shot LLM call with a strict JSON contract.
type Extractor struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewExtractor creates a new contact extractor.
func NewExtractor(llm driven.LLMService, prompts driven.PromptStore) *Extractor {
	return &Extractor{
		llm:     llm,
		prompts: prompts,
	}
}

// Extract parses a raw note into a ParsedContact. Any response that
// cannot be parsed as the expected JSON shape fails with
// domain.ErrExtractionFailed - the pipeline's hard-fail point.
func (e *Extractor) Extract(ctx context.Context, rawNote string) (domain.ParsedContact, error) {
	template, err := e.prompts.Load(driven.PromptExtractContact)
	if err != nil {
		return domain.ParsedContact{}, fmt.Errorf("load extraction prompt: %w", err)
	}
	prompt := fmt.Sprintf(template, rawNote)

	response, err := e.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens: extractMaxTokens,
	})
	if err != nil {
		return domain.ParsedContact{}, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	payload := stripCodeFence(strings.TrimSpace(response))

	// json.Unmarshal treats a top-level null as a no-op, which would
	// leave a zero-value contact. Only an object is a valid result.
	if !strings.HasPrefix(payload, "{") {
		logger.Debug("extractor: non-object response: %.120s", payload)
		return domain.ParsedContact{}, fmt.Errorf("%w: response is not a JSON object", domain.ErrExtractionFailed)
	}

	var parsed domain.ParsedContact
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		logger.Debug("extractor: unparsable response: %.120s", payload)
		return domain.ParsedContact{}, fmt.Errorf("%w: decode response: %w", domain.ErrExtractionFailed, err)
	}

	return parsed, nil
}

// stripCodeFence removes a wrapping markdown code fence, tolerating a
// language tag after the opening fence. Models sometimes wrap the JSON
// despite being told not to.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Drop the opening fence line ("```" or "```json").
	rest := s
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[idx+1:]
	} else {
		return s
	}

	// Drop the trailing fence, if any.
	if idx := strings.LastIndex(rest, "```"); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}
