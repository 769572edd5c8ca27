package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
	"github.com/custodia-labs/captor-cli/internal/core/ports/driven"
)

// Synthesis tuning.
const (
	synthesizeMaxTokens = 2048

	// promptExcerptChars caps each evidence excerpt inside the synthesis
	// prompt. Research stores up to 1500 characters per item but the
	// prompt only carries the first 1000.
	promptExcerptChars = 1000
)

// Synthesizer merges the note, the structured record, the enrichment and
// the evidence into one prompt and obtains a free-text briefing.
type Synthesizer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewSynthesizer creates a new dossier synthesizer.
func NewSynthesizer(llm driven.LLMService, prompts driven.PromptStore) *Synthesizer {
	return &Synthesizer{
		llm:     llm,
		prompts: prompts,
	}
}

// Synthesize produces the dossier text. It must only be called when there
// is something to synthesize (enrichment present or evidence non-empty);
// the orchestrator enforces that so a dossier is never fabricated from
// the raw note alone.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	parsed domain.ParsedContact,
	enriched *domain.EnrichedContact,
	evidence []domain.EvidenceItem,
	rawNote string,
) (string, error) {
	template, err := s.prompts.Load(driven.PromptSynthesizeDossier)
	if err != nil {
		return "", fmt.Errorf("load synthesis prompt: %w", err)
	}

	prompt := fmt.Sprintf(template, buildContext(parsed, enriched, evidence, rawNote))

	dossier, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens: synthesizeMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("synthesize dossier: %w", err)
	}

	dossier = strings.TrimSpace(dossier)
	if dossier == "" {
		return "", fmt.Errorf("synthesize dossier: empty completion")
	}
	return dossier, nil
}

// buildContext assembles the research context: raw note, parsed record,
// enrichment and indexed evidence blocks.
func buildContext(
	parsed domain.ParsedContact,
	enriched *domain.EnrichedContact,
	evidence []domain.EvidenceItem,
	rawNote string,
) string {
	sections := []string{"Original note from meeting: " + rawNote}

	if parsedJSON, err := json.Marshal(parsed); err == nil {
		sections = append(sections, "Parsed contact info: "+string(parsedJSON))
	}

	if enriched != nil {
		if enrichedJSON, err := json.Marshal(enriched); err == nil {
			sections = append(sections, "Contact database enrichment: "+string(enrichedJSON))
		}
	}

	if len(evidence) > 0 {
		sections = append(sections, "Web research results:")
		for i, item := range evidence {
			sections = append(sections, fmt.Sprintf(
				"  [%d] %s (%s)\n  %s",
				i+1, item.Title, item.URL, truncate(item.Text, promptExcerptChars),
			))
		}
	}

	return strings.Join(sections, "\n\n")
}

// truncate caps s at max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
