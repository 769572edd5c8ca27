package driven

// Prompt names for the PromptStore.
const (
	// PromptExtractContact is the structured-extraction prompt. Takes one
	// %s placeholder for the raw note.
	PromptExtractContact = "extract_contact"

	// PromptReadCard is the business card vision prompt. No placeholders.
	PromptReadCard = "read_card"

	// PromptSynthesizeDossier is the dossier synthesis prompt. Takes one
	// %s placeholder for the assembled research context.
	PromptSynthesizeDossier = "synthesize_dossier"
)

// PromptStore loads prompt templates by name.
// Implementations may load from user-editable files with embedded
// defaults as fallback.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}
