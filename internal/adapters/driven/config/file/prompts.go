package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/captor-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to
// embedded defaults.
//
// The store uses lazy initialisation - files are only created when first
// accessed, not in the constructor. This makes testing easier and avoids
// unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content
// for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptExtractContact: `Extract contact information from this note. Someone just met this person at an event or meeting and quickly jotted this down.

Note: "%s"

Return a JSON object with these fields (use null for anything not mentioned):
{
  "name": "Full name of the person",
  "company": "Company or organization name",
  "title": "Job title or role if mentioned",
  "email": "Email address if mentioned",
  "phone": "Phone number if mentioned",
  "event": "Event name or location where they met",
  "context": "Key topics discussed, interests, or notable details",
  "follow_up": "One concrete suggested follow-up action based on the context",
  "search_company_domain": "Best guess at company website domain for enrichment (e.g. kelloggs.com). null if unsure."
}

Return ONLY valid JSON. No markdown, no explanation.`,

	driven.PromptReadCard: `Extract all information from this business card. Return a natural sentence like: 'Met [Name], [Title] at [Company]. Email: [email]. Phone: [phone]. Website: [url].' Include every detail visible on the card.`,

	driven.PromptSynthesizeDossier: `Based on the following information about a person I just met, write a concise dossier/briefing.

%s

Write the dossier using these sections (skip any section where you genuinely have no information - do NOT fabricate):

**Background:** Career history, education, key roles. Be specific with companies, titles, and dates where available.

**Current Role:** What they do now, their responsibilities, recent initiatives or focus areas.

**Recent Activity:** Articles, talks, panels, projects, or news mentions. Include specifics - titles, dates, venues.

**Company Context:** What's happening at their company that's relevant - strategy, news, challenges, market position.

**Connection Points:** Based on my note about our conversation, what are natural threads to continue? Shared interests, mutual challenges, collaboration angles.

**Suggested Approach:** A specific, actionable follow-up suggestion that references something concrete from the research. Not generic - make it something only someone who did their homework would say.

Be direct and specific. No filler, no corporate speak. If the web research is thin, say so honestly rather than padding with generalities.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.captor/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".captor", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default
// files. Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Captor Prompts

This directory contains customisable prompts used by captor's LLM stages.

## Files

- ` + "`extract_contact.txt`" + ` - Extracts a structured contact record from a note
- ` + "`read_card.txt`" + ` - Reads a photographed business card
- ` + "`synthesize_dossier.txt`" + ` - Synthesizes the research dossier

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
run.

## Format Placeholders

Some prompts use Go fmt placeholders:
- ` + "`%s`" + ` - String (the raw note, or the assembled research context)

Ensure customised prompts maintain placeholders in the correct positions.
The extraction prompt must keep instructing the model to return ONLY the
JSON object - the parser rejects anything else.
`
	return os.WriteFile(path, []byte(content), 0600)
}
