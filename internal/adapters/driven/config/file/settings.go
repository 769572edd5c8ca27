package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
)

// Environment variable names for credentials. Credentials never live in
// the TOML file; only non-secret tunables do.
const (
	EnvTelegramToken      = "TELEGRAM_BOT_TOKEN"
	EnvTelegramChatID     = "TELEGRAM_CHAT_ID"
	EnvAnthropicKey       = "ANTHROPIC_API_KEY"
	EnvOpenAIKey          = "OPENAI_API_KEY"
	EnvExaKey             = "EXA_API_KEY"
	EnvApolloKey          = "APOLLO_API_KEY"
	EnvNotionToken        = "NOTION_TOKEN"
	EnvNotionDatabaseID   = "NOTION_DATABASE_ID"
	EnvNotionParentPageID = "NOTION_PARENT_PAGE_ID"
)

// Settings is the merged runtime configuration: credentials from the
// environment plus non-secret tunables overlaid from config.toml in the
// captor config directory.
type Settings struct {
	TelegramToken      string
	TelegramChatID     int64
	AnthropicKey       string
	OpenAIKey          string
	ExaKey             string
	ApolloKey          string
	NotionToken        string
	NotionDatabaseID   string
	NotionParentPageID string

	// Model overrides the default Anthropic model when non-empty.
	Model string

	// PromptDir overrides the default prompt directory when non-empty.
	PromptDir string
}

// tunables is the subset of Settings that may be set via config.toml.
type tunables struct {
	Model     string `toml:"model"`
	PromptDir string `toml:"prompt_dir"`
}

// LoadSettings builds Settings from the environment, overlaid with
// tunables from config.toml if present. If configDir is empty, defaults
// to ~/.captor. A missing config file is not an error.
func LoadSettings(configDir string) (*Settings, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".captor")
	}

	s := &Settings{
		TelegramToken:      os.Getenv(EnvTelegramToken),
		AnthropicKey:       os.Getenv(EnvAnthropicKey),
		OpenAIKey:          os.Getenv(EnvOpenAIKey),
		ExaKey:             os.Getenv(EnvExaKey),
		ApolloKey:          os.Getenv(EnvApolloKey),
		NotionToken:        os.Getenv(EnvNotionToken),
		NotionDatabaseID:   os.Getenv(EnvNotionDatabaseID),
		NotionParentPageID: os.Getenv(EnvNotionParentPageID),
	}

	if raw := os.Getenv(EnvTelegramChatID); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a numeric chat ID, got %q",
				domain.ErrInvalidConfig, EnvTelegramChatID, raw)
		}
		s.TelegramChatID = chatID
	}

	if err := s.overlay(filepath.Join(configDir, "config.toml")); err != nil {
		return nil, err
	}

	return s, nil
}

// overlay merges tunables from the TOML file into the settings.
func (s *Settings) overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var t tunables
	if err := toml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidConfig, path, err)
	}

	if t.Model != "" {
		s.Model = t.Model
	}
	if t.PromptDir != "" {
		s.PromptDir = t.PromptDir
	}
	return nil
}

// ValidateRun checks the credentials the capture run requires.
// Transcription, enrichment and research keys are optional capabilities
// and not checked here.
func (s *Settings) ValidateRun() error {
	var missing []string
	if s.TelegramToken == "" {
		missing = append(missing, EnvTelegramToken)
	}
	if s.AnthropicKey == "" {
		missing = append(missing, EnvAnthropicKey)
	}
	if s.NotionToken == "" {
		missing = append(missing, EnvNotionToken)
	}
	if s.NotionDatabaseID == "" {
		missing = append(missing, EnvNotionDatabaseID)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidConfig, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateSetup checks the credentials database provisioning requires.
func (s *Settings) ValidateSetup() error {
	var missing []string
	if s.NotionToken == "" {
		missing = append(missing, EnvNotionToken)
	}
	if s.NotionParentPageID == "" {
		missing = append(missing, EnvNotionParentPageID)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidConfig, strings.Join(missing, ", "))
	}
	return nil
}

// HasTranscription reports whether voice note transcription is available.
func (s *Settings) HasTranscription() bool { return s.OpenAIKey != "" }

// HasEnrichment reports whether the enrichment lookup is available.
func (s *Settings) HasEnrichment() bool { return s.ApolloKey != "" }

// HasResearch reports whether web research is available.
func (s *Settings) HasResearch() bool { return s.ExaKey != "" }
