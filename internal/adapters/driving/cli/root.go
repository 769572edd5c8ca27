// Package cli implements the captor command-line interface using cobra.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/captor-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/captor-cli/internal/adapters/driven/enrichment/apollo"
	"github.com/custodia-labs/captor-cli/internal/adapters/driven/inbox/telegram"
	"github.com/custodia-labs/captor-cli/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/captor-cli/internal/adapters/driven/research/exa"
	"github.com/custodia-labs/captor-cli/internal/adapters/driven/store/notion"
	"github.com/custodia-labs/captor-cli/internal/adapters/driven/transcription/whisper"
	"github.com/custodia-labs/captor-cli/internal/core/ports/driven"
	"github.com/custodia-labs/captor-cli/internal/core/ports/driving"
	"github.com/custodia-labs/captor-cli/internal/core/services"
	"github.com/custodia-labs/captor-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "captor",
	Short: "Capture contacts from Telegram into a researched Notion database",
	Long: `Captor polls a Telegram bot inbox for notes about people you meet
(text, voice notes, or business card photos), extracts a structured
contact, enriches and researches them, and files a record with a
briefing dossier into a Notion database.

Run it once per invocation, typically from cron or a systemd timer.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"enable verbose logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadSettings is swappable in tests.
var loadSettings = func() (*file.Settings, error) {
	return file.LoadSettings("")
}

// buildPipeline assembles the capture pipeline from settings. Swappable
// in tests.
var buildPipeline = func(settings *file.Settings) (driving.Pipeline, error) {
	inbox, err := telegram.NewClient(telegram.Config{Token: settings.TelegramToken})
	if err != nil {
		return nil, fmt.Errorf("telegram client: %w", err)
	}

	llm, err := anthropic.NewLLMService(anthropic.Config{
		APIKey: settings.AnthropicKey,
		Model:  settings.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic client: %w", err)
	}

	records, err := notion.NewStore(notion.Config{
		Token:      settings.NotionToken,
		DatabaseID: settings.NotionDatabaseID,
	})
	if err != nil {
		return nil, fmt.Errorf("notion store: %w", err)
	}

	prompts, err := file.NewPromptStore(settings.PromptDir)
	if err != nil {
		return nil, fmt.Errorf("prompt store: %w", err)
	}

	// Optional capabilities: stay nil when the key is absent.
	var transcriber driven.Transcriber
	if settings.HasTranscription() {
		transcriber, err = whisper.NewTranscriber(whisper.Config{APIKey: settings.OpenAIKey})
		if err != nil {
			return nil, fmt.Errorf("whisper client: %w", err)
		}
	} else {
		logger.Info("transcription disabled (%s not set)", file.EnvOpenAIKey)
	}

	var enrichment driven.EnrichmentService
	if settings.HasEnrichment() {
		enrichment, err = apollo.NewEnrichmentService(apollo.Config{APIKey: settings.ApolloKey})
		if err != nil {
			return nil, fmt.Errorf("apollo client: %w", err)
		}
	} else {
		logger.Info("enrichment disabled (%s not set)", file.EnvApolloKey)
	}

	var search driven.SearchService
	if settings.HasResearch() {
		search, err = exa.NewSearchService(exa.Config{APIKey: settings.ExaKey})
		if err != nil {
			return nil, fmt.Errorf("exa client: %w", err)
		}
	} else {
		logger.Info("research disabled (%s not set)", file.EnvExaKey)
	}

	return services.NewPipeline(
		inbox,
		services.NewExtractor(llm, prompts),
		services.NewCardReader(llm, prompts),
		services.NewResearcher(search),
		services.NewSynthesizer(llm, prompts),
		records,
		transcriber,
		enrichment,
		settings.TelegramChatID,
	), nil
}
