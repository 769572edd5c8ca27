package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/captor-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/captor-cli/internal/adapters/driven/store/notion"
	"github.com/custodia-labs/captor-cli/internal/core/ports/driven"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the contact database in Notion",
	Long: `Creates the Contact Capture database under the configured parent page,
with the full property schema the capture pipeline writes to. Run this
once, then point NOTION_DATABASE_ID at the printed database ID.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// buildProvisioner is swappable in tests.
var buildProvisioner = func(settings *file.Settings) (driven.Provisioner, error) {
	return notion.NewStore(notion.Config{Token: settings.NotionToken})
}

func runSetup(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if err := settings.ValidateSetup(); err != nil {
		return err
	}

	provisioner, err := buildProvisioner(settings)
	if err != nil {
		return err
	}

	cmd.Println("Creating contact database...")

	result, err := provisioner.Provision(context.Background(), settings.NotionParentPageID)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	cmd.Printf("Database created: %s\n", result.URL)
	cmd.Printf("Database ID: %s\n\n", result.DatabaseID)
	cmd.Printf("Add this to your environment before running captures:\n")
	cmd.Printf("  export %s=%s\n", file.EnvNotionDatabaseID, result.DatabaseID)
	return nil
}
