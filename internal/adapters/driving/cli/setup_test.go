package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/captor-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/captor-cli/internal/core/domain"
	"github.com/custodia-labs/captor-cli/internal/core/ports/driven"
)

// stubProvisioner is a canned driven.Provisioner for command tests.
type stubProvisioner struct {
	result driven.ProvisionResult
	err    error

	gotParent string
}

func (s *stubProvisioner) Provision(_ context.Context, parentPageID string) (driven.ProvisionResult, error) {
	s.gotParent = parentPageID
	return s.result, s.err
}

func TestSetupCmd_PrintsDatabaseDetails(t *testing.T) {
	originalLoad, originalBuild := loadSettings, buildProvisioner
	defer func() { loadSettings, buildProvisioner = originalLoad, originalBuild }()

	provisioner := &stubProvisioner{result: driven.ProvisionResult{
		DatabaseID: "db-abc-123",
		URL:        "https://notion.so/db-abc-123",
	}}
	loadSettings = func() (*file.Settings, error) {
		return &file.Settings{NotionToken: "n", NotionParentPageID: "parent-page"}, nil
	}
	buildProvisioner = func(_ *file.Settings) (driven.Provisioner, error) {
		return provisioner, nil
	}

	out, err := execute(t, "setup")

	require.NoError(t, err)
	assert.Equal(t, "parent-page", provisioner.gotParent)
	assert.Contains(t, out, "https://notion.so/db-abc-123")
	assert.Contains(t, out, "Database ID: db-abc-123")
	assert.Contains(t, out, "export "+file.EnvNotionDatabaseID+"=db-abc-123")
}

func TestSetupCmd_MissingCredentials(t *testing.T) {
	originalLoad := loadSettings
	defer func() { loadSettings = originalLoad }()

	loadSettings = func() (*file.Settings, error) { return &file.Settings{}, nil }

	_, err := execute(t, "setup")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSetupCmd_ProvisionFailure(t *testing.T) {
	originalLoad, originalBuild := loadSettings, buildProvisioner
	defer func() { loadSettings, buildProvisioner = originalLoad, originalBuild }()

	loadSettings = func() (*file.Settings, error) {
		return &file.Settings{NotionToken: "n", NotionParentPageID: "p"}, nil
	}
	buildProvisioner = func(_ *file.Settings) (driven.Provisioner, error) {
		return &stubProvisioner{err: errors.New("parent page not shared with integration")}, nil
	}

	_, err := execute(t, "setup")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup failed")
}
