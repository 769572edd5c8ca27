// Package notion provides the destination record store adapter using the
// Notion API via github.com/jomei/notionapi.
package notion

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
	"github.com/custodia-labs/captor-cli/internal/core/ports/driven"
	"github.com/custodia-labs/captor-cli/internal/logger"
)

// Ensure Store implements the interfaces.
var (
	_ driven.RecordStore = (*Store)(nil)
	_ driven.Provisioner = (*Store)(nil)
)

// DatabaseTitle is the name of the provisioned contact database.
const DatabaseTitle = "Contact Capture"

// Config holds configuration for the Notion record store.
type Config struct {
	// Token is the Notion integration token (required).
	Token string

	// DatabaseID is the contact database to write records into.
	// Required for CreateContact, unused by Provision.
	DatabaseID string
}

// Store writes contact records as Notion pages.
type Store struct {
	client     *notionapi.Client
	databaseID notionapi.DatabaseID
}

// NewStore creates a new Notion record store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("notion: integration token is required")
	}

	return &Store{
		client:     notionapi.NewClient(notionapi.Token(cfg.Token)),
		databaseID: notionapi.DatabaseID(cfg.DatabaseID),
	}, nil
}

// CreateContact writes one contact page and returns its URL.
func (s *Store) CreateContact(ctx context.Context, rec domain.ContactRecord) (string, error) {
	if s.databaseID == "" {
		return "", fmt.Errorf("%w: notion database ID not configured", domain.ErrPersistenceFailed)
	}

	page, err := s.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: s.databaseID,
		},
		Properties: buildProperties(rec),
		Children:   buildBody(rec),
	})
	if err != nil {
		return "", fmt.Errorf("%w: create page: %w", domain.ErrPersistenceFailed, err)
	}

	logger.Debug("notion: created page %s", page.URL)
	return page.URL, nil
}

// buildProperties maps the record into the database's typed properties.
// Email and LinkedIn are omitted entirely when absent rather than written
// as empty values.
func buildProperties(rec domain.ContactRecord) notionapi.Properties {
	metOn := notionapi.Date(rec.MetOn)

	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: []notionapi.RichText{textRun(rec.DisplayName(), false)},
		},
		"Company": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{textRun(rec.DisplayCompany(), false)},
		},
		"Title": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{textRun(rec.DisplayTitle(), false)},
		},
		"Date Met": notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &metOn},
		},
		"Source": notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(rec.RawNote.Source)},
		},
		"Status": notionapi.SelectProperty{
			Select: notionapi.Option{Name: "New"},
		},
		"Apollo Enriched": notionapi.CheckboxProperty{
			Checkbox: rec.Enriched != nil,
		},
	}

	if email := rec.Email(); email != "" {
		props["Email"] = notionapi.EmailProperty{Email: email}
	}
	if linkedin := rec.LinkedIn(); linkedin != "" {
		props["LinkedIn"] = notionapi.URLProperty{URL: linkedin}
	}
	return props
}

// buildBody renders the page content in fixed section order: Dossier,
// Meeting Notes, Met At, Suggested Follow-Up (only without a dossier,
// since the dossier already ends with a suggested approach), Raw Note,
// Enrichment Data.
func buildBody(rec domain.ContactRecord) []notionapi.Block {
	var children []notionapi.Block

	if rec.Dossier != "" {
		children = append(children, headingBlock("Dossier"))
		children = append(children, dossierBlocks(rec.Dossier)...)
		children = append(children, dividerBlock())
	}

	if rec.Parsed.Context != "" {
		children = append(children, headingBlock("Meeting Notes"))
		children = append(children, paragraphBlocks(rec.Parsed.Context)...)
	}

	if rec.Parsed.Event != "" {
		children = append(children, headingBlock("Met At"))
		children = append(children, paragraphBlocks(rec.Parsed.Event)...)
	}

	if rec.Parsed.FollowUp != "" && rec.Dossier == "" {
		children = append(children, headingBlock("Suggested Follow-Up"))
		children = append(children, paragraphBlocks(rec.Parsed.FollowUp)...)
	}

	children = append(children, headingBlock("Raw Note"))
	children = append(children, paragraphBlocks(rec.RawNote.Text)...)

	if rec.Enriched != nil {
		children = append(children, headingBlock("Enrichment Data"))
		if lines := enrichmentLines(*rec.Enriched); lines != "" {
			children = append(children, paragraphBlocks(lines)...)
		}
	}

	return children
}

// enrichmentLines renders the enrichment summary as a fixed-order line
// list; lines with no value are omitted.
func enrichmentLines(e domain.EnrichedContact) string {
	var lines []string
	if e.Title != "" {
		lines = append(lines, "Title: "+e.Title)
	}
	if e.Email != "" {
		lines = append(lines, "Email: "+e.Email)
	}
	if e.LinkedInURL != "" {
		lines = append(lines, "LinkedIn: "+e.LinkedInURL)
	}
	if e.CompanyWebsite != "" {
		lines = append(lines, "Company site: "+e.CompanyWebsite)
	}
	if loc := e.Location(); loc != "" {
		lines = append(lines, "Location: "+loc)
	}
	return strings.Join(lines, "\n")
}

// Provision creates the contact database under the given parent page.
// Run once via the setup command.
func (s *Store) Provision(ctx context.Context, parentPageID string) (driven.ProvisionResult, error) {
	db, err := s.client.Database.Create(ctx, &notionapi.DatabaseCreateRequest{
		Parent: notionapi.Parent{
			Type:   notionapi.ParentTypePageID,
			PageID: notionapi.PageID(parentPageID),
		},
		Title: []notionapi.RichText{textRun(DatabaseTitle, false)},
		Properties: notionapi.PropertyConfigs{
			"Name":     notionapi.TitlePropertyConfig{Type: notionapi.PropertyConfigTypeTitle},
			"Company":  notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText},
			"Title":    notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText},
			"Email":    notionapi.EmailPropertyConfig{Type: notionapi.PropertyConfigTypeEmail},
			"LinkedIn": notionapi.URLPropertyConfig{Type: notionapi.PropertyConfigTypeURL},
			"Date Met": notionapi.DatePropertyConfig{Type: notionapi.PropertyConfigTypeDate},
			"Source": notionapi.SelectPropertyConfig{
				Type: notionapi.PropertyConfigTypeSelect,
				Select: notionapi.Select{Options: []notionapi.Option{
					{Name: string(domain.SourceVoiceNote), Color: notionapi.ColorBlue},
					{Name: string(domain.SourceText), Color: notionapi.ColorGreen},
					{Name: string(domain.SourceBusinessCard), Color: notionapi.ColorOrange},
				}},
			},
			"Status": notionapi.SelectPropertyConfig{
				Type: notionapi.PropertyConfigTypeSelect,
				Select: notionapi.Select{Options: []notionapi.Option{
					{Name: "New", Color: notionapi.ColorYellow},
					{Name: "Followed Up", Color: notionapi.ColorGreen},
					{Name: "Connected", Color: notionapi.ColorPurple},
					{Name: "Not Relevant", Color: notionapi.ColorGray},
				}},
			},
			"Apollo Enriched": notionapi.CheckboxPropertyConfig{Type: notionapi.PropertyConfigTypeCheckbox},
		},
	})
	if err != nil {
		return driven.ProvisionResult{}, fmt.Errorf("create database: %w", err)
	}

	return driven.ProvisionResult{
		DatabaseID: string(db.ID),
		URL:        db.URL,
	}, nil
}
