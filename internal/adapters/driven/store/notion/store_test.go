package notion

import (
	"strings"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
)

func fullRecord() domain.ContactRecord {
	return domain.ContactRecord{
		Parsed: domain.ParsedContact{
			Name:     "Jane Doe",
			Company:  "Initech",
			Title:    "CTO",
			Event:    "DevConf Austin",
			Context:  "Talked about platform modernisation",
			FollowUp: "Send the migration whitepaper",
		},
		Enriched: &domain.EnrichedContact{
			Name:           "Jane Doe",
			Title:          "Chief Technology Officer",
			Email:          "jane@initech.com",
			LinkedInURL:    "https://linkedin.com/in/janedoe",
			Company:        "Initech Inc",
			CompanyWebsite: "https://initech.com",
			City:           "Austin",
			State:          "Texas",
			Country:        "United States",
		},
		RawNote: domain.RawNote{
			Text:   "Just met Jane Doe from Initech, CTO",
			Source: domain.SourceText,
		},
		Dossier: "**Background:**\nJane has led Initech engineering since 2019.",
		MetOn:   time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewStore_RequiresToken(t *testing.T) {
	_, err := NewStore(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is required")
}

func TestBuildProperties_FullRecord(t *testing.T) {
	props := buildProperties(fullRecord())

	title := props["Name"].(notionapi.TitleProperty)
	require.Len(t, title.Title, 1)
	assert.Equal(t, "Jane Doe", title.Title[0].Text.Content)

	company := props["Company"].(notionapi.RichTextProperty)
	assert.Equal(t, "Initech Inc", company.RichText[0].Text.Content)

	jobTitle := props["Title"].(notionapi.RichTextProperty)
	assert.Equal(t, "Chief Technology Officer", jobTitle.RichText[0].Text.Content)

	email := props["Email"].(notionapi.EmailProperty)
	assert.Equal(t, "jane@initech.com", email.Email)

	linkedin := props["LinkedIn"].(notionapi.URLProperty)
	assert.Equal(t, "https://linkedin.com/in/janedoe", linkedin.URL)

	source := props["Source"].(notionapi.SelectProperty)
	assert.Equal(t, "Text", source.Select.Name)

	status := props["Status"].(notionapi.SelectProperty)
	assert.Equal(t, "New", status.Select.Name)

	enriched := props["Apollo Enriched"].(notionapi.CheckboxProperty)
	assert.True(t, enriched.Checkbox)

	date := props["Date Met"].(notionapi.DateProperty)
	require.NotNil(t, date.Date.Start)
}

func TestBuildProperties_AbsentOptionalsOmitted(t *testing.T) {
	rec := domain.ContactRecord{
		Parsed:  domain.ParsedContact{Name: "Bob"},
		RawNote: domain.RawNote{Text: "met Bob", Source: domain.SourceVoiceNote},
		MetOn:   time.Now(),
	}

	props := buildProperties(rec)

	_, hasEmail := props["Email"]
	assert.False(t, hasEmail)
	_, hasLinkedIn := props["LinkedIn"]
	assert.False(t, hasLinkedIn)

	enriched := props["Apollo Enriched"].(notionapi.CheckboxProperty)
	assert.False(t, enriched.Checkbox)

	source := props["Source"].(notionapi.SelectProperty)
	assert.Equal(t, "Voice Note", source.Select.Name)
}

// bodyHeadings extracts the section heading texts in order.
func bodyHeadings(blocks []notionapi.Block) []string {
	var headings []string
	for _, b := range blocks {
		if h, ok := b.(*notionapi.Heading3Block); ok {
			var text strings.Builder
			for _, r := range h.Heading3.RichText {
				text.WriteString(r.Text.Content)
			}
			headings = append(headings, text.String())
		}
	}
	return headings
}

func TestBuildBody_FullRecordSectionOrder(t *testing.T) {
	blocks := buildBody(fullRecord())

	headings := bodyHeadings(blocks)
	// The dossier's own "Background" subheading renders between the
	// Dossier section header and the next fixed section.
	assert.Equal(t, []string{
		"Dossier",
		"Background",
		"Meeting Notes",
		"Met At",
		"Raw Note",
		"Enrichment Data",
	}, headings)

	// Follow-up is suppressed when a dossier is present
	assert.NotContains(t, headings, "Suggested Follow-Up")

	// Divider separates dossier from bookkeeping
	var dividers int
	for _, b := range blocks {
		if b.GetType() == notionapi.BlockTypeDivider {
			dividers++
		}
	}
	assert.Equal(t, 1, dividers)
}

func TestBuildBody_NoDossierShowsFollowUp(t *testing.T) {
	rec := fullRecord()
	rec.Dossier = ""

	headings := bodyHeadings(buildBody(rec))

	assert.NotContains(t, headings, "Dossier")
	assert.Contains(t, headings, "Suggested Follow-Up")
}

func TestBuildBody_RawNoteAlwaysPresent(t *testing.T) {
	rec := domain.ContactRecord{
		Parsed:  domain.ParsedContact{},
		RawNote: domain.RawNote{Text: "met someone", Source: domain.SourceText},
		MetOn:   time.Now(),
	}

	headings := bodyHeadings(buildBody(rec))

	assert.Equal(t, []string{"Raw Note"}, headings)
}

func TestEnrichmentLines_FixedOrderOmittingEmpty(t *testing.T) {
	lines := enrichmentLines(domain.EnrichedContact{
		Title:       "CTO",
		LinkedInURL: "https://linkedin.com/in/janedoe",
		City:        "Austin",
		Country:     "United States",
	})

	assert.Equal(t, strings.Join([]string{
		"Title: CTO",
		"LinkedIn: https://linkedin.com/in/janedoe",
		"Location: Austin, United States",
	}, "\n"), lines)
}

func TestEnrichmentLines_EmptyEnrichment(t *testing.T) {
	assert.Empty(t, enrichmentLines(domain.EnrichedContact{}))
}
