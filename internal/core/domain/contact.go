package domain

import "strings"

// NoteSource tags where a raw note came from. The values double as the
// "Source" select options in the destination database.
type NoteSource string

const (
	// SourceText is a typed text message.
	SourceText NoteSource = "Text"

	// SourceVoiceNote is a transcribed voice note.
	SourceVoiceNote NoteSource = "Voice Note"

	// SourceBusinessCard is a photographed business card read by vision.
	SourceBusinessCard NoteSource = "Business Card"
)

// RawNote is the normalised plain-text note produced once per message.
// It is the ground truth passed to every downstream stage; stages never
// re-derive it.
type RawNote struct {
	Text   string
	Source NoteSource
}

// ParsedContact is the structured record extracted from a raw note.
// Every field is optional; an empty string means the note didn't mention it.
// Name is the effective primary key: when empty, enrichment and research
// are skipped and persistence degrades to a minimal record.
type ParsedContact struct {
	// Name is the full name of the person.
	Name string `json:"name"`

	// Company is the company or organisation name.
	Company string `json:"company"`

	// Title is the job title or role if mentioned.
	Title string `json:"title"`

	// Email is an email address if mentioned.
	Email string `json:"email"`

	// Phone is a phone number if mentioned.
	Phone string `json:"phone"`

	// Event is the event name or location where they met.
	Event string `json:"event"`

	// Context captures topics discussed, interests, and notable details.
	Context string `json:"context"`

	// FollowUp is one concrete suggested follow-up action.
	FollowUp string `json:"follow_up"`

	// SearchCompanyDomain is the extractor's best guess at the company
	// website domain (e.g. kelloggs.com), used as an enrichment hint.
	SearchCompanyDomain string `json:"search_company_domain"`
}

// EnrichedContact is the normalised best match from the enrichment lookup.
// At most one per ParsedContact; absence is an expected outcome, not an error.
type EnrichedContact struct {
	Name           string `json:"name"`
	Title          string `json:"title"`
	Email          string `json:"email"`
	LinkedInURL    string `json:"linkedin_url"`
	Company        string `json:"company"`
	CompanyWebsite string `json:"company_website"`
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
}

// Location joins the populated city/state/country parts for display.
func (e EnrichedContact) Location() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{e.City, e.State, e.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// EvidenceItem is one deduplicated web search result used as synthesis
// input. URL is the dedup key across all research queries.
type EvidenceItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}
