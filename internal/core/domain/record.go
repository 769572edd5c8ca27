package domain

import "time"

// ContactRecord is everything the record writer needs to persist one
// contact: the parsed record, the optional enrichment, the raw note, the
// optional synthesized dossier and the processing date.
//
// Records are created exactly once per successfully processed message and
// never mutated by the pipeline afterwards.
type ContactRecord struct {
	Parsed   ParsedContact
	Enriched *EnrichedContact
	RawNote  RawNote

	// Dossier is the synthesized briefing text, empty when synthesis was
	// skipped (no enrichment and no evidence) or failed softly.
	Dossier string

	// MetOn is the processing date (UTC, day granularity). This is
	// deliberately not the event date even when the note mentions one.
	MetOn time.Time
}

// DisplayName resolves the record title: enriched name first, then the
// parsed name, then a placeholder so persistence never fails on a
// nameless note.
func (r ContactRecord) DisplayName() string {
	if r.Enriched != nil && r.Enriched.Name != "" {
		return r.Enriched.Name
	}
	if r.Parsed.Name != "" {
		return r.Parsed.Name
	}
	return "Unknown Contact"
}

// DisplayCompany resolves Company with enriched-over-parsed fallback.
func (r ContactRecord) DisplayCompany() string {
	if r.Enriched != nil && r.Enriched.Company != "" {
		return r.Enriched.Company
	}
	return r.Parsed.Company
}

// DisplayTitle resolves Title with enriched-over-parsed fallback.
func (r ContactRecord) DisplayTitle() string {
	if r.Enriched != nil && r.Enriched.Title != "" {
		return r.Enriched.Title
	}
	return r.Parsed.Title
}

// Email resolves the email property, enriched first. Empty means the
// property is omitted entirely, not written as null.
func (r ContactRecord) Email() string {
	if r.Enriched != nil && r.Enriched.Email != "" {
		return r.Enriched.Email
	}
	return r.Parsed.Email
}

// LinkedIn returns the LinkedIn URL; only enrichment can provide one.
func (r ContactRecord) LinkedIn() string {
	if r.Enriched != nil {
		return r.Enriched.LinkedInURL
	}
	return ""
}
