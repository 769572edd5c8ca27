package services

import (
	"context"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
	"github.com/custodia-labs/captor-cli/internal/core/ports/driven"
)

// mockLLM is a mock implementation of driven.LLMService. Responses are
// consumed in order across Generate calls so one mock can serve both the
// extraction and synthesis stages of a pipeline run.
type mockLLM struct {
	responses    []string
	generateErr  error
	describeText string
	describeErr  error

	prompts        []string
	describeCalls  int
	lastImage      []byte
	lastMediaType  string
	lastOpts       driven.GenerateOptions
	generateCalled int
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.lastOpts = opts
	if m.generateErr != nil {
		return "", m.generateErr
	}
	idx := m.generateCalled
	m.generateCalled++
	if idx >= len(m.responses) {
		return "", nil
	}
	return m.responses[idx], nil
}

func (m *mockLLM) DescribeImage(_ context.Context, image []byte, mediaType, prompt string, opts driven.GenerateOptions) (string, error) {
	m.describeCalls++
	m.lastImage = image
	m.lastMediaType = mediaType
	m.prompts = append(m.prompts, prompt)
	m.lastOpts = opts
	return m.describeText, m.describeErr
}

func (m *mockLLM) ModelName() string { return "mock-model" }

// mockPromptStore returns templates from a map, falling back to a
// pass-through "%s" template.
type mockPromptStore struct {
	templates map[string]string
	err       error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if tmpl, ok := m.templates[name]; ok {
		return tmpl, nil
	}
	return "%s", nil
}

// mockSearch is a mock implementation of driven.SearchService with
// per-query results.
type mockSearch struct {
	results map[string][]domain.EvidenceItem
	errs    map[string]error

	queries  []string
	lastOpts driven.SearchOptions
}

func (m *mockSearch) Search(_ context.Context, query string, opts driven.SearchOptions) ([]domain.EvidenceItem, error) {
	m.queries = append(m.queries, query)
	m.lastOpts = opts
	if err, ok := m.errs[query]; ok {
		return nil, err
	}
	return m.results[query], nil
}

// mockInbox is a mock implementation of driven.Inbox.
type mockInbox struct {
	pending     []domain.InboundMessage
	fetchErr    error
	ackErr      error
	attachment  []byte
	downloadErr error
	notifyErr   error

	ackedSeq      int64
	ackCalls      int
	notifications []string
	notifyChats   []int64
	downloads     []string
}

func (m *mockInbox) FetchPending(_ context.Context) ([]domain.InboundMessage, error) {
	return m.pending, m.fetchErr
}

func (m *mockInbox) Acknowledge(_ context.Context, lastSequenceID int64) error {
	m.ackCalls++
	m.ackedSeq = lastSequenceID
	return m.ackErr
}

func (m *mockInbox) DownloadAttachment(_ context.Context, attachmentID string) ([]byte, error) {
	m.downloads = append(m.downloads, attachmentID)
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	return m.attachment, nil
}

func (m *mockInbox) Notify(_ context.Context, chatID int64, text string) error {
	m.notifyChats = append(m.notifyChats, chatID)
	m.notifications = append(m.notifications, text)
	return m.notifyErr
}

// mockEnrichment is a mock implementation of driven.EnrichmentService.
type mockEnrichment struct {
	match *domain.EnrichedContact
	err   error

	lastName   string
	lastDomain string
	calls      int
}

func (m *mockEnrichment) Lookup(_ context.Context, name, domainHint string) (*domain.EnrichedContact, error) {
	m.calls++
	m.lastName = name
	m.lastDomain = domainHint
	return m.match, m.err
}

// mockTranscriber is a mock implementation of driven.Transcriber.
type mockTranscriber struct {
	text string
	err  error

	calls     int
	lastAudio []byte
}

func (m *mockTranscriber) Transcribe(_ context.Context, audio []byte) (string, error) {
	m.calls++
	m.lastAudio = audio
	return m.text, m.err
}

// mockRecordStore is a mock implementation of driven.RecordStore.
type mockRecordStore struct {
	url string
	err error

	records []domain.ContactRecord
}

func (m *mockRecordStore) CreateContact(_ context.Context, rec domain.ContactRecord) (string, error) {
	m.records = append(m.records, rec)
	if m.err != nil {
		return "", m.err
	}
	return m.url, nil
}

// Compile-time interface checks for the mocks.
var (
	_ driven.LLMService        = (*mockLLM)(nil)
	_ driven.PromptStore       = (*mockPromptStore)(nil)
	_ driven.SearchService     = (*mockSearch)(nil)
	_ driven.Inbox             = (*mockInbox)(nil)
	_ driven.EnrichmentService = (*mockEnrichment)(nil)
	_ driven.Transcriber       = (*mockTranscriber)(nil)
	_ driven.RecordStore       = (*mockRecordStore)(nil)
)
