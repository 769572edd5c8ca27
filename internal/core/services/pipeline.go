package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
	"github.com/custodia-labs/captor-cli/internal/core/ports/driven"
	"github.com/custodia-labs/captor-cli/internal/core/ports/driving"
	"github.com/custodia-labs/captor-cli/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

// User-facing notices. Sent over the inbox's reply channel, so Markdown
// formatting applies.
const (
	noticeVoiceUnsupported = "Voice notes need a transcription service configured. Send text or a photo instead."
	noticeEmptyTranscript  = "Couldn't transcribe that. Try again or send text."
	noticeParseFailed      = "Couldn't parse contact info. Try including a name and company."
	noticeSaveFailed       = "Parsed the contact but saving the record failed. Please try again later."
	noticeGenericFailure   = "Something went wrong processing that message. Please try again."

	usageNotice = "*Contact Capture Bot*\n\n" +
		"Send me any of these:\n" +
		"- A *text message* about someone you met\n" +
		"- A *voice note* describing the person\n" +
		"- A *photo of a business card*\n\n" +
		"I'll research them and create a contact record with a dossier.\n\n" +
		"_Example: Just met Joe Blogs from Kellogg's, VP Marketing. " +
		"Talked about their digital transformation program._"
)

// previewLength is how much of the note is echoed back while processing.
const previewLength = 80

// outcome classifies one message's fate for the run report.
type outcome int

const (
	outcomeProcessed outcome = iota
	outcomeSkipped
	outcomeFailed
)

// Pipeline drives one message through the processing stages and the
// overall poll-process-acknowledge cycle across all pending messages.
//
// Stage failure policy: extraction, attachment download and persistence
// are hard failures (the message is abandoned and the sender notified);
// enrichment, research, synthesis and outbound notification degrade
// gracefully.
type Pipeline struct {
	inbox       driven.Inbox
	extractor   *Extractor
	cardReader  *CardReader
	researcher  *Researcher
	synthesizer *Synthesizer
	records     driven.RecordStore

	// Optional capabilities - nil when the credential is absent.
	transcriber driven.Transcriber
	enrichment  driven.EnrichmentService

	// allowedChat restricts processing to one sender. Zero enables
	// discovery mode: every sender is processed and each run warns
	// loudly until the allow-list is configured.
	allowedChat int64
}

// NewPipeline creates the pipeline orchestrator. transcriber and
// enrichment may be nil; the corresponding stages then skip or
// short-circuit as the capability contract requires.
func NewPipeline(
	inbox driven.Inbox,
	extractor *Extractor,
	cardReader *CardReader,
	researcher *Researcher,
	synthesizer *Synthesizer,
	records driven.RecordStore,
	transcriber driven.Transcriber,
	enrichment driven.EnrichmentService,
	allowedChat int64,
) *Pipeline {
	return &Pipeline{
		inbox:       inbox,
		extractor:   extractor,
		cardReader:  cardReader,
		researcher:  researcher,
		synthesizer: synthesizer,
		records:     records,
		transcriber: transcriber,
		enrichment:  enrichment,
		allowedChat: allowedChat,
	}
}

// RunOnce fetches the pending batch, attempts every message, then
// acknowledges through the highest sequence ID seen - regardless of
// per-message outcomes. A message whose processing failed is not
// retried; that tradeoff is surfaced in the report's Failed counter.
func (p *Pipeline) RunOnce(ctx context.Context) (driving.RunReport, error) {
	report := driving.RunReport{RunID: uuid.NewString()}

	if p.allowedChat == 0 {
		logger.Warn("no allow-listed sender configured - processing messages from ANY sender. " +
			"Set TELEGRAM_CHAT_ID to lock this down.")
	}

	messages, err := p.inbox.FetchPending(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch pending: %w", err)
	}
	report.Fetched = len(messages)

	if len(messages) == 0 {
		logger.Info("run %s: nothing to process", report.RunID)
		return report, nil
	}
	logger.Info("run %s: %d pending message(s)", report.RunID, len(messages))

	var lastSeq int64
	for _, msg := range messages {
		if msg.SequenceID > lastSeq {
			lastSeq = msg.SequenceID
		}

		switch p.handle(ctx, msg) {
		case outcomeProcessed:
			report.Processed++
		case outcomeSkipped:
			report.Skipped++
		case outcomeFailed:
			report.Failed++
		}
	}

	// Batch-level acknowledgment: advance the cursor past everything we
	// fetched, even messages that failed.
	if err := p.inbox.Acknowledge(ctx, lastSeq); err != nil {
		return report, fmt.Errorf("acknowledge batch: %w", err)
	}

	logger.Info("run %s: processed %d, skipped %d, failed %d",
		report.RunID, report.Processed, report.Skipped, report.Failed)
	return report, nil
}

// handle is the per-message boundary: nothing thrown by one message may
// stop the batch. Unexpected errors are logged, counted and answered
// with a generic notice.
func (p *Pipeline) handle(ctx context.Context, msg domain.InboundMessage) outcome {
	out, err := p.process(ctx, msg)
	if err != nil {
		logger.Warn("message %d: %s", msg.SequenceID, logger.Truncate(err))
		p.notify(ctx, msg.ChatID, noticeGenericFailure)
		return outcomeFailed
	}
	return out
}

// process runs the per-message state machine. Hard failures that have a
// specific user notice are handled here (apology sent, outcomeFailed
// returned with a nil error); anything else propagates to handle.
func (p *Pipeline) process(ctx context.Context, msg domain.InboundMessage) (outcome, error) {
	// 1. Access control
	if msg.ChatID == 0 {
		return outcomeSkipped, nil
	}
	if p.allowedChat != 0 && msg.ChatID != p.allowedChat {
		logger.Info("ignored message from chat %d (not authorized)", msg.ChatID)
		return outcomeSkipped, nil
	}
	if p.allowedChat == 0 {
		logger.Warn("[SETUP] message from chat %d - set TELEGRAM_CHAT_ID to this value to restrict access", msg.ChatID)
	}

	// 2. Resolve the message into a raw note
	note, out, err := p.resolveNote(ctx, msg)
	if err != nil || out != outcomeProcessed {
		return out, err
	}

	preview := notePreview(note.Text)
	p.notify(ctx, msg.ChatID, fmt.Sprintf("Processing: _%s_", preview))

	// 3. Structured extraction - the single parse hard-fail point
	parsed, err := p.extractor.Extract(ctx, note.Text)
	if err != nil {
		if errors.Is(err, domain.ErrExtractionFailed) {
			logger.Warn("message %d: %s", msg.SequenceID, logger.Truncate(err))
			p.notify(ctx, msg.ChatID, noticeParseFailed)
			return outcomeFailed, nil
		}
		return outcomeFailed, err
	}
	logger.Debug("extracted contact %q at %q", parsed.Name, parsed.Company)

	// 4. Enrichment lookup (soft, skipped without a name)
	var enriched *domain.EnrichedContact
	if parsed.Name != "" && p.enrichment != nil {
		enriched, err = p.enrichment.Lookup(ctx, parsed.Name, parsed.SearchCompanyDomain)
		switch {
		case err != nil:
			logger.Warn("enrichment lookup: %s", logger.Truncate(err))
			enriched = nil
		case enriched != nil:
			logger.Info("enrichment match: %s - %s", enriched.Name, enriched.Title)
		default:
			logger.Info("enrichment: no match found")
		}
	}

	// 5. Research gathering (soft, skipped without a name)
	var evidence []domain.EvidenceItem
	if parsed.Name != "" {
		evidence = p.researcher.Gather(ctx, parsed.Name, parsed.Company)
	}

	// 6. Dossier synthesis (soft, only when there is material)
	var dossier string
	if enriched != nil || len(evidence) > 0 {
		dossier, err = p.synthesizer.Synthesize(ctx, parsed, enriched, evidence, note.Text)
		if err != nil {
			logger.Warn("dossier synthesis: %s", logger.Truncate(err))
			dossier = ""
		}
	}

	// 7. Persistence - the second hard-fail point
	now := time.Now().UTC()
	rec := domain.ContactRecord{
		Parsed:   parsed,
		Enriched: enriched,
		RawNote:  note,
		Dossier:  dossier,
		MetOn:    time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	recordURL, err := p.records.CreateContact(ctx, rec)
	if err != nil {
		logger.Warn("persist record: %s", logger.Truncate(err))
		p.notify(ctx, msg.ChatID, noticeSaveFailed)
		return outcomeFailed, nil
	}
	logger.Info("record created: %s", recordURL)

	// 8. Confirmation (best effort)
	p.notify(ctx, msg.ChatID, confirmation(parsed, enriched, dossier, recordURL))
	return outcomeProcessed, nil
}

// resolveNote normalises the message payload into a RawNote. The returned
// outcome is outcomeProcessed when a note is ready; anything else ends the
// message (commands, capability notices, unsupported payloads).
func (p *Pipeline) resolveNote(ctx context.Context, msg domain.InboundMessage) (domain.RawNote, outcome, error) {
	switch msg.Kind {
	case domain.KindPhoto:
		image, err := p.inbox.DownloadAttachment(ctx, msg.AttachmentID)
		if err != nil {
			return domain.RawNote{}, outcomeFailed, err
		}
		text, err := p.cardReader.Read(ctx, image, msg.MediaType)
		if err != nil {
			return domain.RawNote{}, outcomeFailed, err
		}
		if msg.Caption != "" {
			text = text + "\nAdditional context: " + msg.Caption
		}
		logger.Debug("card text: %s", text)
		return domain.RawNote{Text: text, Source: domain.SourceBusinessCard}, outcomeProcessed, nil

	case domain.KindVoice:
		if p.transcriber == nil {
			p.notify(ctx, msg.ChatID, noticeVoiceUnsupported)
			return domain.RawNote{}, outcomeSkipped, nil
		}
		audio, err := p.inbox.DownloadAttachment(ctx, msg.AttachmentID)
		if err != nil {
			return domain.RawNote{}, outcomeFailed, err
		}
		text, err := p.transcriber.Transcribe(ctx, audio)
		if err != nil {
			return domain.RawNote{}, outcomeFailed, err
		}
		if text == "" {
			p.notify(ctx, msg.ChatID, noticeEmptyTranscript)
			return domain.RawNote{}, outcomeSkipped, nil
		}
		logger.Debug("transcription: %s", text)
		return domain.RawNote{Text: text, Source: domain.SourceVoiceNote}, outcomeProcessed, nil

	case domain.KindText:
		if msg.IsCommand() {
			cmd := strings.TrimSpace(msg.Text)
			if cmd == "/start" || cmd == "/help" {
				p.notify(ctx, msg.ChatID, usageNotice)
			}
			return domain.RawNote{}, outcomeSkipped, nil
		}
		return domain.RawNote{Text: msg.Text, Source: domain.SourceText}, outcomeProcessed, nil

	default:
		logger.Debug("message %d: unsupported payload, skipping", msg.SequenceID)
		return domain.RawNote{}, outcomeSkipped, nil
	}
}

// notify sends a best-effort reply. Failures are logged and swallowed:
// notification is not part of the record-creation contract.
func (p *Pipeline) notify(ctx context.Context, chatID int64, text string) {
	if err := p.inbox.Notify(ctx, chatID, text); err != nil {
		logger.Warn("notify chat %d: %s", chatID, logger.Truncate(err))
	}
}

// notePreview shortens the note for the processing echo.
func notePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}

// confirmation builds the final reply summarising what was captured.
func confirmation(parsed domain.ParsedContact, enriched *domain.EnrichedContact, dossier, recordURL string) string {
	name := parsed.Name
	if name == "" {
		name = "Unknown"
	}

	title := parsed.Title
	if enriched != nil && enriched.Title != "" {
		title = enriched.Title
	}

	first := "*" + name + "*"
	if title != "" {
		first += " - " + title
	}
	lines := []string{first}

	if parsed.Company != "" {
		lines = append(lines, "_"+parsed.Company+"_")
	}
	if enriched != nil && enriched.Email != "" {
		lines = append(lines, "Email: "+enriched.Email)
	}
	if enriched != nil && enriched.LinkedInURL != "" {
		lines = append(lines, fmt.Sprintf("[LinkedIn](%s)", enriched.LinkedInURL))
	}

	if dossier != "" {
		lines = append(lines, "\nDossier ready in the contact record")
	} else if enriched == nil {
		lines = append(lines, "(no enrichment match - manual lookup may be needed)")
	}

	if parsed.FollowUp != "" {
		lines = append(lines, "\n_"+parsed.FollowUp+"_")
	}
	lines = append(lines, fmt.Sprintf("\n[Open the record](%s)", recordURL))

	return strings.Join(lines, "\n")
}
