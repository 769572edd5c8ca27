// Package telegram provides the inbox adapter backed by the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
	"github.com/custodia-labs/captor-cli/internal/core/ports/driven"
	"github.com/custodia-labs/captor-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Inbox = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.telegram.org"
	DefaultTimeout = 30 * time.Second

	// Outbound sends are limited well below Telegram's per-chat cap of
	// one message per second sustained.
	sendRatePerSecond = 1.0
	sendBurst         = 3
)

// Config holds configuration for the Telegram inbox client.
type Config struct {
	// Token is the bot token (required).
	Token string

	// BaseURL is the API base URL (default: https://api.telegram.org).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Client polls and replies through a single Telegram bot.
type Client struct {
	client      *http.Client
	baseURL     string
	token       string
	sendLimiter *rate.Limiter
}

// apiResponse is the Telegram envelope shared by every method.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// update is one entry from getUpdates.
type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text    string `json:"text"`
		Caption string `json:"caption"`
		Voice   *struct {
			FileID   string `json:"file_id"`
			MIMEType string `json:"mime_type"`
		} `json:"voice"`
		Audio *struct {
			FileID   string `json:"file_id"`
			MIMEType string `json:"mime_type"`
		} `json:"audio"`
		// Photo variants are ordered smallest to largest.
		Photo []struct {
			FileID string `json:"file_id"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"photo"`
	} `json:"message"`
}

// APIError represents a Telegram Bot API error response.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: API error %d: %s", e.StatusCode, e.Description)
}

// NewClient creates a new Telegram inbox client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram: bot token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     cfg.BaseURL,
		token:       cfg.Token,
		sendLimiter: rate.NewLimiter(rate.Limit(sendRatePerSecond), sendBurst),
	}, nil
}

// FetchPending returns all updates since the last acknowledged offset.
func (c *Client) FetchPending(ctx context.Context) ([]domain.InboundMessage, error) {
	params := url.Values{}
	params.Set("timeout", "0")

	raw, err := c.call(ctx, http.MethodGet, "getUpdates", params, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch updates: %w", err)
	}

	var updates []update
	if err := json.Unmarshal(raw, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}

	messages := make([]domain.InboundMessage, 0, len(updates))
	for _, u := range updates {
		messages = append(messages, mapUpdate(u))
	}
	return messages, nil
}

// Acknowledge advances the update offset past lastSequenceID.
// Telegram drops every update below the requested offset, so calling this
// twice with the same ID is a no-op.
func (c *Client) Acknowledge(ctx context.Context, lastSequenceID int64) error {
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(lastSequenceID+1, 10))
	params.Set("timeout", "0")

	if _, err := c.call(ctx, http.MethodGet, "getUpdates", params, nil); err != nil {
		return fmt.Errorf("acknowledge updates: %w", err)
	}
	return nil
}

// DownloadAttachment resolves a file reference to a storage path, then
// fetches the bytes.
func (c *Client) DownloadAttachment(ctx context.Context, attachmentID string) ([]byte, error) {
	params := url.Values{}
	params.Set("file_id", attachmentID)

	raw, err := c.call(ctx, http.MethodGet, "getFile", params, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve file: %w", domain.ErrDownloadFailed, err)
	}

	var file struct {
		FilePath string `json:"file_path"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: decode file info: %w", domain.ErrDownloadFailed, err)
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("%w: no file path returned", domain.ErrDownloadFailed)
	}

	fileURL := fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, file.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrDownloadFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch file: %w", domain.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch file: status %d", domain.ErrDownloadFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read file: %w", domain.ErrDownloadFailed, err)
	}
	return data, nil
}

// Notify sends a Markdown-formatted reply. Failures are returned so the
// caller can log them, but notification is best effort by contract.
func (c *Client) Notify(ctx context.Context, chatID int64, text string) error {
	if err := c.sendLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("send rate limit wait: %w", err)
	}

	body := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if _, err := c.call(ctx, http.MethodPost, "sendMessage", nil, body); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// call performs one bot API request and unwraps the Telegram envelope.
func (c *Client) call(ctx context.Context, method, apiMethod string, params url.Values, body any) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, apiMethod)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if !envelope.OK {
		return nil, &APIError{StatusCode: resp.StatusCode, Description: envelope.Description}
	}
	return envelope.Result, nil
}

// mapUpdate converts a Telegram update into the domain message shape.
func mapUpdate(u update) domain.InboundMessage {
	msg := domain.InboundMessage{
		SequenceID: u.UpdateID,
		Kind:       domain.KindUnsupported,
	}
	if u.Message == nil {
		return msg
	}

	msg.ChatID = u.Message.Chat.ID
	msg.Caption = u.Message.Caption

	switch {
	case len(u.Message.Photo) > 0:
		// Variants are ordered by size; take the largest for the best
		// chance of reading small print on a card.
		best := u.Message.Photo[len(u.Message.Photo)-1]
		msg.Kind = domain.KindPhoto
		msg.AttachmentID = best.FileID
		msg.MediaType = "image/jpeg"

	case u.Message.Voice != nil:
		msg.Kind = domain.KindVoice
		msg.AttachmentID = u.Message.Voice.FileID
		msg.MediaType = u.Message.Voice.MIMEType

	case u.Message.Audio != nil:
		msg.Kind = domain.KindVoice
		msg.AttachmentID = u.Message.Audio.FileID
		msg.MediaType = u.Message.Audio.MIMEType

	case u.Message.Text != "":
		msg.Kind = domain.KindText
		msg.Text = u.Message.Text

	default:
		logger.Debug("telegram: unsupported payload in update %d", u.UpdateID)
	}

	return msg
}
