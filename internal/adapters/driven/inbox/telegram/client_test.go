package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/captor-cli/internal/core/domain"
)

const testToken = "123456:test-token"

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{Token: testToken, BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is required")
}

func TestFetchPending_MapsUpdateKinds(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot"+testToken+"/getUpdates", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("timeout"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"ok": true,
			"result": [
				{
					"update_id": 100,
					"message": {
						"chat": {"id": 42},
						"text": "met Jane Doe from Initech"
					}
				},
				{
					"update_id": 101,
					"message": {
						"chat": {"id": 42},
						"voice": {"file_id": "voice-1", "mime_type": "audio/ogg"}
					}
				},
				{
					"update_id": 102,
					"message": {
						"chat": {"id": 42},
						"caption": "from the summit",
						"photo": [
							{"file_id": "small", "width": 90, "height": 60},
							{"file_id": "large", "width": 1280, "height": 960}
						]
					}
				},
				{
					"update_id": 103,
					"message": {
						"chat": {"id": 42},
						"sticker": {"file_id": "sticker-1"}
					}
				}
			]
		}`))
	}))

	messages, err := client.FetchPending(context.Background())

	require.NoError(t, err)
	require.Len(t, messages, 4)

	assert.Equal(t, domain.InboundMessage{
		SequenceID: 100,
		ChatID:     42,
		Kind:       domain.KindText,
		Text:       "met Jane Doe from Initech",
	}, messages[0])

	assert.Equal(t, domain.KindVoice, messages[1].Kind)
	assert.Equal(t, "voice-1", messages[1].AttachmentID)
	assert.Equal(t, "audio/ogg", messages[1].MediaType)

	// Largest photo variant wins
	assert.Equal(t, domain.KindPhoto, messages[2].Kind)
	assert.Equal(t, "large", messages[2].AttachmentID)
	assert.Equal(t, "from the summit", messages[2].Caption)
	assert.Equal(t, "image/jpeg", messages[2].MediaType)

	assert.Equal(t, domain.KindUnsupported, messages[3].Kind)
	assert.Equal(t, int64(103), messages[3].SequenceID)
}

func TestFetchPending_APIErrorSurfaced(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok": false, "description": "Unauthorized"}`))
	}))

	_, err := client.FetchPending(context.Background())

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Unauthorized", apiErr.Description)
}

func TestAcknowledge_AdvancesOffsetPastSequence(t *testing.T) {
	var gotOffset string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOffset = r.URL.Query().Get("offset")
		_, _ = w.Write([]byte(`{"ok": true, "result": []}`))
	}))

	err := client.Acknowledge(context.Background(), 102)

	require.NoError(t, err)
	assert.Equal(t, "103", gotOffset)
}

func TestDownloadAttachment_ResolvesThenFetches(t *testing.T) {
	content := []byte("binary-photo-bytes")
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bot" + testToken + "/getFile":
			assert.Equal(t, "photo-1", r.URL.Query().Get("file_id"))
			_, _ = w.Write([]byte(`{"ok": true, "result": {"file_path": "photos/file_1.jpg"}}`))
		case "/file/bot" + testToken + "/photos/file_1.jpg":
			_, _ = w.Write(content)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	data, err := client.DownloadAttachment(context.Background(), "photo-1")

	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestDownloadAttachment_FailuresWrapSentinel(t *testing.T) {
	t.Run("resolve fails", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok": false, "description": "file not found"}`))
		}))

		_, err := client.DownloadAttachment(context.Background(), "gone")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDownloadFailed)
	})

	t.Run("empty file path", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"ok": true, "result": {}}`))
		}))

		_, err := client.DownloadAttachment(context.Background(), "odd")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDownloadFailed)
	})

	t.Run("content fetch fails", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/bot"+testToken+"/getFile" {
				_, _ = w.Write([]byte(`{"ok": true, "result": {"file_path": "expired.jpg"}}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := client.DownloadAttachment(context.Background(), "expired")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDownloadFailed)
	})
}

func TestNotify_SendsMarkdownMessage(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot"+testToken+"/sendMessage", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok": true, "result": {}}`))
	}))

	err := client.Notify(context.Background(), 42, "*Jane Doe* saved")

	require.NoError(t, err)
	assert.Equal(t, float64(42), got["chat_id"])
	assert.Equal(t, "*Jane Doe* saved", got["text"])
	assert.Equal(t, "Markdown", got["parse_mode"])
}

func TestNotify_APIErrorReturned(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"ok": false, "description": "bot was blocked by the user"}`))
	}))

	err := client.Notify(context.Background(), 42, "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked by the user")
}
