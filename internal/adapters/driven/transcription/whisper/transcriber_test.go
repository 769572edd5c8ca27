package whisper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTranscriber(t *testing.T, handler http.Handler) *Transcriber {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tr, err := NewTranscriber(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return tr
}

func TestNewTranscriber_RequiresAPIKey(t *testing.T) {
	_, err := NewTranscriber(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestTranscribe_UploadsMultipartForm(t *testing.T) {
	audio := []byte("OggS fake opus bytes")
	tr := newTestTranscriber(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, uploadFilename, header.Filename)
		assert.Equal(t, uploadContentType, header.Header.Get("Content-Type"))

		uploaded, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, audio, uploaded)

		_, _ = w.Write([]byte(`{"text": " Just met Carlos from Ferrovia. "}`))
	}))

	text, err := tr.Transcribe(context.Background(), audio)

	require.NoError(t, err)
	assert.Equal(t, "Just met Carlos from Ferrovia.", text)
}

func TestTranscribe_EmptyTextIsNotAnError(t *testing.T) {
	tr := newTestTranscriber(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"text": ""}`))
	}))

	text, err := tr.Transcribe(context.Background(), []byte("silence"))

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestTranscribe_APIErrorSurfaced(t *testing.T) {
	tr := newTestTranscriber(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid file format.", "type": "invalid_request_error"}}`))
	}))

	_, err := tr.Transcribe(context.Background(), []byte("not audio"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid file format.")
}
