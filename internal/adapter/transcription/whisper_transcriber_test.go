package transcription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speakscore/internal/domain"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "attempt.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVEfmt "), 0o600))
	return path
}

func TestWhisperTranscriber_Transcribe(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/audio/transcriptions", r.URL.Path)
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "whisper-large-v3", r.FormValue("model"))
			assert.Equal(t, "verbose_json", r.FormValue("response_format"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"task":     "transcribe",
				"language": "english",
				"duration": 3.5,
				"text":     "  The quick brown fox jumps over the lazy dog. ",
			})
		}))
		defer server.Close()

		tr := NewWhisperTranscriber(server.URL, "test-key", "whisper-large-v3", 5*time.Second)
		result, err := tr.Transcribe(context.Background(), writeAudio(t))
		require.NoError(t, err)
		assert.Equal(t, "The quick brown fox jumps over the lazy dog.", result.Text)
		assert.Equal(t, 3.5, result.DurationSec)
	})

	t.Run("ProviderError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
		}))
		defer server.Close()

		tr := NewWhisperTranscriber(server.URL, "test-key", "whisper-large-v3", 5*time.Second)
		_, err := tr.Transcribe(context.Background(), writeAudio(t))
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.CodeProviderError))
	})

	t.Run("Timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		tr := NewWhisperTranscriber(server.URL, "test-key", "whisper-large-v3", 50*time.Millisecond)
		_, err := tr.Transcribe(context.Background(), writeAudio(t))
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.CodeProviderTimeout))
	})

	t.Run("MissingFile", func(t *testing.T) {
		tr := NewWhisperTranscriber("http://127.0.0.1:1", "k", "m", time.Second)
		_, err := tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "nope.wav"))
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.CodeProviderError))
	})
}
