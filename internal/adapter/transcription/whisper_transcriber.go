package transcription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"speakscore/internal/domain"
	"speakscore/internal/logger"
	"speakscore/internal/metrics"
)

const providerName = "transcription"

// whisperTranscriber calls an OpenAI-compatible /audio/transcriptions endpoint
// (OpenAI, Groq or a local whisper server).
type whisperTranscriber struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// NewWhisperTranscriber creates a transcriber. An empty baseURL uses the OpenAI default.
func NewWhisperTranscriber(baseURL, apiKey, model string, timeout time.Duration) domain.Transcriber {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &whisperTranscriber{
		api:     openai.NewClientWithConfig(config),
		model:   model,
		timeout: timeout,
	}
}

// Transcribe sends the audio file and returns the recognized text. Verbose JSON is
// requested so the provider also reports the audio duration.
func (t *whisperTranscriber) Transcribe(ctx context.Context, audioPath string) (*domain.TranscriptionResult, error) {
	l := logger.Get()
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := t.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: "en",
	})
	metrics.ObserveProvider(providerName, start, err)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			l.Error("Transcription request timed out", zap.Error(err), zap.Duration("timeout", t.timeout))
			return nil, domain.NewProviderTimeoutError(providerName, err)
		}
		l.Error("Transcription request failed", zap.Error(err), zap.String("model", t.model))
		return nil, domain.NewProviderError(providerName, fmt.Errorf("create transcription: %w", err))
	}

	text := strings.TrimSpace(resp.Text)
	l.Debug("Transcription received",
		zap.Int("chars", len(text)),
		zap.Float64("duration_sec", resp.Duration))

	return &domain.TranscriptionResult{
		Text:        text,
		DurationSec: resp.Duration,
	}, nil
}
