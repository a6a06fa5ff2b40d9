package evaluator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"speakscore/internal/config"
)

// NewModel builds the langchaingo model selected by cfg.Provider.
// Deadlines are applied per call by the evaluator, so the HTTP client carries none.
func NewModel(ctx context.Context, cfg config.RubricConfig) (llms.Model, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(&http.Client{}),
		)
	case "openai":
		opts := []openai.Option{
			openai.WithModel(cfg.Model),
			openai.WithToken(cfg.APIKey),
		}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		return openai.New(opts...)
	case "googleai":
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unsupported rubric provider: %s", cfg.Provider)
	}
}
