package evaluator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"speakscore/internal/domain"
	"speakscore/internal/logger"
	"speakscore/internal/metrics"
)

const providerName = "rubric"

const rubricPrompt = `You are an English language evaluator. Evaluate the following spoken response on the topic: "%s"

User's transcribed response: "%s"

Evaluate based on:
1. Relevance to the topic (0-25 points)
2. Grammar and sentence structure (0-25 points)
3. Vocabulary richness (0-25 points)
4. Coherence and organization (0-25 points)

Respond with ONLY a JSON object in the following format:
{
    "relevance_score": 0,
    "grammar_score": 0,
    "vocabulary_score": 0,
    "coherence_score": 0,
    "total_score": 0,
    "feedback": "detailed constructive feedback",
    "strengths": ["strength1", "strength2"],
    "improvements": ["improvement1", "improvement2"]
}

Rules:
1. Each of the four criterion scores is an integer between 0 and 25
2. total_score is an integer between 0 and 100
3. Do not add any text outside the JSON object`

// BuildRubricPrompt embeds topic and transcript verbatim into the evaluation template.
func BuildRubricPrompt(topic, transcript string) string {
	return fmt.Sprintf(rubricPrompt, topic, transcript)
}

// rubricEvaluator implements domain.RubricEvaluator on any langchaingo model.
type rubricEvaluator struct {
	llm         llms.Model
	temperature float64
	timeout     time.Duration
}

// NewRubricEvaluator creates a new rubric evaluator. A zero timeout disables the per-call deadline.
func NewRubricEvaluator(llm llms.Model, temperature float64, timeout time.Duration) domain.RubricEvaluator {
	return &rubricEvaluator{
		llm:         llm,
		temperature: temperature,
		timeout:     timeout,
	}
}

// Evaluate implements domain.RubricEvaluator
func (e *rubricEvaluator) Evaluate(ctx context.Context, topic, transcript string) (*domain.RubricEvaluation, error) {
	l := logger.Get()
	l.Info("Evaluating topic response with LLM",
		zap.String("topic", topic),
		zap.Int("transcript_chars", len(transcript)))

	raw, err := e.callLLM(ctx, BuildRubricPrompt(topic, transcript))
	if err != nil {
		return nil, err
	}
	l.Debug("Raw LLM response received", zap.String("raw_response", raw))

	evaluation, err := ParseRubric(raw)
	if err != nil {
		l.Error("Failed to parse rubric response", zap.Error(err), zap.String("raw_response", raw))
		return nil, err
	}

	l.Info("Successfully parsed rubric evaluation",
		zap.Int("total", evaluation.Total),
		zap.Int("sub_score_sum", evaluation.SubScoreSum()))
	return evaluation, nil
}

func (e *rubricEvaluator) callLLM(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, e.llm, prompt, llms.WithTemperature(e.temperature))
	metrics.ObserveProvider(providerName, start, err)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Error(err), zap.Duration("timeout", e.timeout))
			return "", domain.NewProviderTimeoutError(providerName, err)
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewProviderError(providerName, fmt.Errorf("LLM call failed: %w", err))
	}

	return response, nil
}
