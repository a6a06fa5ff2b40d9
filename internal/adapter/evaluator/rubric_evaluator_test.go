package evaluator

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"speakscore/internal/config"
	"speakscore/internal/domain"
	"speakscore/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Env: "test", Level: "error"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// stubLLM is a minimal llms.Model returning a canned response.
type stubLLM struct {
	response   string
	err        error
	delay      time.Duration
	lastPrompt string
}

func (s *stubLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				s.lastPrompt = text.Text
			}
		}
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: s.response}}}, nil
}

func (s *stubLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, s, prompt, options...)
}

const validRubric = `{
  "relevance_score": 20,
  "grammar_score": 18,
  "vocabulary_score": 15,
  "coherence_score": 22,
  "total_score": 75,
  "feedback": "Clear and on topic.",
  "strengths": ["good structure", "relevant examples"],
  "improvements": ["use more varied vocabulary"]
}`

func TestRubricEvaluator_Evaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		llm := &stubLLM{response: validRubric}
		eval := NewRubricEvaluator(llm, 0.1, time.Second)

		result, err := eval.Evaluate(ctx, "Climate change and its global effects", "the planet is getting warmer")
		require.NoError(t, err)
		assert.Equal(t, 20, result.Relevance)
		assert.Equal(t, 18, result.Grammar)
		assert.Equal(t, 15, result.Vocabulary)
		assert.Equal(t, 22, result.Coherence)
		assert.Equal(t, 75, result.Total)
		assert.Equal(t, "Clear and on topic.", result.Feedback)
		assert.Equal(t, []string{"good structure", "relevant examples"}, result.Strengths)
		assert.Equal(t, []string{"use more varied vocabulary"}, result.Improvements)

		assert.Contains(t, llm.lastPrompt, `topic: "Climate change and its global effects"`)
		assert.Contains(t, llm.lastPrompt, `"the planet is getting warmer"`)
	})

	t.Run("TotalNotDerivedFromSubScores", func(t *testing.T) {
		eval := NewRubricEvaluator(&stubLLM{response: validRubric}, 0.1, time.Second)
		result, err := eval.Evaluate(ctx, "topic", "text")
		require.NoError(t, err)
		assert.Equal(t, 75, result.Total)
		assert.Equal(t, 75, result.SubScoreSum())

		mismatched := `{"relevance_score":25,"grammar_score":25,"vocabulary_score":25,"coherence_score":25,"total_score":60}`
		eval = NewRubricEvaluator(&stubLLM{response: mismatched}, 0.1, time.Second)
		result, err = eval.Evaluate(ctx, "topic", "text")
		require.NoError(t, err)
		assert.Equal(t, 60, result.Total)
		assert.Equal(t, 100, result.SubScoreSum())
	})

	t.Run("ParseFailurePropagates", func(t *testing.T) {
		eval := NewRubricEvaluator(&stubLLM{response: "not json"}, 0.1, time.Second)
		result, err := eval.Evaluate(ctx, "topic", "text")
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, domain.IsCode(err, domain.CodeEvaluationParse))
	})

	t.Run("ProviderError", func(t *testing.T) {
		eval := NewRubricEvaluator(&stubLLM{err: errors.New("quota exceeded")}, 0.1, time.Second)
		_, err := eval.Evaluate(ctx, "topic", "text")
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.CodeProviderError))
	})

	t.Run("Timeout", func(t *testing.T) {
		eval := NewRubricEvaluator(&stubLLM{response: validRubric, delay: time.Second}, 0.1, 20*time.Millisecond)
		_, err := eval.Evaluate(ctx, "topic", "text")
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.CodeProviderTimeout))
	})
}

func TestParseRubric(t *testing.T) {
	t.Run("FencedJSON", func(t *testing.T) {
		result, err := ParseRubric("```json\n" + validRubric + "\n```")
		require.NoError(t, err)
		assert.Equal(t, 75, result.Total)
	})

	t.Run("BareFence", func(t *testing.T) {
		result, err := ParseRubric("```\n{\"total_score\": 40}\n```")
		require.NoError(t, err)
		assert.Equal(t, 40, result.Total)
	})

	t.Run("ThinkBlockStripped", func(t *testing.T) {
		result, err := ParseRubric("<think>\nlet me grade this\n</think>\n{\"grammar_score\": 12}")
		require.NoError(t, err)
		assert.Equal(t, 12, result.Grammar)
	})

	t.Run("MissingFieldsDefault", func(t *testing.T) {
		result, err := ParseRubric(`{"total_score": 50}`)
		require.NoError(t, err)
		assert.Equal(t, 50, result.Total)
		assert.Equal(t, 0, result.Relevance)
		assert.Equal(t, "", result.Feedback)
		assert.NotNil(t, result.Strengths)
		assert.Empty(t, result.Strengths)
		assert.NotNil(t, result.Improvements)
	})

	t.Run("LenientFieldTypes", func(t *testing.T) {
		result, err := ParseRubric(`{"relevance_score":"21","grammar_score":17.6,"vocabulary_score":null,"coherence_score":40,"total_score":-3,"strengths":"one thing","improvements":[" ", "pace"]}`)
		require.NoError(t, err)
		assert.Equal(t, 21, result.Relevance)
		assert.Equal(t, 18, result.Grammar)
		assert.Equal(t, 0, result.Vocabulary)
		assert.Equal(t, 25, result.Coherence)
		assert.Equal(t, 0, result.Total)
		assert.Equal(t, []string{"one thing"}, result.Strengths)
		assert.Equal(t, []string{"pace"}, result.Improvements)
	})

	t.Run("HugeValuesClampToMax", func(t *testing.T) {
		result, err := ParseRubric(`{"relevance_score":1e20,"grammar_score":"1e400","vocabulary_score":-1e20,"total_score":"1e300"}`)
		require.NoError(t, err)
		assert.Equal(t, 25, result.Relevance)
		assert.Equal(t, 25, result.Grammar)
		assert.Equal(t, 0, result.Vocabulary)
		assert.Equal(t, 100, result.Total)
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "not json", "[1,2,3]", "null", "```json\n{broken\n```"} {
			_, err := ParseRubric(raw)
			assert.True(t, domain.IsCode(err, domain.CodeEvaluationParse), "raw=%q", raw)
		}
	})
}

func TestNewModel_UnsupportedProvider(t *testing.T) {
	_, err := NewModel(context.Background(), config.RubricConfig{Provider: "bard"})
	assert.Error(t, err)
}
