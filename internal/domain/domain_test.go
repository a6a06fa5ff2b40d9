package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseModule(t *testing.T) {
	m, ok := ParseModule(" Topic ")
	assert.True(t, ok)
	assert.Equal(t, ModuleTopic, m)
	assert.Equal(t, "Module C - Topic Speaking", m.LedgerName())

	_, ok = ParseModule("dictation")
	assert.False(t, ok)

	assert.False(t, ModuleQuiz.IsSpeech())
	assert.True(t, ModuleRepeat.IsSpeech())
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("scoring: %w", NewProviderTimeoutError("rubric", errors.New("deadline")))

	assert.Equal(t, CodeProviderTimeout, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, CodeProviderTimeout))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestQuizInstanceView_HidesAnswerKeys(t *testing.T) {
	quiz := &QuizInstance{
		ID: "q1",
		Questions: []QuizQuestion{
			{ID: 0, Number: 1, Sentence: "She ___ happy.", AnswerKey: "is"},
			{ID: 1, Number: 2, Sentence: "They ___ here.", AnswerKey: "are"},
		},
	}

	view := quiz.View()
	assert.Equal(t, "q1", view.QuizID)
	assert.Equal(t, 2, view.TotalQuestions)
	assert.Equal(t, 2, view.Questions[1].Number)
}

func TestRubricEvaluation_SubScoreSum(t *testing.T) {
	r := RubricEvaluation{Relevance: 20, Grammar: 15, Vocabulary: 10, Coherence: 5, Total: 70}
	assert.Equal(t, 50, r.SubScoreSum())
}
