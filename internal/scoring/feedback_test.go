package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadingFeedback(t *testing.T) {
	tests := []struct {
		pron, flu float64
		want      string
	}{
		{95, 90, "Excellent! Your pronunciation and fluency are outstanding."},
		{95, 85, "Good pronunciation, but try to improve your pacing."},
		{90, 99, "Good pronunciation, but try to improve your pacing."},
		{76, 10, "Good pronunciation, but try to improve your pacing."},
		{75, 100, "Needs improvement. Focus on speaking more clearly."},
		{0, 0, "Needs improvement. Focus on speaking more clearly."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReadingFeedback.Pick(tt.pron, tt.flu), "pron=%v flu=%v", tt.pron, tt.flu)
	}
}

func TestRepeatFeedback(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "Excellent! Your pronunciation is very clear."},
		{90, "Excellent! Your pronunciation is very clear."},
		{89.99, "Good job! Minor improvements needed."},
		{70, "Good job! Minor improvements needed."},
		{50, "Fair attempt. Keep practicing pronunciation."},
		{49.99, "Needs improvement. Focus on clarity and pace."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RepeatFeedback.Pick(tt.score, 0), "score=%v", tt.score)
	}
}

func TestFeedbackTables_LastBandAlwaysMatches(t *testing.T) {
	for _, table := range []FeedbackTable{ReadingFeedback, RepeatFeedback, TopicFeedback, QuizFeedback} {
		assert.NotEmpty(t, table.Pick(-1, -1))
	}
}

func TestFeedbackTable_EmptyTable(t *testing.T) {
	assert.Equal(t, "", FeedbackTable{}.Pick(50, 50))
}
