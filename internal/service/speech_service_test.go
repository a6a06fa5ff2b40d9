package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"speakscore/internal/content"
	"speakscore/internal/domain"
)

func testBank() domain.ItemBank {
	return content.NewBank(map[domain.Module][]string{
		domain.ModuleReading: {"The quick brown fox", "She sells sea shells"},
		domain.ModuleRepeat:  {"I would like a cup of coffee"},
		domain.ModuleTopic:   {"Describe your favorite holiday"},
	}, nil)
}

func writeAudio(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "attempt.wav")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

type speechFixture struct {
	transcriber *MockTranscriber
	prober      *MockAudioProber
	evaluator   *MockRubricEvaluator
	ledger      *MockPerformanceLedger
	svc         SpeechService
}

func newSpeechFixture() *speechFixture {
	f := &speechFixture{
		transcriber: new(MockTranscriber),
		prober:      new(MockAudioProber),
		evaluator:   new(MockRubricEvaluator),
		ledger:      new(MockPerformanceLedger),
	}
	f.svc = NewSpeechService(testBank(), f.transcriber, f.prober, f.evaluator, f.ledger)
	return f
}

func attempt(module domain.Module, id int, path string) SpeechAttempt {
	return SpeechAttempt{UserID: "user-1", SessionID: "session-1", Module: module, ItemID: id, AudioPath: path}
}

func TestSpeechService_ScoreReading(t *testing.T) {
	f := newSpeechFixture()
	path := writeAudio(t, []byte("RIFF"))
	ctx := context.Background()

	f.transcriber.On("Transcribe", ctx, path).
		Return(&domain.TranscriptionResult{Text: "the quick brown fox", DurationSec: 2}, nil)
	f.ledger.On("Append", ctx, mock.MatchedBy(func(e *domain.PerformanceEntry) bool {
		return e.ModuleName == "Module A - Read & Speak" &&
			e.QuestionNumber == 0 &&
			e.Score == 100 &&
			e.MaxScore == 100 &&
			e.UserID == "user-1" &&
			e.SessionID == "session-1" &&
			e.ID != ""
	})).Return(nil)

	result, err := f.svc.Score(ctx, attempt(domain.ModuleReading, 0, path))
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.PronunciationScore)
	assert.Equal(t, 90.0, result.FluencyScore)
	assert.Equal(t, 2.0, result.WordsPerSecond)
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, "The quick brown fox", result.Reference)
	assert.Equal(t, "Excellent! Your pronunciation and fluency are outstanding.", result.Feedback)
	assert.True(t, result.TrackingSaved)
	assert.Empty(t, result.Warning)
	assert.Nil(t, result.Rubric)
	f.prober.AssertNotCalled(t, "Duration", mock.Anything, mock.Anything)
	f.ledger.AssertExpectations(t)
}

func TestSpeechService_ScoreReading_FeedbackUsesUnroundedFluency(t *testing.T) {
	f := newSpeechFixture()
	path := writeAudio(t, []byte("RIFF"))
	ctx := context.Background()

	// 4 words over 2.6659s is about 1.50043 words per second, fluency about 85.0043.
	f.transcriber.On("Transcribe", ctx, path).
		Return(&domain.TranscriptionResult{Text: "the quick brown fox", DurationSec: 2.6659}, nil)
	f.ledger.On("Append", ctx, mock.Anything).Return(nil)

	result, err := f.svc.Score(ctx, attempt(domain.ModuleReading, 0, path))
	require.NoError(t, err)

	assert.Equal(t, 85.0, result.FluencyScore)
	assert.Equal(t, "Excellent! Your pronunciation and fluency are outstanding.", result.Feedback)
}

func TestSpeechService_ScoreReading_ProbesMissingDuration(t *testing.T) {
	f := newSpeechFixture()
	path := writeAudio(t, []byte("RIFF"))
	ctx := context.Background()

	f.transcriber.On("Transcribe", ctx, path).
		Return(&domain.TranscriptionResult{Text: "the quick brown fox"}, nil)
	f.prober.On("Duration", ctx, path).Return(8.0, nil)
	f.ledger.On("Append", ctx, mock.Anything).Return(nil)

	result, err := f.svc.Score(ctx, attempt(domain.ModuleReading, 0, path))
	require.NoError(t, err)

	// 4 words over 8 seconds is 0.5 wps, which maps to 25.
	assert.Equal(t, 0.5, result.WordsPerSecond)
	assert.Equal(t, 25.0, result.FluencyScore)
	assert.Equal(t, 8.0, result.DurationSec)
	assert.Equal(t, "Good pronunciation, but try to improve your pacing.", result.Feedback)
}

func TestSpeechService_ScoreRepeat(t *testing.T) {
	f := newSpeechFixture()
	path := writeAudio(t, []byte("RIFF"))
	ctx := context.Background()

	// One substitution over seven reference words.
	f.transcriber.On("Transcribe", ctx, path).
		Return(&domain.TranscriptionResult{Text: "I would like a cup of tea"}, nil)
	f.ledger.On("Append", ctx, mock.MatchedBy(func(e *domain.PerformanceEntry) bool {
		return e.ModuleName == "Module B - Listen & Repeat" && e.Score == 85.71
	})).Return(nil)

	result, err := f.svc.Score(ctx, attempt(domain.ModuleRepeat, 0, path))
	require.NoError(t, err)

	assert.Equal(t, 85.71, result.Score)
	assert.Equal(t, "Good job! Minor improvements needed.", result.Feedback)
	assert.Zero(t, result.FluencyScore)
	f.ledger.AssertExpectations(t)
}

func TestSpeechService_ScoreTopic(t *testing.T) {
	f := newSpeechFixture()
	path := writeAudio(t, []byte("RIFF"))
	ctx := context.Background()
	transcript := "I went to the beach last summer with my family"

	f.transcriber.On("Transcribe", ctx, path).Return(&domain.TranscriptionResult{Text: transcript}, nil)
	f.evaluator.On("Evaluate", ctx, "Describe your favorite holiday", transcript).
		Return(&domain.RubricEvaluation{
			Relevance: 20, Grammar: 18, Vocabulary: 15, Coherence: 17, Total: 72,
			Feedback: "Nice story.",
		}, nil)
	f.ledger.On("Append", ctx, mock.MatchedBy(func(e *domain.PerformanceEntry) bool {
		return e.ModuleName == "Module C - Topic Speaking" && e.Score == 72
	})).Return(nil)

	result, err := f.svc.Score(ctx, attempt(domain.ModuleTopic, 0, path))
	require.NoError(t, err)

	assert.Equal(t, 72.0, result.Score)
	assert.Equal(t, 70, result.RubricSubScoreSum)
	assert.Equal(t, "Nice story.", result.Feedback)
	require.NotNil(t, result.Rubric)
	assert.Equal(t, 72, result.Rubric.Total)
}

func TestSpeechService_ScoreTopic_FallbackFeedback(t *testing.T) {
	f := newSpeechFixture()
	path := writeAudio(t, []byte("RIFF"))
	ctx := context.Background()

	f.transcriber.On("Transcribe", ctx, path).Return(&domain.TranscriptionResult{Text: "hello"}, nil)
	f.evaluator.On("Evaluate", ctx, mock.Anything, "hello").Return(&domain.RubricEvaluation{Total: 30}, nil)
	f.ledger.On("Append", ctx, mock.Anything).Return(nil)

	result, err := f.svc.Score(ctx, attempt(domain.ModuleTopic, 0, path))
	require.NoError(t, err)
	assert.Equal(t, "Needs improvement. Plan your main points before speaking.", result.Feedback)
}

func TestSpeechService_ProviderFailureWritesNothing(t *testing.T) {
	f := newSpeechFixture()
	path := writeAudio(t, []byte("RIFF"))
	ctx := context.Background()

	f.transcriber.On("Transcribe", ctx, path).
		Return(nil, domain.NewProviderTimeoutError("transcription", context.DeadlineExceeded))

	_, err := f.svc.Score(ctx, attempt(domain.ModuleReading, 0, path))
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeProviderTimeout))
	f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSpeechService_RubricParseFailureWritesNothing(t *testing.T) {
	f := newSpeechFixture()
	path := writeAudio(t, []byte("RIFF"))
	ctx := context.Background()

	f.transcriber.On("Transcribe", ctx, path).Return(&domain.TranscriptionResult{Text: "hello"}, nil)
	f.evaluator.On("Evaluate", ctx, mock.Anything, "hello").
		Return(nil, domain.NewEvaluationParseError("not json", errors.New("invalid character")))

	_, err := f.svc.Score(ctx, attempt(domain.ModuleTopic, 0, path))
	assert.True(t, domain.IsCode(err, domain.CodeEvaluationParse))
	f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSpeechService_CancelledBeforeLedgerWrite(t *testing.T) {
	f := newSpeechFixture()
	path := writeAudio(t, []byte("RIFF"))
	ctx, cancel := context.WithCancel(context.Background())

	f.transcriber.On("Transcribe", ctx, path).
		Run(func(mock.Arguments) { cancel() }).
		Return(&domain.TranscriptionResult{Text: "the quick brown fox", DurationSec: 2}, nil)

	_, err := f.svc.Score(ctx, attempt(domain.ModuleReading, 0, path))
	assert.ErrorIs(t, err, context.Canceled)
	f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSpeechService_StorageFailureStillReturnsScore(t *testing.T) {
	f := newSpeechFixture()
	path := writeAudio(t, []byte("RIFF"))
	ctx := context.Background()

	f.transcriber.On("Transcribe", ctx, path).
		Return(&domain.TranscriptionResult{Text: "I would like a cup of coffee"}, nil)
	f.ledger.On("Append", ctx, mock.Anything).
		Return(domain.NewStorageError("failed to append performance entry", errors.New("disk full")))

	result, err := f.svc.Score(ctx, attempt(domain.ModuleRepeat, 0, path))
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)
	assert.False(t, result.TrackingSaved)
	assert.NotEmpty(t, result.Warning)
}

func TestSpeechService_InvalidInput(t *testing.T) {
	f := newSpeechFixture()
	path := writeAudio(t, []byte("RIFF"))
	empty := writeAudio(t, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		attempt SpeechAttempt
		code    domain.ErrorCode
	}{
		{"UnknownItem", attempt(domain.ModuleReading, 7, path), domain.CodeInvalidInput},
		{"NegativeItem", attempt(domain.ModuleRepeat, -1, path), domain.CodeInvalidInput},
		{"QuizIsNotSpeech", attempt(domain.ModuleQuiz, 0, path), domain.CodeInvalidInput},
		{"MissingAudio", attempt(domain.ModuleReading, 0, filepath.Join(t.TempDir(), "none.wav")), domain.CodeInvalidInput},
		{"EmptyAudio", attempt(domain.ModuleReading, 0, empty), domain.CodeInvalidInput},
		{"NoSession", SpeechAttempt{UserID: "u", Module: domain.ModuleReading, AudioPath: path}, domain.CodeUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Score(ctx, tt.attempt)
			require.Error(t, err)
			assert.Equal(t, tt.code, domain.CodeOf(err))
		})
	}
	f.transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
}

func TestSpeechService_RandomItem(t *testing.T) {
	f := newSpeechFixture()

	item, err := f.svc.RandomItem(domain.ModuleRepeat)
	require.NoError(t, err)
	assert.Equal(t, 0, item.ID)
	assert.Equal(t, "I would like a cup of coffee", item.Text)

	_, err = f.svc.RandomItem(domain.ModuleQuiz)
	assert.True(t, domain.IsCode(err, domain.CodeInvalidInput))
}
