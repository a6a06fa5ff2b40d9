package service

import (
	"context"
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	"speakscore/internal/domain"
	"speakscore/internal/logger"
	"speakscore/internal/metrics"
	"speakscore/internal/scoring"
	"speakscore/internal/util"
)

const (
	trackingWarning = "Your score was computed but could not be saved to your session history."

	scoreMaxPercent = 100.0
)

// SpeechAttempt is one recorded answer to a speech exercise.
type SpeechAttempt struct {
	UserID    string
	SessionID string
	Module    domain.Module
	ItemID    int
	AudioPath string
}

// SpeechService defines the operations behind modules A, B and C.
type SpeechService interface {
	RandomItem(module domain.Module) (*domain.ReferenceItem, error)
	Score(ctx context.Context, attempt SpeechAttempt) (*domain.SpeechScoreResult, error)
}

type speechService struct {
	bank        domain.ItemBank
	transcriber domain.Transcriber
	prober      domain.AudioProber
	evaluator   domain.RubricEvaluator
	ledger      domain.PerformanceLedger
	now         func() time.Time
}

// NewSpeechService creates a SpeechService. prober may be nil, in which case
// module A relies on the duration reported by the transcriber.
func NewSpeechService(
	bank domain.ItemBank,
	transcriber domain.Transcriber,
	prober domain.AudioProber,
	evaluator domain.RubricEvaluator,
	ledger domain.PerformanceLedger,
) SpeechService {
	return &speechService{
		bank:        bank,
		transcriber: transcriber,
		prober:      prober,
		evaluator:   evaluator,
		ledger:      ledger,
		now:         time.Now,
	}
}

func (s *speechService) RandomItem(module domain.Module) (*domain.ReferenceItem, error) {
	if !module.IsSpeech() {
		return nil, domain.NewInvalidInputError("module has no speech items").WithContext("module", string(module))
	}
	item, err := s.bank.Random(module)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Score transcribes the attempt, scores it for its module and records the
// result in the performance ledger.
func (s *speechService) Score(ctx context.Context, attempt SpeechAttempt) (*domain.SpeechScoreResult, error) {
	result, err := s.score(ctx, attempt)
	if err != nil {
		metrics.ScoringOutcomes.WithLabelValues(string(attempt.Module), string(domain.CodeOf(err))).Inc()
		return nil, err
	}
	metrics.ScoringOutcomes.WithLabelValues(string(attempt.Module), "ok").Inc()
	return result, nil
}

func (s *speechService) score(ctx context.Context, attempt SpeechAttempt) (*domain.SpeechScoreResult, error) {
	if !attempt.Module.IsSpeech() {
		return nil, domain.NewInvalidInputError("module does not accept audio").WithContext("module", string(attempt.Module))
	}
	if attempt.UserID == "" || attempt.SessionID == "" {
		return nil, domain.NewUnauthorizedError("user and session are required")
	}

	item, err := s.bank.Get(attempt.Module, attempt.ItemID)
	if err != nil {
		return nil, err
	}

	if err := checkAudioFile(attempt.AudioPath); err != nil {
		return nil, err
	}

	transcription, err := s.transcriber.Transcribe(ctx, attempt.AudioPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Get().Warn("Transcription failed",
			zap.String("module", string(attempt.Module)),
			zap.Int("item_id", item.ID),
			zap.Error(err))
		return nil, err
	}

	result := &domain.SpeechScoreResult{
		Module:     attempt.Module,
		ItemID:     item.ID,
		Reference:  item.Text,
		Transcript: transcription.Text,
	}

	switch attempt.Module {
	case domain.ModuleReading:
		s.scoreReading(ctx, attempt.AudioPath, transcription, result)
	case domain.ModuleRepeat:
		lexical := scoring.LexicalScore(item.Text, transcription.Text)
		result.Score = util.Round(lexical, 2)
		result.Feedback = scoring.RepeatFeedback.Pick(lexical, 0)
	case domain.ModuleTopic:
		if err := s.scoreTopic(ctx, item.Text, transcription.Text, result); err != nil {
			return nil, err
		}
	}

	// A cancelled request must not leave a ledger row behind.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.record(ctx, &domain.PerformanceEntry{
		ID:             util.NewULID(),
		UserID:         attempt.UserID,
		SessionID:      attempt.SessionID,
		ModuleName:     attempt.Module.LedgerName(),
		QuestionNumber: item.ID,
		Score:          result.Score,
		MaxScore:       scoreMaxPercent,
		Timestamp:      s.now().UTC(),
	}, &result.TrackingSaved, &result.Warning)

	return result, nil
}

func (s *speechService) scoreReading(ctx context.Context, audioPath string, transcription *domain.TranscriptionResult, result *domain.SpeechScoreResult) {
	duration := transcription.DurationSec
	if duration <= 0 && s.prober != nil {
		probed, err := s.prober.Duration(ctx, audioPath)
		if err != nil {
			logger.Get().Warn("Audio duration probe failed, using minimum duration", zap.Error(err))
		} else {
			duration = probed
		}
	}

	words := len(scoring.Tokenize(transcription.Text))
	pronunciation := scoring.LexicalScore(result.Reference, transcription.Text)
	fluency := scoring.FluencyScore(words, duration)

	// Bands are checked on the unrounded scores; only the output is rounded.
	result.Feedback = scoring.ReadingFeedback.Pick(pronunciation, fluency)
	result.PronunciationScore = util.Round(pronunciation, 2)
	result.FluencyScore = util.Round(fluency, 2)
	result.DurationSec = util.Round(duration, 2)
	result.WordsPerSecond = util.Round(scoring.WordsPerSecond(words, duration), 2)
	result.Score = result.PronunciationScore
}

func (s *speechService) scoreTopic(ctx context.Context, topic, transcript string, result *domain.SpeechScoreResult) error {
	evaluation, err := s.evaluator.Evaluate(ctx, topic, transcript)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Get().Warn("Rubric evaluation failed", zap.String("topic", topic), zap.Error(err))
		return err
	}

	result.Rubric = evaluation
	result.RubricSubScoreSum = evaluation.SubScoreSum()
	result.Score = float64(evaluation.Total)
	result.Feedback = evaluation.Feedback
	if result.Feedback == "" {
		result.Feedback = scoring.TopicFeedback.Pick(result.Score, 0)
	}
	return nil
}

// record appends entry to the ledger. A storage failure does not fail the
// request; it is reported through saved and warning instead.
func (s *speechService) record(ctx context.Context, entry *domain.PerformanceEntry, saved *bool, warning *string) {
	recordEntries(ctx, s.ledger, []*domain.PerformanceEntry{entry}, saved, warning)
}

func recordEntries(ctx context.Context, ledger domain.PerformanceLedger, entries []*domain.PerformanceEntry, saved *bool, warning *string) {
	var err error
	if len(entries) == 1 {
		err = ledger.Append(ctx, entries[0])
	} else {
		err = ledger.AppendBatch(ctx, entries)
	}
	if err != nil {
		metrics.LedgerWriteFailures.Inc()
		logger.Get().Error("Failed to record performance",
			zap.String("session_id", entries[0].SessionID),
			zap.String("module", entries[0].ModuleName),
			zap.Int("entries", len(entries)),
			zap.Error(err))
		*saved = false
		*warning = trackingWarning
		return
	}
	*saved = true
	*warning = ""
}

func checkAudioFile(path string) error {
	if path == "" {
		return domain.NewInvalidInputError("audio file is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.NewInvalidInputError("audio file is missing")
		}
		return domain.NewInternalError("failed to read uploaded audio", err)
	}
	if info.IsDir() || info.Size() == 0 {
		return domain.NewInvalidInputError("audio file is empty")
	}
	return nil
}
