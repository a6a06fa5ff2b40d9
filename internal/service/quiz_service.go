package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"speakscore/internal/domain"
	"speakscore/internal/logger"
	"speakscore/internal/metrics"
	"speakscore/internal/scoring"
	"speakscore/internal/util"
)

const quizQuestionMax = 100.0

// QuizService defines the operations behind module D.
type QuizService interface {
	Start(ctx context.Context, sessionID string, count int) (*domain.QuizView, error)
	Submit(ctx context.Context, submission QuizSubmission) (*domain.QuizScoreResult, error)
}

// QuizSubmission carries a user's answers keyed by 0-based question index.
// QuizID is optional; when set it must match the session's active quiz.
type QuizSubmission struct {
	UserID    string
	SessionID string
	QuizID    string
	Answers   map[string]string
}

type quizService struct {
	bank         domain.ItemBank
	store        domain.QuizStore
	ledger       domain.PerformanceLedger
	defaultCount int
	now          func() time.Time
}

// NewQuizService creates a QuizService. defaultCount is used when Start is called with count 0.
func NewQuizService(bank domain.ItemBank, store domain.QuizStore, ledger domain.PerformanceLedger, defaultCount int) QuizService {
	if defaultCount <= 0 {
		defaultCount = 5
	}
	return &quizService{
		bank:         bank,
		store:        store,
		ledger:       ledger,
		defaultCount: defaultCount,
		now:          time.Now,
	}
}

// Start samples a new quiz for the session, replacing any quiz still active.
func (s *quizService) Start(ctx context.Context, sessionID string, count int) (*domain.QuizView, error) {
	if sessionID == "" {
		return nil, domain.NewUnauthorizedError("session is required")
	}
	if count == 0 {
		count = s.defaultCount
	}

	questions, err := scoring.SampleQuestions(s.bank.QuizPool(), count, nil)
	if err != nil {
		return nil, err
	}

	quiz := &domain.QuizInstance{
		ID:        util.NewULID(),
		SessionID: sessionID,
		Questions: questions,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, quiz); err != nil {
		return nil, err
	}

	logger.Get().Debug("Quiz started",
		zap.String("session_id", sessionID),
		zap.String("quiz_id", quiz.ID),
		zap.Int("questions", len(questions)))

	view := quiz.View()
	return &view, nil
}

// Submit consumes the session's active quiz, grades it and records one ledger
// row per question.
func (s *quizService) Submit(ctx context.Context, submission QuizSubmission) (*domain.QuizScoreResult, error) {
	result, err := s.submit(ctx, submission)
	if err != nil {
		metrics.ScoringOutcomes.WithLabelValues(string(domain.ModuleQuiz), string(domain.CodeOf(err))).Inc()
		return nil, err
	}
	metrics.ScoringOutcomes.WithLabelValues(string(domain.ModuleQuiz), "ok").Inc()
	return result, nil
}

func (s *quizService) submit(ctx context.Context, submission QuizSubmission) (*domain.QuizScoreResult, error) {
	if submission.UserID == "" || submission.SessionID == "" {
		return nil, domain.NewUnauthorizedError("user and session are required")
	}

	// A stale quiz id leaves the active quiz in place.
	quiz, err := s.store.Take(ctx, submission.SessionID, submission.QuizID)
	if err != nil {
		return nil, err
	}

	result := scoring.GradeQuiz(quiz, submission.Answers)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timestamp := s.now().UTC()
	entries := make([]*domain.PerformanceEntry, 0, len(result.Review))
	for _, review := range result.Review {
		score := 0.0
		if review.Correct {
			score = quizQuestionMax
		}
		entries = append(entries, &domain.PerformanceEntry{
			ID:             util.NewULID(),
			UserID:         submission.UserID,
			SessionID:      submission.SessionID,
			ModuleName:     domain.ModuleQuiz.LedgerName(),
			QuestionNumber: review.QuestionNumber,
			Score:          score,
			MaxScore:       quizQuestionMax,
			Timestamp:      timestamp,
		})
	}
	if len(entries) > 0 {
		recordEntries(ctx, s.ledger, entries, &result.TrackingSaved, &result.Warning)
	}

	return &result, nil
}
