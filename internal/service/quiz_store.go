package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"speakscore/internal/cache"
	"speakscore/internal/domain"
	"speakscore/internal/logger"
)

// DefaultQuizTTL bounds how long an unanswered quiz stays active.
const DefaultQuizTTL = 2 * time.Hour

// cacheQuizStore keeps one active quiz per session in a domain.Cache.
type cacheQuizStore struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewQuizStore creates a session-keyed quiz store backed by the given cache.
func NewQuizStore(c domain.Cache, ttl time.Duration) domain.QuizStore {
	if ttl <= 0 {
		ttl = DefaultQuizTTL
	}
	return &cacheQuizStore{cache: c, ttl: ttl}
}

// Save replaces any quiz already active for the session.
func (s *cacheQuizStore) Save(ctx context.Context, quiz *domain.QuizInstance) error {
	if quiz == nil || quiz.SessionID == "" {
		return domain.NewInvalidInputError("quiz must belong to a session")
	}
	payload, err := json.Marshal(quiz)
	if err != nil {
		return domain.NewInternalError("failed to encode quiz", err)
	}
	key := cache.ActiveQuizKey(quiz.SessionID)
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		logger.Get().Error("QuizStore: failed to save active quiz", zap.Error(err), zap.String("key", key))
		return domain.NewStorageError("failed to save active quiz", err)
	}
	return nil
}

func (s *cacheQuizStore) Peek(ctx context.Context, sessionID string) (*domain.QuizInstance, error) {
	key := cache.ActiveQuizKey(sessionID)
	payload, err := s.cache.Get(ctx, key)
	return s.decode(key, payload, err)
}

// Take consumes the session's quiz atomically. Without a quiz id it is a
// single GetDel. With one, the stored payload is read, its id compared, and the
// key removed only if it still holds that exact payload, so a quiz started in
// between is never consumed or overwritten.
func (s *cacheQuizStore) Take(ctx context.Context, sessionID, quizID string) (*domain.QuizInstance, error) {
	key := cache.ActiveQuizKey(sessionID)
	if quizID == "" {
		payload, err := s.cache.GetDel(ctx, key)
		return s.decode(key, payload, err)
	}

	payload, err := s.cache.Get(ctx, key)
	quiz, err := s.decode(key, payload, err)
	if err != nil {
		return nil, err
	}
	if quiz.ID != quizID {
		return nil, domain.NewNoActiveQuizError().WithContext("quiz_id", quizID)
	}

	deleted, err := s.cache.DeleteIfEqual(ctx, key, payload)
	if err != nil {
		logger.Get().Error("QuizStore: cache delete failed", zap.Error(err), zap.String("key", key))
		return nil, domain.NewStorageError("failed to consume active quiz", err)
	}
	if !deleted {
		logger.Get().Debug("QuizStore: active quiz changed before it was consumed", zap.String("key", key))
		return nil, domain.NewNoActiveQuizError().WithContext("quiz_id", quizID)
	}
	return quiz, nil
}

func (s *cacheQuizStore) decode(key, payload string, err error) (*domain.QuizInstance, error) {
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Debug("QuizStore: no active quiz", zap.String("key", key))
			return nil, domain.NewNoActiveQuizError()
		}
		logger.Get().Error("QuizStore: cache read failed", zap.Error(err), zap.String("key", key))
		return nil, domain.NewStorageError("failed to load active quiz", err)
	}
	var quiz domain.QuizInstance
	if err := json.Unmarshal([]byte(payload), &quiz); err != nil {
		logger.Get().Error("QuizStore: corrupt quiz payload", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError("failed to decode active quiz", err)
	}
	return &quiz, nil
}
