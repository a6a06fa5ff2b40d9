package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"speakscore/internal/domain"
)

// --- MockTranscriber ---
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string) (*domain.TranscriptionResult, error) {
	args := m.Called(ctx, audioPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TranscriptionResult), args.Error(1)
}

// --- MockAudioProber ---
type MockAudioProber struct {
	mock.Mock
}

func (m *MockAudioProber) Duration(ctx context.Context, audioPath string) (float64, error) {
	args := m.Called(ctx, audioPath)
	return args.Get(0).(float64), args.Error(1)
}

// --- MockRubricEvaluator ---
type MockRubricEvaluator struct {
	mock.Mock
}

func (m *MockRubricEvaluator) Evaluate(ctx context.Context, topic, transcript string) (*domain.RubricEvaluation, error) {
	args := m.Called(ctx, topic, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RubricEvaluation), args.Error(1)
}

// --- MockPerformanceLedger ---
type MockPerformanceLedger struct {
	mock.Mock
}

func (m *MockPerformanceLedger) Append(ctx context.Context, entry *domain.PerformanceEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPerformanceLedger) AppendBatch(ctx context.Context, entries []*domain.PerformanceEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockPerformanceLedger) AggregateByModule(ctx context.Context, userID, sessionID string) ([]domain.ModuleAggregate, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ModuleAggregate), args.Error(1)
}

func (m *MockPerformanceLedger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
