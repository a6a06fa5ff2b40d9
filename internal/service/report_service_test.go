package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"speakscore/internal/domain"
)

func TestBuildReport(t *testing.T) {
	// Module A entries (80,100) and (60,100); module B entry (90,100).
	report := BuildReport([]domain.ModuleAggregate{
		{ModuleName: "Module A - Read & Speak", AverageScore: 70, AverageMax: 100, QuestionCount: 2},
		{ModuleName: "Module B - Listen & Repeat", AverageScore: 90, AverageMax: 100, QuestionCount: 1},
	})

	require.Len(t, report.Modules, 2)
	assert.Equal(t, 70.0, report.Modules[0].Percentage)
	assert.Equal(t, 90.0, report.Modules[1].Percentage)
	assert.Equal(t, 80.0, report.OverallScore)
	assert.Equal(t, 3, report.TotalQuestions)
}

func TestBuildReport_Rounding(t *testing.T) {
	report := BuildReport([]domain.ModuleAggregate{
		{ModuleName: "Module D - Grammar Quiz", AverageScore: 66.66666, AverageMax: 100, QuestionCount: 3},
		{ModuleName: "Module C - Topic Speaking", AverageScore: 25, AverageMax: 40, QuestionCount: 1},
		{ModuleName: "Module E - Unused", AverageScore: 50, AverageMax: 0, QuestionCount: 1},
	})

	assert.Equal(t, 66.67, report.Modules[0].AverageScore)
	assert.Equal(t, 66.7, report.Modules[0].Percentage)
	assert.Equal(t, 62.5, report.Modules[1].Percentage)
	assert.Equal(t, 0.0, report.Modules[2].Percentage)
	// (66.7 + 62.5 + 0) / 3
	assert.Equal(t, 43.1, report.OverallScore)
}

func TestReportService_EmptySession(t *testing.T) {
	ledger := new(MockPerformanceLedger)
	ctx := context.Background()
	ledger.On("AggregateByModule", mock.Anything, "user-1", "session-1").Return(nil, nil)

	report, err := NewReportService(ledger).Report(ctx, "user-1", "session-1")
	require.NoError(t, err)
	assert.NotNil(t, report.Modules)
	assert.Empty(t, report.Modules)
	assert.Zero(t, report.OverallScore)
	assert.Zero(t, report.TotalQuestions)
}

func TestReportService_LedgerFailure(t *testing.T) {
	ledger := new(MockPerformanceLedger)
	ctx := context.Background()
	ledger.On("AggregateByModule", mock.Anything, "user-1", "session-1").
		Return(nil, domain.NewStorageError("failed to aggregate performance", errors.New("db closed")))

	_, err := NewReportService(ledger).Report(ctx, "user-1", "session-1")
	assert.True(t, domain.IsCode(err, domain.CodeStorage))
}

func TestReportService_RequiresSession(t *testing.T) {
	_, err := NewReportService(new(MockPerformanceLedger)).Report(context.Background(), "user-1", "")
	assert.True(t, domain.IsCode(err, domain.CodeUnauthorized))
}

// blockingLedger holds AggregateByModule until release is closed and then
// reports the context error, the way a database driver would.
type blockingLedger struct {
	MockPerformanceLedger
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (l *blockingLedger) AggregateByModule(ctx context.Context, _, _ string) ([]domain.ModuleAggregate, error) {
	l.once.Do(func() { close(l.entered) })
	<-l.release
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("failed to aggregate performance entries", err)
	}
	return []domain.ModuleAggregate{
		{ModuleName: "Module B - Listen & Repeat", AverageScore: 90, AverageMax: 100, QuestionCount: 1},
	}, nil
}

func TestReportService_CancelledCallerDoesNotFailSharedQuery(t *testing.T) {
	ledger := &blockingLedger{entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewReportService(ledger)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Report(ctxA, "user-1", "session-1")
		errA <- err
	}()
	<-ledger.entered

	type outcome struct {
		report *domain.SessionReport
		err    error
	}
	resB := make(chan outcome, 1)
	go func() {
		report, err := svc.Report(context.Background(), "user-1", "session-1")
		resB <- outcome{report, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(ledger.release)
	got := <-resB
	require.NoError(t, got.err)
	assert.Equal(t, 90.0, got.report.OverallScore)
}
