package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"speakscore/internal/domain"
	"speakscore/internal/logger"
	"speakscore/internal/util"
)

// ReportService builds session reports from the performance ledger.
type ReportService interface {
	Report(ctx context.Context, userID, sessionID string) (*domain.SessionReport, error)
}

// reportQueryTimeout bounds a shared ledger query once it no longer follows any caller's context.
const reportQueryTimeout = 30 * time.Second

type reportService struct {
	ledger domain.PerformanceLedger
	group  singleflight.Group
}

func NewReportService(ledger domain.PerformanceLedger) ReportService {
	return &reportService{ledger: ledger}
}

// Report is recomputed on every call. Concurrent calls for the same session
// share a single ledger query.
func (s *reportService) Report(ctx context.Context, userID, sessionID string) (*domain.SessionReport, error) {
	if userID == "" || sessionID == "" {
		return nil, domain.NewUnauthorizedError("user and session are required")
	}

	// The shared query runs detached from the first caller so that one
	// cancelled request does not fail the others waiting on it.
	flight := s.group.DoChan(userID+"\x00"+sessionID, func() (interface{}, error) {
		queryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportQueryTimeout)
		defer cancel()
		aggregates, err := s.ledger.AggregateByModule(queryCtx, userID, sessionID)
		if err != nil {
			return nil, err
		}
		return BuildReport(aggregates), nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-flight:
	}
	if res.Err != nil {
		logger.Get().Error("Failed to build session report",
			zap.String("session_id", sessionID),
			zap.Error(res.Err))
		return nil, res.Err
	}
	if res.Shared {
		logger.Get().Debug("Session report shared between concurrent callers", zap.String("session_id", sessionID))
	}

	// Callers may modify their copy of the report.
	report := *res.Val.(*domain.SessionReport)
	report.Modules = append([]domain.ModuleReport(nil), report.Modules...)
	if report.Modules == nil {
		report.Modules = []domain.ModuleReport{}
	}
	return &report, nil
}

// BuildReport turns ledger aggregates into a report. The overall score is the
// unweighted mean of module percentages.
func BuildReport(aggregates []domain.ModuleAggregate) *domain.SessionReport {
	report := &domain.SessionReport{Modules: make([]domain.ModuleReport, 0, len(aggregates))}
	if len(aggregates) == 0 {
		return report
	}

	var percentSum float64
	for _, agg := range aggregates {
		percentage := util.Round(util.Percentage(agg.AverageScore, agg.AverageMax), 1)
		report.Modules = append(report.Modules, domain.ModuleReport{
			Name:               agg.ModuleName,
			AverageScore:       util.Round(agg.AverageScore, 2),
			MaxScore:           util.Round(agg.AverageMax, 2),
			Percentage:         percentage,
			QuestionsCompleted: agg.QuestionCount,
		})
		percentSum += percentage
		report.TotalQuestions += agg.QuestionCount
	}
	report.OverallScore = util.Round(percentSum/float64(len(report.Modules)), 1)
	return report
}
