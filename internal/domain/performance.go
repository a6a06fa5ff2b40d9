package domain

import (
	"context"
	"time"
)

// PerformanceEntry is one immutable row of the performance ledger.
type PerformanceEntry struct {
	ID             string
	UserID         string
	SessionID      string
	ModuleName     string
	QuestionNumber int
	Score          float64
	MaxScore       float64
	Timestamp      time.Time
}

// ModuleAggregate is the ledger's per-module summary for one session.
type ModuleAggregate struct {
	ModuleName    string
	AverageScore  float64
	AverageMax    float64
	QuestionCount int
}

// PerformanceLedger is the append-only store of performance entries.
type PerformanceLedger interface {
	Append(ctx context.Context, entry *PerformanceEntry) error
	AppendBatch(ctx context.Context, entries []*PerformanceEntry) error
	AggregateByModule(ctx context.Context, userID, sessionID string) ([]ModuleAggregate, error)
	Ping(ctx context.Context) error
}

// ModuleReport is one module's line in a session report.
type ModuleReport struct {
	Name               string  `json:"name"`
	AverageScore       float64 `json:"average_score"`
	MaxScore           float64 `json:"max_score"`
	Percentage         float64 `json:"percentage"`
	QuestionsCompleted int     `json:"questions_completed"`
}

// SessionReport is recomputed from the ledger on every request.
type SessionReport struct {
	Modules        []ModuleReport `json:"modules"`
	OverallScore   float64        `json:"overall_score"`
	TotalQuestions int            `json:"total_questions"`
}
