package models

import "time"

// PerformanceEntry is a row of the performance_entries table.
type PerformanceEntry struct {
	ID             string    `db:"id"`              // ULID
	UserID         string    `db:"user_id"`         // Authenticated user
	SessionID      string    `db:"session_id"`      // Practice session
	ModuleName     string    `db:"module_name"`     // Ledger module name, e.g. "Module A - Read & Speak"
	QuestionNumber int       `db:"question_number"` // Item id or 1-based quiz question number
	Score          float64   `db:"score"`
	MaxScore       float64   `db:"max_score"`
	CreatedAt      time.Time `db:"created_at"`
}

// ModuleAggregate is one row of the per-module aggregation query.
type ModuleAggregate struct {
	ModuleName    string  `db:"module_name"`
	AvgScore      float64 `db:"avg_score"`
	AvgMaxScore   float64 `db:"avg_max_score"`
	QuestionCount int     `db:"question_count"`
}
