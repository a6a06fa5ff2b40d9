package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"speakscore/internal/domain"
	"speakscore/internal/repository/models"
	"speakscore/internal/util"
)

const insertPerformanceEntryQuery = `INSERT INTO performance_entries
	(id, user_id, session_id, module_name, question_number, score, max_score, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// Aliases are quoted so every driver reports them in lower case.
const aggregateByModuleQuery = `SELECT module_name AS "module_name",
	AVG(score) AS "avg_score",
	AVG(max_score) AS "avg_max_score",
	COUNT(*) AS "question_count"
	FROM performance_entries
	WHERE user_id = ? AND session_id = ?
	GROUP BY module_name
	ORDER BY module_name`

// sqlxPerformanceRepository implements domain.PerformanceLedger using sqlx.
// It only ever inserts; entries are never updated or deleted.
type sqlxPerformanceRepository struct {
	db *sqlx.DB
	tm domain.TransactionManager
}

// NewSQLXPerformanceRepository creates a new ledger repository.
func NewSQLXPerformanceRepository(db *sqlx.DB) domain.PerformanceLedger {
	return &sqlxPerformanceRepository{
		db: db,
		tm: NewTransactionManagerAdapter(db),
	}
}

func fromDomainPerformanceEntry(entry *domain.PerformanceEntry) *models.PerformanceEntry {
	if entry == nil {
		return nil
	}
	return &models.PerformanceEntry{
		ID:             entry.ID,
		UserID:         entry.UserID,
		SessionID:      entry.SessionID,
		ModuleName:     entry.ModuleName,
		QuestionNumber: entry.QuestionNumber,
		Score:          entry.Score,
		MaxScore:       entry.MaxScore,
		CreatedAt:      entry.Timestamp,
	}
}

func toDomainModuleAggregate(row models.ModuleAggregate) domain.ModuleAggregate {
	return domain.ModuleAggregate{
		ModuleName:    row.ModuleName,
		AverageScore:  row.AvgScore,
		AverageMax:    row.AvgMaxScore,
		QuestionCount: row.QuestionCount,
	}
}

// prepare fills the id and timestamp when the caller left them empty.
func prepare(entry *domain.PerformanceEntry) error {
	if entry == nil {
		return domain.NewInvalidInputError("performance entry is required")
	}
	if entry.UserID == "" || entry.SessionID == "" || entry.ModuleName == "" {
		return domain.NewInvalidInputError("performance entry requires user, session and module")
	}
	if entry.ID == "" {
		entry.ID = util.NewULID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	return nil
}

func (r *sqlxPerformanceRepository) insert(ctx context.Context, exec DBTX, entry *domain.PerformanceEntry) error {
	m := fromDomainPerformanceEntry(entry)
	_, err := exec.ExecContext(ctx, exec.Rebind(insertPerformanceEntryQuery),
		m.ID, m.UserID, m.SessionID, m.ModuleName, m.QuestionNumber, m.Score, m.MaxScore, m.CreatedAt)
	return err
}

// Append inserts one entry with a single INSERT statement.
func (r *sqlxPerformanceRepository) Append(ctx context.Context, entry *domain.PerformanceEntry) error {
	if err := prepare(entry); err != nil {
		return err
	}
	if err := r.insert(ctx, GetExecutor(ctx, r.db), entry); err != nil {
		return domain.NewStorageError("failed to append performance entry", err)
	}
	return nil
}

// AppendBatch inserts all entries in one transaction; either every row is written or none.
func (r *sqlxPerformanceRepository) AppendBatch(ctx context.Context, entries []*domain.PerformanceEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, entry := range entries {
		if err := prepare(entry); err != nil {
			return err
		}
	}

	err := r.tm.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, r.db)
		for i, entry := range entries {
			if err := r.insert(txCtx, exec, entry); err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.NewStorageError("failed to append performance entries", err)
	}
	return nil
}

// AggregateByModule returns per-module averages for one session, ordered by module name.
func (r *sqlxPerformanceRepository) AggregateByModule(ctx context.Context, userID, sessionID string) ([]domain.ModuleAggregate, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.ModuleAggregate
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(aggregateByModuleQuery), userID, sessionID); err != nil {
		return nil, domain.NewStorageError("failed to aggregate performance entries", err)
	}

	aggregates := make([]domain.ModuleAggregate, 0, len(rows))
	for _, row := range rows {
		aggregates = append(aggregates, toDomainModuleAggregate(row))
	}
	return aggregates, nil
}

func (r *sqlxPerformanceRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return domain.NewStorageError("ledger database unreachable", err)
	}
	return nil
}
