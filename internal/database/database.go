package database

import (
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver ("pgx")
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver ("oracle")
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver ("sqlite")

	"speakscore/internal/config"
	"speakscore/internal/logger"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// DriverName maps a configured db.driver to the registered database/sql driver name.
func DriverName(driver string) (string, error) {
	switch driver {
	case "sqlite":
		return "sqlite", nil
	case "postgres":
		return "pgx", nil
	case "oracle":
		return "oracle", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// NewSQLXDB opens and pings the ledger database selected by cfg.DB.Driver.
func NewSQLXDB(cfg *config.Config) (*sqlx.DB, error) {
	driverName, err := DriverName(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.GetDSN()
	if cfg.DB.Driver == "sqlite" {
		// WAL lets report reads proceed while a scoring request appends.
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DB.Driver, err)
	}

	if cfg.DB.Driver == "sqlite" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	logger.Get().Info("Connected to ledger database", zap.String("driver", cfg.DB.Driver))
	return db, nil
}
