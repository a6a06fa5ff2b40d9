package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"speakscore/internal/logger"
)

//go:embed migrations
var migrationsFS embed.FS

// RunMigrations applies all pending up migrations for the given driver.
// SQLite and Postgres are versioned by golang-migrate; Oracle scripts are
// applied in file-name order and tolerate objects that already exist.
func RunMigrations(db *sql.DB, driver string) error {
	switch driver {
	case "sqlite", "postgres":
		return runVersioned(db, driver)
	case "oracle":
		return runOrdered(db, path.Join("migrations", "oracle"))
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func newVersioned(db *sql.DB, driver string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, path.Join("migrations", driver))
	if err != nil {
		return nil, fmt.Errorf("could not open embedded migrations: %w", err)
	}

	var target migratedb.Driver
	switch driver {
	case "sqlite":
		target, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	case "postgres":
		target, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	default:
		return nil, fmt.Errorf("driver %s has no versioned migrations", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("could not create %s migration driver: %w", driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return nil, fmt.Errorf("could not initialise migrations: %w", err)
	}
	return m, nil
}

func runVersioned(db *sql.DB, driver string) error {
	m, err := newVersioned(db, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("could not read migration version: %w", err)
	}
	logger.Get().Info("Migrations completed successfully",
		zap.String("driver", driver),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// RollbackMigrations applies every down migration. Oracle schemas are managed
// by the ordered runner only and cannot be rolled back here.
func RollbackMigrations(db *sql.DB, driver string) error {
	m, err := newVersioned(db, driver)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not roll back migrations: %w", err)
	}
	return nil
}

// MigrationVersion reports the applied schema version. It returns 0 when no
// migration has run yet.
func MigrationVersion(db *sql.DB, driver string) (uint, bool, error) {
	m, err := newVersioned(db, driver)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func runOrdered(db *sql.DB, dir string) error {
	files, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".up.sql") {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, path.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", file.Name(), err)
		}

		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.Exec(stmt); err != nil {
				if isAlreadyExists(err) {
					logger.Get().Debug("Skipping existing object", zap.String("file", file.Name()))
					continue
				}
				return fmt.Errorf("could not execute migration %s: %w", file.Name(), err)
			}
		}

		logger.Get().Info("Executed migration", zap.String("file", file.Name()))
	}

	logger.Get().Info("Migrations completed successfully", zap.String("driver", "oracle"))
	return nil
}

// SplitStatements splits a script on semicolons and drops empty statements.
// Oracle rejects a trailing semicolon on a single statement.
func SplitStatements(script string) []string {
	var statements []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// isAlreadyExists matches ORA-00955 (name already used) and ORA-01408 (index already exists).
func isAlreadyExists(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "ORA-00955") || strings.Contains(msg, "ORA-01408")
}
