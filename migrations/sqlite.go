package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const createSchemaMigrationsSQLite = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// ApplySQLite is Apply for a go-sqlite3 database. Each version is checked and
// applied inside one IMMEDIATE transaction (the sqlite package opens every
// transaction that way), so concurrent migrators queue on the write lock and
// the later one sees the version as applied.
func ApplySQLite(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	known, err := List(dialectSQLite)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, createSchemaMigrationsSQLite); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, m := range known {
		stmt, err := m.render(time.Now())
		if err != nil {
			return err
		}
		applied, err := applySQLiteVersion(ctx, db, m.Version, stmt)
		if err != nil {
			return err
		}
		if !applied {
			logger.Debug("migration already applied", zap.Int64("version", m.Version), zap.String("name", m.Name))
			continue
		}
		logger.Info("migration applied", zap.Int64("version", m.Version), zap.String("name", m.Name))
	}
	return nil
}

// applySQLiteVersion runs stmt and records version unless the version is
// already recorded. It reports whether it applied anything.
func applySQLiteVersion(ctx context.Context, db *sql.DB, version int64, stmt string) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin migration %d: %w", version, err)
	}
	defer func() { _ = tx.Rollback() }()

	var applied bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = ?)`, version).Scan(&applied); err != nil {
		return false, fmt.Errorf("check migration %d: %w", version, err)
	}
	if applied {
		return false, nil
	}

	if stmt != "" {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return false, fmt.Errorf("exec migration %d: %w", version, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		return false, fmt.Errorf("record migration %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit migration %d: %w", version, err)
	}
	return true, nil
}

// StatusSQLite lists every known SQLite migration and whether it has run.
func StatusSQLite(ctx context.Context, db *sql.DB) ([]VersionStatus, error) {
	known, err := List(dialectSQLite)
	if err != nil {
		return nil, err
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'`).Scan(&count); err != nil {
		return nil, fmt.Errorf("check schema_migrations: %w", err)
	}
	applied := make(map[int64]time.Time)
	if count == 0 {
		return statusFor(known, applied), nil
	}

	rows, err := db.QueryContext(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list schema_migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var version int64
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[version] = at.UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schema_migrations: %w", err)
	}
	return statusFor(known, applied), nil
}
