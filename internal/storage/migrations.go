package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/PROGPA/gpacalculaters/internal/common"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS sessions (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL DEFAULT '',
					kind TEXT NOT NULL DEFAULT '',
					mode TEXT NOT NULL,
					prior_score REAL,
					prior_weight REAL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS session_groups (
					id TEXT PRIMARY KEY,
					session_id TEXT NOT NULL,
					name TEXT NOT NULL DEFAULT '',
					position INTEGER NOT NULL,
					FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
				)`,
				`CREATE TABLE IF NOT EXISTS session_entries (
					id TEXT PRIMARY KEY,
					group_id TEXT NOT NULL,
					label TEXT NOT NULL DEFAULT '',
					token TEXT NOT NULL DEFAULT '',
					weight REAL NOT NULL DEFAULT 0,
					score REAL NOT NULL DEFAULT 0,
					position INTEGER NOT NULL,
					FOREIGN KEY (group_id) REFERENCES session_groups(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX IF NOT EXISTS idx_session_groups_session ON session_groups(session_id, position)`,
				`CREATE INDEX IF NOT EXISTS idx_session_entries_group ON session_entries(group_id, position)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Store group layout with sessions",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`ALTER TABLE sessions ADD COLUMN group_prefix TEXT NOT NULL DEFAULT 'Semester'`,
				`ALTER TABLE sessions ADD COLUMN entries_per_group INTEGER NOT NULL DEFAULT 4`,
				`ALTER TABLE sessions ADD COLUMN default_weight REAL NOT NULL DEFAULT 0`,
				`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at)`,
			)
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("%w: schema version mismatch: expected %d, got %d", common.ErrDatabaseCorrupted, ExpectedSchemaVersion, finalVersion)
	}
	return nil
}
