// Package sqlite stores document snapshots in SQLite through the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB handle.
type DB struct {
	*sql.DB
}

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
			CREATE TABLE IF NOT EXISTS documents (
				id               TEXT PRIMARY KEY,
				template_id      TEXT NOT NULL,
				rendered_content TEXT NOT NULL,
				content_type     TEXT NOT NULL DEFAULT '',
				values_json      TEXT NOT NULL,
				created_at       TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_documents_template_created
				ON documents (template_id, created_at);
		`,
	},
}

// Open opens (creating if needed) the database file at path.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}
	return &DB{DB: sqlDB}, nil
}

// OpenInMemory opens a private in-memory database. The pool is pinned to
// one connection since every connection would otherwise see its own empty
// database.
func OpenInMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open in-memory: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return &DB{DB: sqlDB}, nil
}

// MigrateUp applies pending migrations and returns how many ran.
func (db *DB) MigrateUp(ctx context.Context) (int, error) {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`); err != nil {
		return 0, fmt.Errorf("sqlite: create schema_migrations: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		var exists int
		err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err != nil {
			return applied, fmt.Errorf("sqlite: check migration %d: %w", m.version, err)
		}
		if exists > 0 {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("sqlite: begin migration %d: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("sqlite: apply migration %d: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
			m.version, time.Now().UTC().Format(time.RFC3339)); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("sqlite: record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("sqlite: commit migration %d: %w", m.version, err)
		}
		applied++
	}
	return applied, nil
}
