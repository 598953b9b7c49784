// Package postgres stores document snapshots in PostgreSQL through pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goliatone/go-docbind/pkg/document"
)

// Migration is the DDL for the documents table. It is safe to run more than
// once.
const Migration = `
CREATE TABLE IF NOT EXISTS documents (
    id               TEXT PRIMARY KEY,
    template_id      TEXT NOT NULL,
    rendered_content TEXT NOT NULL,
    content_type     TEXT NOT NULL DEFAULT '',
    values_json      JSONB NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_template_created
    ON documents (template_id, created_at);
`

// NewPool parses databaseURL, connects and pings.
func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	if minConns > 0 {
		cfg.MinConns = minConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping database: %w", err)
	}
	return pool, nil
}

// Repository implements document.Repository on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ document.Repository = (*Repository)(nil)

// NewRepository wraps an open pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, now: time.Now}
}

// Migrate creates the documents table.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Migration); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

// Save inserts the snapshot, assigning an ID and timestamp when missing.
func (r *Repository) Save(ctx context.Context, s *document.Snapshot) error {
	if err := document.Prepare(s, r.now); err != nil {
		return err
	}
	s.Timestamp = s.Timestamp.Truncate(time.Microsecond)

	valuesJSON, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("postgres: marshal values: %w", err)
	}

	const query = `INSERT INTO documents (id, template_id, rendered_content, content_type, values_json, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.pool.Exec(ctx, query, s.ID, s.TemplateID, s.RenderedContent, s.ContentType, valuesJSON, s.Timestamp); err != nil {
		return fmt.Errorf("postgres: insert document: %w", err)
	}
	return nil
}

// Get retrieves a snapshot by ID.
func (r *Repository) Get(ctx context.Context, id string) (*document.Snapshot, error) {
	const query = `SELECT id, template_id, rendered_content, content_type, values_json, created_at
FROM documents WHERE id = $1`

	s, err := scanSnapshot(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", document.ErrNotFound, id)
	}
	return s, err
}

// List returns snapshots newest first.
func (r *Repository) List(ctx context.Context, q document.Query) ([]*document.Snapshot, error) {
	var (
		where []string
		args  []any
	)
	if q.TemplateID != "" {
		args = append(args, q.TemplateID)
		where = append(where, fmt.Sprintf("template_id = $%d", len(args)))
	}
	if q.Since != nil {
		args = append(args, q.Since.UTC())
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if q.Until != nil {
		args = append(args, q.Until.UTC())
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}

	query := `SELECT id, template_id, rendered_content, content_type, values_json, created_at FROM documents`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list documents: %w", err)
	}
	defer rows.Close()

	var out []*document.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list documents: %w", err)
	}
	return out, nil
}

func scanSnapshot(row pgx.Row) (*document.Snapshot, error) {
	var (
		s          document.Snapshot
		valuesJSON []byte
	)
	if err := row.Scan(&s.ID, &s.TemplateID, &s.RenderedContent, &s.ContentType, &valuesJSON, &s.Timestamp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("postgres: scan document: %w", err)
	}
	if err := json.Unmarshal(valuesJSON, &s.Values); err != nil {
		return nil, fmt.Errorf("postgres: unmarshal values for %s: %w", s.ID, err)
	}
	s.Timestamp = s.Timestamp.UTC()
	return &s, nil
}
