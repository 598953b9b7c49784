package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-docbind/pkg/document"
)

// Repository implements document.Repository on SQLite.
type Repository struct {
	db  *DB
	now func() time.Time
}

var _ document.Repository = (*Repository)(nil)

// NewRepository creates a repository over an open, migrated database.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Save inserts the snapshot, assigning an ID and timestamp when missing.
// Timestamps are stored as RFC3339 UTC, so sub-second precision is dropped.
func (r *Repository) Save(ctx context.Context, s *document.Snapshot) error {
	if err := document.Prepare(s, r.now); err != nil {
		return err
	}
	s.Timestamp = s.Timestamp.Truncate(time.Second)

	valuesJSON, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("sqlite: marshal values: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO documents (
			id, template_id, rendered_content, content_type, values_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		s.ID,
		s.TemplateID,
		s.RenderedContent,
		s.ContentType,
		string(valuesJSON),
		s.Timestamp.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert document: %w", err)
	}
	return nil
}

// Get retrieves a snapshot by ID.
func (r *Repository) Get(ctx context.Context, id string) (*document.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, template_id, rendered_content, content_type, values_json, created_at
		FROM documents WHERE id = ?
	`, id)

	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
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
		where = append(where, "template_id = ?")
		args = append(args, q.TemplateID)
	}
	if q.Since != nil {
		where = append(where, "created_at >= ?")
		args = append(args, q.Since.UTC().Format(time.RFC3339))
	}
	if q.Until != nil {
		where = append(where, "created_at < ?")
		args = append(args, q.Until.UTC().Format(time.RFC3339))
	}

	query := `SELECT id, template_id, rendered_content, content_type, values_json, created_at FROM documents`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list documents: %w", err)
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
		return nil, fmt.Errorf("sqlite: list documents: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*document.Snapshot, error) {
	var (
		s          document.Snapshot
		valuesJSON string
		createdAt  string
	)
	if err := row.Scan(&s.ID, &s.TemplateID, &s.RenderedContent, &s.ContentType, &valuesJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("sqlite: scan document: %w", err)
	}
	if err := json.Unmarshal([]byte(valuesJSON), &s.Values); err != nil {
		return nil, fmt.Errorf("sqlite: unmarshal values for %s: %w", s.ID, err)
	}
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: parse timestamp for %s: %w", s.ID, err)
	}
	s.Timestamp = ts.UTC()
	return &s, nil
}
