// Package document defines generated-document snapshots and the contracts
// storage backends implement to persist them.
package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound reports an unknown snapshot ID.
	ErrNotFound = errors.New("document: snapshot not found")
	// ErrInvalidSnapshot reports a snapshot missing required fields.
	ErrInvalidSnapshot = errors.New("document: invalid snapshot")
)

// Snapshot is the persisted record of one generated document.
type Snapshot struct {
	ID              string            `json:"id"`
	TemplateID      string            `json:"templateId"`
	RenderedContent string            `json:"renderedContent"`
	ContentType     string            `json:"contentType,omitempty"`
	Values          map[string]string `json:"values"`
	Timestamp       time.Time         `json:"timestamp"`
}

// Saver persists snapshots.
type Saver interface {
	Save(ctx context.Context, snapshot *Snapshot) error
}

// Query filters snapshot listings. Zero fields do not filter.
type Query struct {
	TemplateID string
	Since      *time.Time
	Until      *time.Time
	Limit      int
}

// Repository is a Saver that can also read snapshots back.
type Repository interface {
	Saver
	Get(ctx context.Context, id string) (*Snapshot, error)
	List(ctx context.Context, query Query) ([]*Snapshot, error)
}

// Validate checks the fields every backend requires.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: snapshot is nil", ErrInvalidSnapshot)
	}
	if strings.TrimSpace(s.TemplateID) == "" {
		return fmt.Errorf("%w: template id is required", ErrInvalidSnapshot)
	}
	return nil
}

// Prepare validates s and fills a missing ID and timestamp. Timestamps are
// normalised to UTC.
func Prepare(s *Snapshot, now func() time.Time) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Timestamp.IsZero() {
		if now == nil {
			now = time.Now
		}
		s.Timestamp = now()
	}
	s.Timestamp = s.Timestamp.UTC()
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	return nil
}
