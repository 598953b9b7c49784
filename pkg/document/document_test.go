package document_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-docbind/pkg/document"
)

func TestPrepare_FillsIDAndTimestamp(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	now := func() time.Time { return time.Date(2024, 1, 31, 11, 0, 0, 0, loc) }

	snap := &document.Snapshot{TemplateID: "receita-simples"}
	if err := document.Prepare(snap, now); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if _, err := uuid.Parse(snap.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", snap.ID)
	}
	if !snap.Timestamp.Equal(now()) || snap.Timestamp.Location() != time.UTC {
		t.Fatalf("unexpected timestamp %v", snap.Timestamp)
	}
	if snap.Values == nil {
		t.Fatalf("expected empty values map")
	}
}

func TestPrepare_KeepsExistingID(t *testing.T) {
	snap := &document.Snapshot{ID: "doc-1", TemplateID: "x"}
	if err := document.Prepare(snap, nil); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if snap.ID != "doc-1" {
		t.Fatalf("id overwritten: %q", snap.ID)
	}
}

func TestPrepare_RejectsInvalid(t *testing.T) {
	for _, snap := range []*document.Snapshot{nil, {TemplateID: "  "}} {
		if err := document.Prepare(snap, nil); !errors.Is(err, document.ErrInvalidSnapshot) {
			t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
		}
	}
}
