package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-docbind/pkg/document"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	applied, err := db.MigrateUp(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(migrations), applied)

	return NewRepository(db)
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.MigrateUp(ctx)
	require.NoError(t, err)

	applied, err := db.MigrateUp(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	snap := &document.Snapshot{
		TemplateID:      "receita-simples",
		RenderedContent: "Paciente: Maria",
		ContentType:     "text/plain; charset=utf-8",
		Values:          map[string]string{"NOME_PACIENTE": "Maria"},
		Timestamp:       time.Date(2024, 1, 31, 14, 30, 15, 500, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, snap))
	require.NotEmpty(t, snap.ID)

	got, err := repo.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, "receita-simples", got.TemplateID)
	assert.Equal(t, "Paciente: Maria", got.RenderedContent)
	assert.Equal(t, "text/plain; charset=utf-8", got.ContentType)
	assert.Equal(t, map[string]string{"NOME_PACIENTE": "Maria"}, got.Values)
	assert.True(t, got.Timestamp.Equal(time.Date(2024, 1, 31, 14, 30, 15, 0, time.UTC)))
}

func TestRepository_GetMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, document.ErrNotFound)
}

func TestRepository_SaveRejectsInvalid(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Save(context.Background(), &document.Snapshot{})
	require.ErrorIs(t, err, document.ErrInvalidSnapshot)
}

func TestRepository_ListFilters(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"receita-simples", "atestado-medico", "receita-simples"} {
		require.NoError(t, repo.Save(ctx, &document.Snapshot{
			ID:         id + "-" + string(rune('a'+i)),
			TemplateID: id,
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := repo.List(ctx, document.Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "receita-simples-c", all[0].ID)

	receitas, err := repo.List(ctx, document.Query{TemplateID: "receita-simples"})
	require.NoError(t, err)
	require.Len(t, receitas, 2)

	since := base.Add(30 * time.Minute)
	recent, err := repo.List(ctx, document.Query{Since: &since, Limit: 1})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "receita-simples-c", recent[0].ID)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docbind.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.MigrateUp(context.Background())
	require.NoError(t, err)

	repo := NewRepository(db)
	require.NoError(t, repo.Save(context.Background(), &document.Snapshot{TemplateID: "x"}))
}
