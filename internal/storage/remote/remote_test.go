package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-docbind/pkg/document"
)

func TestClient_SavePostsSnapshot(t *testing.T) {
	var received document.Snapshot
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/documents", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client, err := New(srv.URL+"/api/", WithToken("secret"))
	require.NoError(t, err)

	snap := &document.Snapshot{
		TemplateID:      "atestado-medico",
		RenderedContent: "Atesto que Maria",
		Values:          map[string]string{"NOME_PACIENTE": "Maria"},
	}
	require.NoError(t, client.Save(context.Background(), snap))

	assert.Equal(t, snap.ID, received.ID)
	assert.Equal(t, "atestado-medico", received.TemplateID)
	assert.Equal(t, "Maria", received.Values["NOME_PACIENTE"])
	assert.False(t, received.Timestamp.IsZero())
}

func TestClient_SaveNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	err = client.Save(context.Background(), &document.Snapshot{TemplateID: "x"})
	require.ErrorIs(t, err, ErrUnexpectedStatus)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Status)
	assert.Equal(t, "boom", statusErr.Body)
}

func TestClient_GetAndList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/documents/doc-1":
			_ = json.NewEncoder(w).Encode(document.Snapshot{ID: "doc-1", TemplateID: "x"})
		case "/documents":
			assert.Equal(t, "x", r.URL.Query().Get("templateId"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			_ = json.NewEncoder(w).Encode([]document.Snapshot{{ID: "doc-1", TemplateID: "x"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	got, err := client.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "x", got.TemplateID)

	_, err = client.Get(ctx, "missing")
	require.ErrorIs(t, err, document.ErrNotFound)

	list, err := client.List(ctx, document.Query{TemplateID: "x", Limit: 5})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestNew_RejectsInvalidURL(t *testing.T) {
	_, err := New("not a url")
	require.Error(t, err)
}
