// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/inkwell/pkg/analysis"
	"github.com/inkwell-labs/inkwell/pkg/notes"
	"github.com/inkwell-labs/inkwell/pkg/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := store.OpenLocal(filepath.Join(t.TempDir(), "api.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := notes.NewRepository(db, logger)
	analyzer, err := analysis.NewAnalyzer(repo, 16, time.Minute, nil, logger)
	require.NoError(t, err)
	return NewServer(repo, analyzer, nil, logger)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNotebookAndNoteEndpoints(t *testing.T) {
	s := newTestServer(t)
	mux := s.Routes()

	// Create a notebook.
	rec := doJSON(t, mux, "POST", "/api/notebooks", map[string]string{"name": "Journal"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var nb notes.Notebook
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nb))
	assert.Equal(t, DefaultUserID, nb.UserID)

	// It lists for the default user.
	rec = doJSON(t, mux, "GET", "/api/notebooks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []notes.Notebook
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	// Create and fetch a note.
	rec = doJSON(t, mux, "POST", "/api/notebooks/"+nb.ID+"/notes",
		map[string]string{"title": "First", "content": "# Hi\nhello world"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var n notes.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &n))

	rec = doJSON(t, mux, "GET", "/api/notes/"+n.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Stats round-trip through the analyzer.
	rec = doJSON(t, mux, "GET", "/api/notes/"+n.ID+"/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats analysis.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Words)
	assert.Equal(t, []string{"Hi"}, stats.Headings)

	// Patch, then delete.
	rec = doJSON(t, mux, "PATCH", "/api/notes/"+n.ID, map[string]any{"pinned": true})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &n))
	assert.True(t, n.Pinned)

	rec = doJSON(t, mux, "DELETE", "/api/notes/"+n.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, mux, "GET", "/api/notes/"+n.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	mux := s.Routes()

	rec := doJSON(t, mux, "GET", "/api/notes/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, "POST", "/api/notebooks", map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, "POST", "/api/notebooks/missing/notes", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest("POST", "/api/notebooks", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthReportsRemoteState(t *testing.T) {
	s := newTestServer(t)

	// No gateway at all: remote is skipped.
	rec := doJSON(t, s.Routes(), "GET", "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "skipped", health["remote"])

	// A failed remote attempt reads as unavailable, not as an error.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fut := store.ConnectRemote(store.RemoteConfig{
		URL:          filepath.Join(t.TempDir(), "no", "dir", "r.db"),
		Token:        "tok",
		Driver:       "sqlite3",
		SetupTimeout: 2 * time.Second,
	}, logger)
	<-fut.Done()

	s.remote = fut
	rec = doJSON(t, s.Routes(), "GET", "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "unavailable", health["remote"])
}
