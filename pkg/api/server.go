// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package api serves the Inkwell HTTP interface. Every data route goes
// through the primary store's facade; the remote store's availability is
// surfaced only on the health endpoint and never turns into a request
// error.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/inkwell-labs/inkwell/pkg/analysis"
	"github.com/inkwell-labs/inkwell/pkg/notes"
	"github.com/inkwell-labs/inkwell/pkg/store"
)

// DefaultUserID is used when a request does not carry a user id. Inkwell
// is a personal application; multi-user requests pass user_id explicitly.
const DefaultUserID = "default"

// Server handles the HTTP API.
type Server struct {
	repo     *notes.Repository
	analyzer *analysis.Analyzer
	remote   *store.RemoteFuture
	logger   *slog.Logger
}

// NewServer creates a Server. remote may be nil when the caller has no
// gateway (tests); the health endpoint then reports the remote as skipped.
func NewServer(repo *notes.Repository, analyzer *analysis.Analyzer, remote *store.RemoteFuture, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{repo: repo, analyzer: analyzer, remote: remote, logger: logger}
}

// Routes returns the route table.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/notebooks", s.handleListNotebooks)
	mux.HandleFunc("POST /api/notebooks", s.handleCreateNotebook)
	mux.HandleFunc("DELETE /api/notebooks/{id}", s.handleDeleteNotebook)
	mux.HandleFunc("GET /api/notebooks/{id}/notes", s.handleListNotes)
	mux.HandleFunc("POST /api/notebooks/{id}/notes", s.handleCreateNote)
	mux.HandleFunc("GET /api/notes/{id}", s.handleGetNote)
	mux.HandleFunc("PATCH /api/notes/{id}", s.handleUpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", s.handleDeleteNote)
	mux.HandleFunc("GET /api/notes/{id}/stats", s.handleNoteStats)
	return mux
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully with a bounded drain.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutdown timeout, forcing close", "error", err)
			_ = srv.Close()
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve on %s: %w", addr, err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	remote := "skipped"
	if s.remote != nil {
		select {
		case <-s.remote.Done():
			if s.remote.Err() != nil {
				remote = "unavailable"
			} else if s.remote.Await(r.Context()) != nil {
				remote = "ready"
			} else {
				remote = "skipped"
			}
		default:
			remote = "pending"
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "remote": remote})
}

func (s *Server) handleListNotebooks(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = DefaultUserID
	}
	list, err := s.repo.ListNotebooks(r.Context(), userID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateNotebook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Name   string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		req.UserID = DefaultUserID
	}
	nb, err := s.repo.CreateNotebook(r.Context(), req.UserID, req.Name)
	if err != nil {
		s.failInvalid(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nb)
}

func (s *Server) handleDeleteNotebook(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteNotebook(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	includeArchived := store.ParseBool(r.URL.Query().Get("archived"))
	list, err := s.repo.ListNotes(r.Context(), r.PathValue("id"), includeArchived)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	n, err := s.repo.CreateNote(r.Context(), r.PathValue("id"), req.Title, req.Content)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.repo.GetNote(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req notes.UpdateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	n, err := s.repo.UpdateNote(r.Context(), r.PathValue("id"), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteNote(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNoteStats(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		writeError(w, http.StatusNotImplemented, "analysis disabled")
		return
	}
	stats, err := s.analyzer.NoteStats(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// fail maps repository errors to status codes: missing rows are 404,
// everything else is a 500 that gets logged.
func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, notes.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// failInvalid is fail, except non-NotFound errors are treated as caller
// mistakes (validation) rather than server faults.
func (s *Server) failInvalid(w http.ResponseWriter, err error) {
	if errors.Is(err, notes.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
