// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package notes is the data-access layer for notebooks and notes. It speaks
// to persistence exclusively through the store.Store facade it is handed;
// it never owns the gateway and never routes to the remote store.
package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-labs/inkwell/pkg/store"
)

// ErrNotFound is returned when the requested notebook or note does not exist.
var ErrNotFound = errors.New("not found")

// Repository provides notebook and note CRUD over a Store.
type Repository struct {
	db     store.Store
	logger *slog.Logger
	now    func() int64
}

// NewRepository creates a Repository over db.
func NewRepository(db store.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
		now:    func() int64 { return time.Now().Unix() },
	}
}

// CreateNotebook stores a new notebook for userID.
func (r *Repository) CreateNotebook(ctx context.Context, userID, name string) (*Notebook, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("notebook name is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	nb := &Notebook{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: r.now(),
		UpdatedAt: r.now(),
	}
	_, err := r.db.Run(ctx,
		`INSERT INTO notebooks (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		nb.ID, nb.UserID, nb.Name, nb.CreatedAt, nb.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create notebook: %w", err)
	}
	return nb, nil
}

// ListNotebooks returns the user's notebooks ordered by sort order, then name.
func (r *Repository) ListNotebooks(ctx context.Context, userID string) ([]Notebook, error) {
	rows, err := r.db.All(ctx,
		`SELECT id, user_id, name, sort_order, created_at, updated_at
		 FROM notebooks WHERE user_id = ? ORDER BY sort_order, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	out := make([]Notebook, 0, len(rows))
	for _, row := range rows {
		out = append(out, notebookFromRow(row))
	}
	return out, nil
}

// DeleteNotebook removes a notebook and every note in it.
func (r *Repository) DeleteNotebook(ctx context.Context, id string) error {
	if _, err := r.db.Run(ctx, `DELETE FROM notes WHERE notebook_id = ?`, id); err != nil {
		return fmt.Errorf("delete notebook notes: %w", err)
	}
	res, err := r.db.Run(ctx, `DELETE FROM notebooks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete notebook: %w", err)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateNote stores a new note in notebookID.
func (r *Repository) CreateNote(ctx context.Context, notebookID, title, content string) (*Note, error) {
	if notebookID == "" {
		return nil, fmt.Errorf("notebook id is required")
	}
	nb, err := r.db.Get(ctx, `SELECT id FROM notebooks WHERE id = ?`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("check notebook: %w", err)
	}
	if nb == nil {
		return nil, ErrNotFound
	}

	n := &Note{
		ID:         uuid.NewString(),
		NotebookID: notebookID,
		Title:      title,
		Content:    content,
		CreatedAt:  r.now(),
		UpdatedAt:  r.now(),
	}
	_, err = r.db.Run(ctx,
		`INSERT INTO notes (id, notebook_id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.NotebookID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

// GetNote returns one note by id.
func (r *Repository) GetNote(ctx context.Context, id string) (*Note, error) {
	row, err := r.db.Get(ctx,
		`SELECT id, notebook_id, title, content, pinned, archived, created_at, updated_at
		 FROM notes WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}
	n := noteFromRow(row)
	return &n, nil
}

// ListNotes returns a notebook's notes, pinned first, newest first within
// each group. Archived notes are excluded unless includeArchived is set.
func (r *Repository) ListNotes(ctx context.Context, notebookID string, includeArchived bool) ([]Note, error) {
	query := `SELECT id, notebook_id, title, content, pinned, archived, created_at, updated_at
		 FROM notes WHERE notebook_id = ?`
	if !includeArchived {
		query += ` AND archived = 0`
	}
	query += ` ORDER BY pinned DESC, updated_at DESC`

	rows, err := r.db.All(ctx, query, notebookID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	out := make([]Note, 0, len(rows))
	for _, row := range rows {
		out = append(out, noteFromRow(row))
	}
	return out, nil
}

// UpdateNote applies the non-nil fields of req and bumps updated_at.
func (r *Repository) UpdateNote(ctx context.Context, id string, req UpdateNoteRequest) (*Note, error) {
	sets := []string{"updated_at = ?"}
	args := []any{r.now()}

	if req.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *req.Content)
	}
	if req.Pinned != nil {
		sets = append(sets, "pinned = ?")
		args = append(args, boolToInt(*req.Pinned))
	}
	if req.Archived != nil {
		sets = append(sets, "archived = ?")
		args = append(args, boolToInt(*req.Archived))
	}
	args = append(args, id)

	res, err := r.db.Run(ctx,
		`UPDATE notes SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetNote(ctx, id)
}

// DeleteNote removes one note by id.
func (r *Repository) DeleteNote(ctx context.Context, id string) error {
	res, err := r.db.Run(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountNotes reports the number of non-archived notes across all notebooks.
func (r *Repository) CountNotes(ctx context.Context) (int64, error) {
	row, err := r.db.Get(ctx, `SELECT COUNT(*) AS n FROM notes WHERE archived = 0`)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	if row == nil {
		return 0, nil
	}
	return asInt64(row["n"]), nil
}

func notebookFromRow(row store.Row) Notebook {
	return Notebook{
		ID:        asString(row["id"]),
		UserID:    asString(row["user_id"]),
		Name:      asString(row["name"]),
		SortOrder: asInt64(row["sort_order"]),
		CreatedAt: asInt64(row["created_at"]),
		UpdatedAt: asInt64(row["updated_at"]),
	}
}

func noteFromRow(row store.Row) Note {
	return Note{
		ID:         asString(row["id"]),
		NotebookID: asString(row["notebook_id"]),
		Title:      asString(row["title"]),
		Content:    asString(row["content"]),
		Pinned:     asInt64(row["pinned"]) != 0,
		Archived:   asInt64(row["archived"]) != 0,
		CreatedAt:  asInt64(row["created_at"]),
		UpdatedAt:  asInt64(row["updated_at"]),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
