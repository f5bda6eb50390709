// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package notes

// Notebook groups notes for one user.
type Notebook struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	SortOrder int64  `json:"sort_order"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Note is a single document inside a notebook.
type Note struct {
	ID         string `json:"id"`
	NotebookID string `json:"notebook_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Pinned     bool   `json:"pinned"`
	Archived   bool   `json:"archived"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

// UpdateNoteRequest carries the mutable note fields. Nil pointers leave the
// corresponding column untouched.
type UpdateNoteRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Pinned   *bool   `json:"pinned"`
	Archived *bool   `json:"archived"`
}
