// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// StatementClass determines how a schema statement's failure is handled.
type StatementClass int

const (
	// ClassTable statements are mandatory. A failed table creation aborts
	// bootstrap: serving requests without the full table set is never
	// acceptable.
	ClassTable StatementClass = iota

	// ClassIndex statements are best-effort. Indexes are a performance
	// optimization; a failure is logged and skipped.
	ClassIndex

	// ClassColumn statements are additive migrations against tables that
	// may already carry the column. A duplicate-column failure is expected
	// on re-run and is swallowed; any other failure is surfaced.
	ClassColumn
)

// Statement is one named, immutable schema operation.
type Statement struct {
	Name  string
	Class StatementClass
	SQL   string
}

// Catalog returns the ordered schema statements for the Inkwell database.
// The same catalog is applied verbatim by the local bootstrap and the remote
// connector; applying it twice leaves the schema identical to applying it
// once.
func Catalog() []Statement {
	return []Statement{
		{Name: "users", Class: ClassTable, SQL: `CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
)`},
		{Name: "notebooks", Class: ClassTable, SQL: `CREATE TABLE IF NOT EXISTS notebooks (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
)`},
		{Name: "notes", Class: ClassTable, SQL: `CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    notebook_id TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
)`},

		{Name: "idx_notebooks_user", Class: ClassIndex,
			SQL: `CREATE INDEX IF NOT EXISTS idx_notebooks_user ON notebooks(user_id)`},
		{Name: "idx_notes_notebook", Class: ClassIndex,
			SQL: `CREATE INDEX IF NOT EXISTS idx_notes_notebook ON notes(notebook_id)`},
		{Name: "idx_notes_updated", Class: ClassIndex,
			SQL: `CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at)`},

		// Additive migrations for databases created before these columns
		// existed. ALTER TABLE has no IF NOT EXISTS form in sqlite, so the
		// duplicate-column failure on re-run is the expected signal.
		{Name: "notes.pinned", Class: ClassColumn,
			SQL: `ALTER TABLE notes ADD COLUMN pinned INTEGER NOT NULL DEFAULT 0`},
		{Name: "notes.archived", Class: ClassColumn,
			SQL: `ALTER TABLE notes ADD COLUMN archived INTEGER NOT NULL DEFAULT 0`},
		{Name: "notebooks.sort_order", Class: ClassColumn,
			SQL: `ALTER TABLE notebooks ADD COLUMN sort_order INTEGER NOT NULL DEFAULT 0`},
	}
}

// IsDuplicateColumn reports whether err is the duplicate-column failure an
// additive migration produces when the column already exists.
func IsDuplicateColumn(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "duplicate column name")
}

// applyCatalog runs every catalog statement through apply, enforcing the
// per-class failure policy. Both bootstrap paths call this with their own
// apply function so the catalog and its classification never diverge.
func applyCatalog(ctx context.Context, logger *slog.Logger, apply func(context.Context, Statement) error) error {
	for _, st := range Catalog() {
		err := apply(ctx, st)
		if err == nil {
			continue
		}

		switch st.Class {
		case ClassColumn:
			if IsDuplicateColumn(err) {
				logger.Debug("column already present, skipping migration", "statement", st.Name)
				continue
			}
			return fmt.Errorf("apply migration %s: %w", st.Name, err)

		case ClassIndex:
			logger.Warn("index creation failed, continuing without it", "statement", st.Name, "error", err)
			continue

		default:
			return fmt.Errorf("create table %s: %w", st.Name, err)
		}
	}
	return nil
}
