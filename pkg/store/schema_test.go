// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogShape(t *testing.T) {
	stmts := Catalog()
	require.NotEmpty(t, stmts)

	var tables, indexes, columns int
	for _, st := range stmts {
		assert.NotEmpty(t, st.Name)
		assert.NotEmpty(t, st.SQL)
		switch st.Class {
		case ClassTable:
			tables++
			assert.Contains(t, st.SQL, "IF NOT EXISTS")
		case ClassIndex:
			indexes++
			assert.Contains(t, st.SQL, "IF NOT EXISTS")
		case ClassColumn:
			columns++
			assert.Contains(t, st.SQL, "ADD COLUMN")
		}
	}
	assert.NotZero(t, tables)
	assert.NotZero(t, indexes)
	assert.NotZero(t, columns)
}

// TestCatalogIdempotent applies the full catalog twice against the same
// database and verifies the second pass neither fails nor changes the
// resulting set of tables, columns, and indexes.
func TestCatalogIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idempotent.db")

	first, err := OpenLocal(path, testLogger())
	require.NoError(t, err)

	ctx := context.Background()
	before := describeSchema(t, first)
	require.NoError(t, first.Close())

	// Second full application against the already-migrated file.
	second, err := OpenLocal(path, testLogger())
	require.NoError(t, err)
	defer second.Close()

	after := describeSchema(t, second)
	assert.Equal(t, before, after)

	// The migrated columns really exist and are writable.
	_, err = second.Run(ctx,
		`INSERT INTO notes (id, notebook_id, title, content, created_at, updated_at, pinned, archived)
		 VALUES (?, ?, ?, ?, 0, 0, 1, 0)`,
		"n1", "b1", "t", "c")
	require.NoError(t, err)
}

func TestDuplicateColumnDetection(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "dup.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE t (a TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`ALTER TABLE t ADD COLUMN b INTEGER`)
	require.NoError(t, err)

	// Re-running the migration fails with the recognizable signature.
	_, err = db.Exec(`ALTER TABLE t ADD COLUMN b INTEGER`)
	require.Error(t, err)
	assert.True(t, IsDuplicateColumn(err))

	assert.False(t, IsDuplicateColumn(nil))
	assert.False(t, IsDuplicateColumn(errors.New("no such table: t")))
}

// TestApplyCatalogIndexBestEffort verifies an index failure is skipped while
// table failures abort.
func TestApplyCatalogFailurePolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("index failure skipped", func(t *testing.T) {
		applied := 0
		err := applyCatalog(ctx, testLogger(), func(_ context.Context, st Statement) error {
			applied++
			if st.Class == ClassIndex {
				return errors.New("disk I/O error")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, len(Catalog()), applied)
	})

	t.Run("table failure fatal", func(t *testing.T) {
		err := applyCatalog(ctx, testLogger(), func(_ context.Context, st Statement) error {
			if st.Class == ClassTable {
				return errors.New("disk I/O error")
			}
			return nil
		})
		require.Error(t, err)
		assert.ErrorContains(t, err, "create table")
	})

	t.Run("duplicate column swallowed, other column errors surface", func(t *testing.T) {
		err := applyCatalog(ctx, testLogger(), func(_ context.Context, st Statement) error {
			if st.Class == ClassColumn {
				return errors.New("duplicate column name: pinned")
			}
			return nil
		})
		require.NoError(t, err)

		err = applyCatalog(ctx, testLogger(), func(_ context.Context, st Statement) error {
			if st.Class == ClassColumn {
				return errors.New("no such table: notes")
			}
			return nil
		})
		require.Error(t, err)
		assert.ErrorContains(t, err, "apply migration")
	})
}

// describeSchema snapshots table, column, and index names from sqlite_master.
func describeSchema(t *testing.T, s Store) map[string][]string {
	t.Helper()
	ctx := context.Background()

	out := make(map[string][]string)
	rows, err := s.All(ctx,
		`SELECT name, type FROM sqlite_master WHERE name NOT LIKE 'sqlite_%' ORDER BY name`)
	require.NoError(t, err)
	for _, r := range rows {
		name := r["name"].(string)
		kind := r["type"].(string)
		out[kind] = append(out[kind], name)

		if kind == "table" {
			cols, err := s.All(ctx, `SELECT name FROM pragma_table_info(?) ORDER BY name`, name)
			require.NoError(t, err)
			for _, c := range cols {
				out["column:"+name] = append(out["column:"+name], c["name"].(string))
			}
		}
	}
	return out
}
