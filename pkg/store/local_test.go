// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLocalCreatesFileAndParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ink.db")
	s, err := OpenLocal(path, testLogger())
	require.NoError(t, err)
	defer s.Close()

	// Every catalog table answers queries immediately after return.
	ctx := context.Background()
	for _, table := range []string{"users", "notebooks", "notes"} {
		rows, err := s.All(ctx, `SELECT * FROM `+table)
		require.NoError(t, err, "table %s", table)
		assert.Empty(t, rows)
	}
}

func TestLocalFacadeSemantics(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	// Run reports affected rows.
	res, err := s.Run(ctx,
		`INSERT INTO notebooks (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		"b1", "u1", "Journal", 100, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)

	// Get returns one row keyed by column name.
	row, err := s.Get(ctx, `SELECT id, name FROM notebooks WHERE id = ?`, "b1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "b1", row["id"])
	assert.Equal(t, "Journal", row["name"])

	// Get returns (nil, nil) when nothing matches.
	missing, err := s.Get(ctx, `SELECT id FROM notebooks WHERE id = ?`, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// All returns every row.
	_, err = s.Run(ctx,
		`INSERT INTO notebooks (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		"b2", "u1", "Work", 101, 101)
	require.NoError(t, err)
	rows, err := s.All(ctx, `SELECT id FROM notebooks WHERE user_id = ? ORDER BY id`, "u1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b1", rows[0]["id"])
	assert.Equal(t, "b2", rows[1]["id"])

	// Execute hands back the driver-native result.
	dres, err := s.Execute(ctx, `UPDATE notebooks SET name = ? WHERE id = ?`, "Archive", "b2")
	require.NoError(t, err)
	n, err := dres.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

// Driver-level errors on the local store are programmer errors: surfaced,
// never retried or swallowed.
func TestLocalQueryErrorsSurface(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	_, err := s.Get(ctx, `SELEC broken`)
	require.Error(t, err)

	_, err = s.Run(ctx, `INSERT INTO no_such_table (x) VALUES (1)`)
	require.Error(t, err)
}

func TestLocalDefaultsPathWhenEmpty(t *testing.T) {
	// An empty path resolves to the default relative location; run inside
	// a temp working directory so the test leaves nothing behind.
	t.Chdir(t.TempDir())

	s, err := OpenLocal("", testLogger())
	require.NoError(t, err)
	defer s.Close()

	_, statErr := s.Get(context.Background(), `SELECT 1 AS one`)
	assert.NoError(t, statErr)
}
