// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
)

// Store is the interface both storage backends implement. It is the only
// sanctioned way collaborators touch persisted data: handlers receive a
// Store reference from the gateway, never ownership of the connection.
type Store interface {
	// Get executes a query expected to return zero or one row.
	// Returns (nil, nil) when no row matches.
	Get(ctx context.Context, query string, args ...any) (Row, error)

	// All executes a query and returns every matching row.
	All(ctx context.Context, query string, args ...any) ([]Row, error)

	// Run executes a mutating statement and returns normalized metadata.
	Run(ctx context.Context, stmt string, args ...any) (RunResult, error)

	// Execute runs a raw statement with no normalized row shape (DDL,
	// pragmas). The driver-native result is returned as-is.
	Execute(ctx context.Context, stmt string, args ...any) (sql.Result, error)

	// Close releases the underlying connection.
	Close() error
}

// Row is a single record keyed by column name.
type Row map[string]any

// RunResult reports the outcome of a mutating statement.
type RunResult struct {
	RowsAffected int64
	InsertID     int64
}
