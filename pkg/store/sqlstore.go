// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// sqlStore is the uniform four-operation facade over a database/sql handle.
// Both backends use it: the local store runs operations directly, the remote
// store sets retryOps so every call goes through the retry executor, since
// transient remote failures recur during normal operation, not just at
// startup.
type sqlStore struct {
	db       *sql.DB
	logger   *slog.Logger
	label    string
	retryOps *RetryPolicy
}

var _ Store = (*sqlStore)(nil)

func newSQLStore(db *sql.DB, label string, logger *slog.Logger, retryOps *RetryPolicy) *sqlStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &sqlStore{db: db, logger: logger, label: label, retryOps: retryOps}
}

// Get returns the first matching row, or (nil, nil) when none matches.
func (s *sqlStore) Get(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// All returns every matching row.
func (s *sqlStore) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	return s.query(ctx, query, args...)
}

// Run executes a mutating statement and normalizes the driver result.
func (s *sqlStore) Run(ctx context.Context, stmt string, args ...any) (RunResult, error) {
	op := func() (RunResult, error) {
		res, err := s.db.ExecContext(ctx, stmt, args...)
		if err != nil {
			return RunResult{}, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return RunResult{}, fmt.Errorf("rows affected: %w", err)
		}
		// Not every driver reports an insert id; absence is not an error.
		insertID, err := res.LastInsertId()
		if err != nil {
			insertID = 0
		}
		return RunResult{RowsAffected: affected, InsertID: insertID}, nil
	}

	result, err := withRetry(ctx, s, op)
	if err != nil {
		s.logger.Error("run failed", "store", s.label, "error", err)
		return RunResult{}, err
	}
	return result, nil
}

// Execute runs a raw statement and returns the driver-native result.
func (s *sqlStore) Execute(ctx context.Context, stmt string, args ...any) (sql.Result, error) {
	op := func() (sql.Result, error) {
		return s.db.ExecContext(ctx, stmt, args...)
	}
	res, err := withRetry(ctx, s, op)
	if err != nil {
		s.logger.Error("execute failed", "store", s.label, "error", err)
		return nil, err
	}
	return res, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func (s *sqlStore) query(ctx context.Context, query string, args ...any) ([]Row, error) {
	op := func() ([]Row, error) {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return scanRows(rows)
	}
	result, err := withRetry(ctx, s, op)
	if err != nil {
		s.logger.Error("query failed", "store", s.label, "error", err)
		return nil, err
	}
	return result, nil
}

// withRetry routes op through the retry executor when the store carries an
// operation policy, or runs it once otherwise. Each invocation gets its own
// retry state, so concurrent callers never interfere.
func withRetry[T any](ctx context.Context, s *sqlStore, op func() (T, error)) (T, error) {
	if s.retryOps == nil {
		return op()
	}
	return retry(ctx, *s.retryOps, op, nil)
}

// scanRows drains rows into the normalized Row shape. []byte column values
// are converted to string so callers see stable types across drivers.
func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = vals[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
