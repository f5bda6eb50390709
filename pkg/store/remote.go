// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Retry policies for the remote store. Schema setup tolerates a slow or
// waking endpoint; steady-state operations fail faster so request handlers
// are not held hostage by a flapping replica.
var (
	remoteSchemaRetry = RetryPolicy{MaxAttempts: 5, InitialDelay: 500 * time.Millisecond}
	remoteOpRetry     = RetryPolicy{MaxAttempts: 3, InitialDelay: 100 * time.Millisecond}
)

// RemoteConfig describes the managed remote store.
type RemoteConfig struct {
	URL   string
	Token string

	// SetupTimeout is the overall deadline on connect-and-migrate,
	// independent of per-statement retries. Zero means DefaultSetupTimeout.
	SetupTimeout time.Duration

	// Driver overrides the database/sql driver name. Empty means "libsql".
	// Tests use "sqlite3" to stand in a reachable remote without a network.
	Driver string
}

// RemoteFuture is the handle for an in-flight remote connection attempt.
// It resolves exactly once, to either a ready Store or nil (unavailable),
// and is safe to await any number of times from any goroutine; all callers
// observe the same resolved value. A connectivity failure never escapes the
// future as an error: the absence of a remote store is not itself an
// application-level fault.
type RemoteFuture struct {
	done  chan struct{}
	store Store
	err   error
}

// Await blocks until the attempt settles or ctx is done, returning the
// remote Store or nil when it is unavailable (or ctx expired first).
// Awaiting never re-triggers a connection attempt.
func (f *RemoteFuture) Await(ctx context.Context) Store {
	select {
	case <-ctx.Done():
		return nil
	case <-f.done:
		return f.store
	}
}

// Done is closed once the attempt has settled.
func (f *RemoteFuture) Done() <-chan struct{} {
	return f.done
}

// Err reports why the remote store is unavailable, for diagnostics only.
// Valid after Done is closed; nil when the store resolved or was skipped.
func (f *RemoteFuture) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// resolvedFuture returns a future already settled to s.
func resolvedFuture(s Store) *RemoteFuture {
	f := &RemoteFuture{done: make(chan struct{}), store: s}
	close(f.done)
	return f
}

// ConnectRemote starts the remote connection attempt in the background and
// returns its future immediately. The attempt opens the remote handle,
// applies the schema catalog with every statement routed through the retry
// executor, all under the overall setup deadline. Any failure anywhere
// downgrades to a nil resolution; it never disturbs the running local store.
func ConnectRemote(cfg RemoteConfig, logger *slog.Logger) *RemoteFuture {
	if logger == nil {
		logger = slog.Default()
	}
	f := &RemoteFuture{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		s, err := connectRemote(cfg, logger)
		if err != nil {
			logger.Warn("remote store unavailable, continuing on local only", "error", err)
			f.err = err
			return
		}
		logger.Info("remote store ready", "url", cfg.URL)
		f.store = s
	}()

	return f
}

func connectRemote(cfg RemoteConfig, logger *slog.Logger) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "libsql"
	}
	timeout := cfg.SetupTimeout
	if timeout <= 0 {
		timeout = DefaultSetupTimeout
	}

	// Opening the handle is cheap and proves nothing about reachability;
	// the first statement below is where the network is actually exercised.
	db, err := sql.Open(driver, remoteDSN(driver, cfg))
	if err != nil {
		return nil, fmt.Errorf("open remote handle: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	apply := func(ctx context.Context, st Statement) error {
		var ignorable func(error) bool
		if st.Class == ClassColumn {
			ignorable = IsDuplicateColumn
		}
		_, err := retry(ctx, remoteSchemaRetry, func() (struct{}, error) {
			_, execErr := db.ExecContext(ctx, st.SQL)
			return struct{}{}, execErr
		}, ignorable)
		return err
	}
	if err := applyCatalog(ctx, logger, apply); err != nil {
		db.Close()
		return nil, fmt.Errorf("remote schema setup: %w", err)
	}

	policy := remoteOpRetry
	return newSQLStore(db, "remote", logger, &policy), nil
}

// remoteDSN builds the driver DSN, attaching the auth token for libsql
// endpoints. Test drivers receive the URL untouched.
func remoteDSN(driver string, cfg RemoteConfig) string {
	if driver != "libsql" || cfg.Token == "" {
		return cfg.URL
	}
	sep := "?"
	if strings.Contains(cfg.URL, "?") {
		sep = "&"
	}
	return cfg.URL + sep + "authToken=" + cfg.Token
}
