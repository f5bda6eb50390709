// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package store is the Inkwell persistence gateway. It brings up the
// application's data stores at process start: a local sqlite database that
// is guaranteed ready before the gateway returns, and an optional managed
// remote replica attached in the background without blocking request
// serving.
//
// # Two backends, one facade
//
// Both backends expose the same four-operation Store interface
// (Get/All/Run/Execute); collaborators depend only on the interface and
// never learn which engine answers them. The local store runs operations
// directly; the remote store routes every operation through a bounded
// retry executor because its transient failures are expected to recur
// during normal operation.
//
// # Quick start
//
//	gw, err := store.Open(store.FromEnv(), logger)
//	if err != nil {
//	    log.Fatal(err) // no degraded mode without a primary store
//	}
//	defer gw.Close()
//
//	// Serve immediately against the primary.
//	row, err := gw.Primary.Get(ctx, `SELECT * FROM notes WHERE id = ?`, id)
//
//	// The remote store is optional and may never arrive.
//	if remote := gw.AwaitRemote(ctx); remote != nil {
//	    _, _ = remote.Run(ctx, `INSERT ...`)
//	}
//
// # Schema
//
// The schema catalog is declared once and applied verbatim by both paths:
// table creation is mandatory, index creation is best-effort, and additive
// column migrations tolerate re-running against a database that already
// carries the column. Applying the catalog twice leaves the schema
// identical to applying it once.
//
// # Failure containment
//
// Everything inside the remote connector is contained: connect failures,
// schema-setup failures, and the overall setup deadline all downgrade to a
// future resolved nil. Everything inside the local bootstrap is surfaced
// and aborts startup.
package store
