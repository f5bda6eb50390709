// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"log/slog"
)

// Gateway owns both store handles for the life of the process. The local
// store is fully initialized before Open returns; the remote store, when
// configured, is attached in the background and observed only through its
// future. There are exactly two lifecycle states, "local ready, remote
// pending" and "local ready, remote settled", and no transition backward:
// once the single remote attempt settles there is no reconnect loop.
type Gateway struct {
	// Primary is the local store, ready on construction. It is the one
	// sanctioned query surface for request handlers.
	Primary Store

	remote *RemoteFuture
}

// Open bootstraps the local store synchronously and, if a remote store is
// configured, kicks off its background attachment. No code path returns
// without a ready local store; a local failure aborts startup.
func Open(cfg Config, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	primary, err := OpenLocal(cfg.LocalPath, logger)
	if err != nil {
		return nil, err
	}

	var remote *RemoteFuture
	if cfg.RemoteConfigured() {
		remote = ConnectRemote(RemoteConfig{
			URL:          cfg.RemoteURL,
			Token:        cfg.RemoteToken,
			SetupTimeout: cfg.SetupTimeout,
			Driver:       cfg.RemoteDriver,
		}, logger)
	} else {
		logger.Debug("remote store not configured, skipping")
		remote = resolvedFuture(nil)
	}

	return &Gateway{Primary: primary, remote: remote}, nil
}

// AwaitRemote blocks until the remote attempt settles or ctx is done, and
// returns the remote store or nil when unavailable. The future is memoized:
// calling this any number of times never re-triggers a connection attempt.
func (g *Gateway) AwaitRemote(ctx context.Context) Store {
	return g.remote.Await(ctx)
}

// Remote returns the remote future for callers that want to observe
// settlement without blocking.
func (g *Gateway) Remote() *RemoteFuture {
	return g.remote
}

// Close releases the primary store and, when the remote attempt has already
// settled to a handle, that handle too. A still-pending remote attempt is
// left to resolve and be collected with the process; there is no drain
// sequence.
func (g *Gateway) Close() error {
	select {
	case <-g.remote.done:
		if g.remote.store != nil {
			_ = g.remote.store.Close()
		}
	default:
	}
	return g.Primary.Close()
}
