// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package store

import (
	"os"
	"strings"
	"time"
)

// Default locations and deadlines for the persistence gateway.
const (
	DefaultLocalPath    = ".inkwell/inkwell.db"
	DefaultSetupTimeout = 30 * time.Second
)

// Config describes both stores the gateway manages.
type Config struct {
	// LocalPath is the sqlite database file. Empty means DefaultLocalPath.
	LocalPath string

	// RemoteEnabled turns the background remote attachment on. Even when
	// true, the attempt is skipped unless RemoteURL and RemoteToken are
	// both present.
	RemoteEnabled bool
	RemoteURL     string
	RemoteToken   string

	// SetupTimeout is the overall wall-clock ceiling on remote schema
	// setup, independent of per-statement retries. Zero means
	// DefaultSetupTimeout.
	SetupTimeout time.Duration

	// RemoteDriver overrides the remote database/sql driver name.
	// Empty means "libsql". Tests use this to stand in a remote without
	// a network.
	RemoteDriver string
}

// RemoteConfigured reports whether a remote attempt should be made at all.
func (c Config) RemoteConfigured() bool {
	return c.RemoteEnabled && c.RemoteURL != "" && c.RemoteToken != ""
}

// FromEnv builds a Config from environment variables:
//
//	INKWELL_DB_PATH         local database file (optional)
//	INKWELL_REMOTE_ENABLED  1/true/yes/on enables the remote store
//	INKWELL_REMOTE_URL      remote endpoint, e.g. libsql://host
//	INKWELL_REMOTE_TOKEN    remote auth token
func FromEnv() Config {
	return Config{
		LocalPath:     os.Getenv("INKWELL_DB_PATH"),
		RemoteEnabled: ParseBool(os.Getenv("INKWELL_REMOTE_ENABLED")),
		RemoteURL:     os.Getenv("INKWELL_REMOTE_URL"),
		RemoteToken:   os.Getenv("INKWELL_REMOTE_TOKEN"),
	}
}

// ParseBool interprets the recognized truthy spellings; anything else,
// including empty, is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
