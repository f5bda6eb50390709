// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/inkwell-labs/inkwell/pkg/notes"
	"github.com/inkwell-labs/inkwell/pkg/store"
)

// StatusResult reports database status for JSON output.
type StatusResult struct {
	LocalPath     string    `json:"local_path"`
	Connected     bool      `json:"connected"`
	Notebooks     int64     `json:"notebooks"`
	Notes         int64     `json:"notes"`
	RemoteEnabled bool      `json:"remote_enabled"`
	Remote        string    `json:"remote"`
	Timestamp     time.Time `json:"timestamp"`
	Error         string    `json:"error,omitempty"`
}

// runStatus opens the gateway and reports on both stores. The remote state
// is whatever the single attachment attempt settles to within its deadline.
func runStatus(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	wait := fs.Bool("wait", false, "Wait for the remote attempt to settle")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: inkwell status [options]

Description:
  Display the state of the local database and, when configured, the
  remote replica.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  inkwell status            Show local status, remote reported as pending
  inkwell status --wait     Also wait for the remote attempt to settle
  inkwell status --json     Output as JSON

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(ExitGeneral)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg = DefaultConfig()
		cfg.applyEnvOverrides()
	}

	result := &StatusResult{
		LocalPath:     cfg.Storage.Path,
		RemoteEnabled: cfg.Remote.Enabled,
		Remote:        "skipped",
		Timestamp:     time.Now(),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw, err := store.Open(cfg.StoreConfig(), logger)
	if err != nil {
		result.Error = fmt.Sprintf("cannot open database: %v", err)
		emitStatus(result, globals)
		os.Exit(ExitDatabase)
	}
	defer func() { _ = gw.Close() }()
	result.Connected = true

	ctx := context.Background()
	repo := notes.NewRepository(gw.Primary, logger)
	if n, err := repo.CountNotes(ctx); err == nil {
		result.Notes = n
	}
	if row, err := gw.Primary.Get(ctx, `SELECT COUNT(*) AS n FROM notebooks`); err == nil && row != nil {
		if n, ok := row["n"].(int64); ok {
			result.Notebooks = n
		}
	}

	if cfg.StoreConfig().RemoteConfigured() {
		result.Remote = "pending"
		if *wait {
			deadline := cfg.StoreConfig().SetupTimeout
			if deadline <= 0 {
				deadline = store.DefaultSetupTimeout
			}
			waitCtx, cancel := context.WithTimeout(ctx, deadline+time.Second)
			if gw.AwaitRemote(waitCtx) != nil {
				result.Remote = "ready"
			} else {
				result.Remote = "unavailable"
			}
			cancel()
		}
	}

	emitStatus(result, globals)
}

func emitStatus(result *StatusResult, globals GlobalFlags) {
	if globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}

	fmt.Println("Inkwell Status")
	fmt.Println()
	fmt.Printf("  Database:  %s\n", result.LocalPath)
	if result.Error != "" {
		fmt.Printf("  Error:     %s\n", result.Error)
		return
	}
	fmt.Printf("  Notebooks: %d\n", result.Notebooks)
	fmt.Printf("  Notes:     %d\n", result.Notes)
	if result.RemoteEnabled {
		fmt.Printf("  Remote:    %s\n", result.Remote)
	} else {
		fmt.Printf("  Remote:    disabled\n")
	}
}
