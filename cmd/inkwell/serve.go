// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/inkwell-labs/inkwell/pkg/analysis"
	"github.com/inkwell-labs/inkwell/pkg/api"
	"github.com/inkwell-labs/inkwell/pkg/notes"
	"github.com/inkwell-labs/inkwell/pkg/store"
)

const (
	analysisCacheSize = 512
	analysisCacheTTL  = 10 * time.Minute
	cacheSweepEvery   = time.Minute
)

// runServe boots the persistence gateway and serves the HTTP API until
// interrupted. The local store is ready before the listener opens; the
// remote replica, if configured, attaches in the background.
func runServe(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "Listen address (overrides config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: inkwell serve [options]

Description:
  Initialize the local database, start the optional remote replica
  attachment in the background, and serve the Inkwell HTTP API.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  inkwell serve                 Serve on the configured address
  inkwell serve --addr :9090    Override the listen address

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(ExitGeneral)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration with environment variable overrides\n")
		cfg = DefaultConfig()
		cfg.applyEnvOverrides()
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	level := slog.LevelInfo
	if globals.Quiet {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	gw, err := store.Open(cfg.StoreConfig(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open database: %v\n", err)
		os.Exit(ExitDatabase)
	}
	defer func() { _ = gw.Close() }()

	repo := notes.NewRepository(gw.Primary, logger)
	analyzer, err := analysis.NewAnalyzer(repo, analysisCacheSize, analysisCacheTTL, nil, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneral)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The sweep cadence is owned here, not by the cache.
	go func() {
		ticker := time.NewTicker(cacheSweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := analyzer.EvictStale(); n > 0 {
					logger.Debug("evicted stale analysis entries", "count", n)
				}
			}
		}
	}()

	server := api.NewServer(repo, analyzer, gw.Remote(), logger)
	logger.Info("inkwell serving", "addr", cfg.Server.Addr)
	if err := server.Serve(ctx, cfg.Server.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneral)
	}
}
