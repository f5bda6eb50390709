// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package analysis derives note statistics and memoizes them per note
// revision through an owned cache.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/inkwell-labs/inkwell/pkg/cache"
	"github.com/inkwell-labs/inkwell/pkg/notes"
)

// Stats summarizes a note's content.
type Stats struct {
	Words       int      `json:"words"`
	Characters  int      `json:"characters"`
	Lines       int      `json:"lines"`
	Headings    []string `json:"headings,omitempty"`
	LongestWord string   `json:"longest_word,omitempty"`
}

// Compute derives Stats from markdown-ish note content. Deterministic:
// identical content always yields identical stats.
func Compute(content string) Stats {
	s := Stats{Characters: utf8.RuneCountInString(content)}
	if content == "" {
		return s
	}

	s.Lines = strings.Count(content, "\n") + 1

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			s.Headings = append(s.Headings, strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
		}
	}

	for _, word := range strings.Fields(content) {
		s.Words++
		if utf8.RuneCountInString(word) > utf8.RuneCountInString(s.LongestWord) {
			s.LongestWord = word
		}
	}
	return s
}

// Analyzer computes note stats with a per-revision cache. A note's cache
// key includes its updated_at stamp, so edits naturally miss and stale
// revisions age out via the cache TTL and explicit eviction.
type Analyzer struct {
	repo   *notes.Repository
	cache  *cache.Cache
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer over repo. A nil clock uses the system
// clock.
func NewAnalyzer(repo *notes.Repository, size int, ttl time.Duration, clock cache.Clock, logger *slog.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c, err := cache.New(size, ttl, clock)
	if err != nil {
		return nil, fmt.Errorf("create analysis cache: %w", err)
	}
	return &Analyzer{repo: repo, cache: c, logger: logger}, nil
}

// NoteStats returns stats for the note, serving repeat requests for the
// same revision from cache.
func (a *Analyzer) NoteStats(ctx context.Context, noteID string) (*Stats, error) {
	n, err := a.repo.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	key := noteID + "@" + strconv.FormatInt(n.UpdatedAt, 10)
	if v, ok := a.cache.Get(key); ok {
		stats := v.(Stats)
		return &stats, nil
	}

	stats := Compute(n.Content)
	a.cache.Set(key, stats)
	a.logger.Debug("note stats computed", "note", noteID, "words", stats.Words)
	return &stats, nil
}

// EvictStale sweeps expired cache entries and reports how many were
// removed. Callers own the cadence; there is no background timer.
func (a *Analyzer) EvictStale() int {
	return a.cache.Evict()
}
