// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
	"time"
)

// RetryPolicy bounds the retry executor: at most MaxAttempts runs of the
// operation, sleeping InitialDelay before the first retry and doubling the
// delay after each one.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

// sleepFn is replaced in tests to observe delays without waiting them out.
type sleepFn func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retry runs op under policy. Transient failures are retried with
// exponential backoff while attempts remain; a failure matching ignorable
// is treated as success with a zero value (never retried, never surfaced);
// every other failure propagates unchanged.
func retry[T any](ctx context.Context, policy RetryPolicy, op func() (T, error), ignorable func(error) bool) (T, error) {
	return retryWithSleep(ctx, policy, op, ignorable, sleepCtx)
}

func retryWithSleep[T any](ctx context.Context, policy RetryPolicy, op func() (T, error), ignorable func(error) bool, sleep sleepFn) (T, error) {
	var zero T

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := policy.InitialDelay

	var err error
	for attempt := 1; ; attempt++ {
		var v T
		v, err = op()
		if err == nil {
			return v, nil
		}
		if ignorable != nil && ignorable(err) {
			return zero, nil
		}
		if !IsTransient(err) || attempt >= attempts {
			return zero, err
		}
		if serr := sleep(ctx, delay); serr != nil {
			return zero, err
		}
		delay *= 2
	}
}

// IsTransient reports whether err looks like a connectivity or timeout
// failure worth retrying, as opposed to a deterministic one (malformed
// statement, constraint violation) that would fail identically on re-run.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	// Drivers that speak HTTP or websockets tend to flatten network
	// failures into opaque strings; recognize the common signatures.
	msg := err.Error()
	for _, sig := range []string{
		"connection refused",
		"connection reset",
		"i/o timeout",
		"no such host",
		"connection timed out",
	} {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
