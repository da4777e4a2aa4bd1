// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package maintenance

import (
	"sync/atomic"
	"time"

	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/metrics"
)

// Lock is the process-wide maintenance write-lock. The scheduler sets
// and clears it; the ingestor reads Held before every frame and /health
// reports HeldSince. Both sides are single machine-word atomics, so the
// ingestor observes changes without any coordination.
type Lock struct {
	held atomic.Bool

	// since is the UnixNano start of the current hold, valid while held.
	since atomic.Int64
}

// NewLock returns an unlocked maintenance lock.
func NewLock() *Lock {
	return &Lock{}
}

// Acquire sets the lock. The reason appears in the log line only.
func (l *Lock) Acquire(reason string) {
	l.since.Store(time.Now().UnixNano())
	l.held.Store(true)
	metrics.SetWriteLock(true)
	logging.Info().Str("component", "maintenance").Str("reason", reason).Msg("Write lock acquired")
}

// Release clears the lock.
func (l *Lock) Release() {
	duration := l.HeldFor()
	l.held.Store(false)
	metrics.SetWriteLock(false)
	logging.Info().Str("component", "maintenance").Dur("held", duration).Msg("Write lock released")
}

// Held reports whether the lock is currently set.
func (l *Lock) Held() bool {
	return l.held.Load()
}

// HeldFor returns how long the current hold has lasted, or zero when
// the lock is free.
func (l *Lock) HeldFor() time.Duration {
	if !l.held.Load() {
		return 0
	}
	return time.Since(time.Unix(0, l.since.Load()))
}
