// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/metrics"
)

// ErrStale is returned by Open when any snapshot is missing or older
// than the freshness window. Callers refresh and retry once.
var ErrStale = errors.New("snapshot: snapshots are stale")

// DefaultFreshness is the maximum snapshot age the stats generators
// accept without a refresh.
const DefaultFreshness = 2 * time.Hour

// Manager maintains point-in-time copies of the live stores under the
// snapshot directory. The analytics generators read exclusively from
// these copies so long scans never contend with the ingest writer.
type Manager struct {
	stores    *database.Stores
	dir       string
	freshness time.Duration
	log       zerolog.Logger
}

// Set bundles read-only handles over the four snapshot files.
type Set struct {
	Systems   *sql.DB
	Locations *sql.DB
	Stations  *sql.DB
	Trade     *sql.DB
}

// NewManager creates a snapshot manager writing under dir.
func NewManager(stores *database.Stores, dir string, freshness time.Duration) *Manager {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &Manager{
		stores:    stores,
		dir:       dir,
		freshness: freshness,
		log:       logging.WithComponent("snapshot"),
	}
}

// Dir returns the snapshot directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Path returns the snapshot file path for a live store.
func (m *Manager) Path(store *database.Store) string {
	return filepath.Join(m.dir, filepath.Base(store.Path()))
}

// Refresh replaces every snapshot with a fresh consistent copy of the
// live store via the engine's online-copy primitive. Stale copies and
// their journal side-files are removed first; VACUUM INTO refuses to
// overwrite an existing destination.
func (m *Manager) Refresh(ctx context.Context) error {
	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create snapshot directory %s: %w", m.dir, err)
	}

	start := time.Now()
	for _, store := range m.stores.All() {
		dest := m.Path(store)
		if err := removeWithSideFiles(dest); err != nil {
			metrics.SnapshotRefreshFailures.Inc()
			return err
		}

		copyStart := time.Now()
		if err := store.VacuumInto(ctx, dest); err != nil {
			metrics.SnapshotRefreshFailures.Inc()
			return fmt.Errorf("failed to refresh snapshot of %s: %w", store.Name(), err)
		}
		m.log.Info().
			Str("store", store.Name()).
			Dur("duration", time.Since(copyStart)).
			Msg("Snapshot refreshed")
	}

	metrics.SnapshotRefreshes.Inc()
	m.log.Info().Dur("duration", time.Since(start)).Msg("All snapshots refreshed")
	return nil
}

// AreFresh reports whether all four snapshots exist with a modification
// time inside the freshness window.
func (m *Manager) AreFresh() bool {
	cutoff := time.Now().Add(-m.freshness)
	for _, store := range m.stores.All() {
		info, err := os.Stat(m.Path(store))
		if err != nil || info.ModTime().Before(cutoff) {
			return false
		}
	}
	return true
}

// Open returns read-only handles over the snapshots, or ErrStale when
// they are missing or past the freshness window. Snapshot files never
// change after a refresh, so the immutable flag lets the engine skip
// all locking.
func (m *Manager) Open(ctx context.Context) (*Set, error) {
	if !m.AreFresh() {
		return nil, ErrStale
	}

	set := &Set{}
	handles := []struct {
		store *database.Store
		dest  **sql.DB
	}{
		{m.stores.Systems, &set.Systems},
		{m.stores.Locations, &set.Locations},
		{m.stores.Stations, &set.Stations},
		{m.stores.Trade, &set.Trade},
	}

	for _, h := range handles {
		conn, err := openReadOnly(ctx, m.Path(h.store))
		if err != nil {
			set.Close()
			return nil, fmt.Errorf("failed to open snapshot of %s: %w", h.store.Name(), err)
		}
		*h.dest = conn
	}
	return set, nil
}

// Close closes every opened handle. Safe on partially opened sets.
func (s *Set) Close() {
	for _, conn := range []*sql.DB{s.Systems, s.Locations, s.Stations, s.Trade} {
		if conn == nil {
			continue
		}
		if err := conn.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close snapshot handle")
		}
	}
}

func openReadOnly(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", "file:"+path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Str("path", path).Msg("Failed to close unreadable snapshot handle")
		}
		return nil, err
	}
	return conn, nil
}

// removeWithSideFiles removes a snapshot file plus any WAL journal
// side-files left by a previous engine version.
func removeWithSideFiles(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale snapshot file %s: %w", p, err)
		}
	}
	return nil
}
