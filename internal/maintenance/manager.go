// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package maintenance

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/config"
	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/snapshot"
)

// Manager runs the maintenance tasks: verified backups, retention
// sweeps, vacuum/analyze and the full weekly window. It acquires the
// write-lock itself around anything that rewrites store files; the
// ingestor buffers frames meanwhile.
type Manager struct {
	stores    *database.Stores
	lock      *Lock
	snapshots *snapshot.Manager
	storage   config.StorageConfig
	retention config.RetentionConfig
	log       zerolog.Logger
}

// NewManager creates a maintenance manager over the live stores.
func NewManager(stores *database.Stores, lock *Lock, snapshots *snapshot.Manager,
	storage config.StorageConfig, retention config.RetentionConfig) *Manager {
	return &Manager{
		stores:    stores,
		lock:      lock,
		snapshots: snapshots,
		storage:   storage,
		retention: retention,
		log:       logging.WithComponent("maintenance"),
	}
}

// Lock returns the shared write-lock.
func (m *Manager) Lock() *Lock {
	return m.lock
}

// SnapshotsFresh reports whether every snapshot is inside the freshness
// window.
func (m *Manager) SnapshotsFresh() bool {
	return m.snapshots.AreFresh()
}
