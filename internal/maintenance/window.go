// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package maintenance

import (
	"context"
	"time"
)

// RunWindow executes the full weekly maintenance sequence under the
// write-lock: retention sweeps, vacuum and analyze of every store, the
// verified backup, then a snapshot refresh so the next stats run sees
// the compacted files. The lock release is deferred; a failed step
// never leaves ingestion suspended.
func (m *Manager) RunWindow(ctx context.Context) error {
	m.lock.Acquire("maintenance window")
	defer m.lock.Release()

	start := time.Now()
	m.log.Info().Msg("Maintenance window started")

	m.RunRetention(ctx)

	for _, store := range m.stores.All() {
		if err := store.Vacuum(ctx); err != nil {
			m.log.Error().Err(err).Str("store", store.Name()).Msg("Vacuum failed; continuing window")
			continue
		}
		if err := store.Analyze(ctx); err != nil {
			m.log.Warn().Err(err).Str("store", store.Name()).Msg("Analyze failed after vacuum")
		}
	}

	if err := m.Backup(ctx); err != nil {
		// The window still refreshes snapshots: the stores themselves are
		// healthy, only the copy failed, and the next window retries.
		m.log.Error().Err(err).Msg("Backup failed during maintenance window")
	}

	if err := m.snapshots.Refresh(ctx); err != nil {
		m.log.Error().Err(err).Msg("Snapshot refresh failed during maintenance window")
	}

	m.log.Info().Dur("duration", time.Since(start)).Msg("Maintenance window finished")
	return nil
}

// RunStartupBackup performs the immediate locked backup triggered when
// no backup has ever been recorded. Skipped when the log exists or the
// operator asked for a fast restart.
func (m *Manager) RunStartupBackup(ctx context.Context, skip bool) error {
	if skip {
		m.log.Info().Msg("Startup maintenance skipped by configuration")
		return nil
	}
	if m.HasBackupLog() {
		return nil
	}

	m.log.Info().Msg("No backup log found; running initial backup")
	m.lock.Acquire("startup backup")
	defer m.lock.Release()
	return m.Backup(ctx)
}

// RunTradeVacuum compacts the trade store under the write-lock. The
// trade file is the only one with significant churn (retention deletes);
// it gets its own weekly slot outside the full window.
func (m *Manager) RunTradeVacuum(ctx context.Context) error {
	m.lock.Acquire("trade vacuum")
	defer m.lock.Release()

	if err := m.stores.Trade.Vacuum(ctx); err != nil {
		return err
	}
	return m.stores.Trade.Analyze(ctx)
}
