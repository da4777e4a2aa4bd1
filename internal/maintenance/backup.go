// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package maintenance

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/metrics"
)

// BackupReport is the latest verification report (backup.json).
type BackupReport struct {
	RunID     string              `json:"runId"`
	StartedAt string              `json:"startedAt"`
	Duration  string              `json:"duration"`
	Success   bool                `json:"success"`
	Stores    []StoreBackupResult `json:"stores"`
}

// StoreBackupResult is one store's outcome within a backup run.
type StoreBackupResult struct {
	Store    string `json:"store"`
	Path     string `json:"path"`
	Size     int64  `json:"sizeBytes"`
	Duration string `json:"duration"`
	Verified bool   `json:"verified"`
	Error    string `json:"error,omitempty"`
}

// Backup copies every store into the backup directory and verifies each
// copy. Callers hold the write-lock. Every attempt appends a line to
// backup.log; the full report replaces backup.json. A failed store does
// not stop the remaining stores, but the run reports failure.
func (m *Manager) Backup(ctx context.Context) error {
	if err := os.MkdirAll(m.storage.BackupDir, 0o750); err != nil {
		return fmt.Errorf("failed to create backup directory %s: %w", m.storage.BackupDir, err)
	}

	start := time.Now()
	report := BackupReport{
		RunID:     uuid.NewString(),
		StartedAt: start.UTC().Format(time.RFC3339),
		Success:   true,
	}

	for _, store := range m.stores.All() {
		result := m.backupStore(ctx, store)
		report.Stores = append(report.Stores, result)
		if !result.Verified {
			report.Success = false
			metrics.BackupFailures.WithLabelValues(store.Name()).Inc()
		}
		m.appendBackupLog(store.Name(), result)
	}

	report.Duration = time.Since(start).Round(time.Millisecond).String()
	metrics.BackupsTotal.Inc()
	metrics.BackupDuration.Observe(time.Since(start).Seconds())

	if err := m.writeBackupReport(&report); err != nil {
		return err
	}

	if !report.Success {
		return fmt.Errorf("backup run %s finished with failures", report.RunID)
	}
	m.log.Info().
		Str("run_id", report.RunID).
		Str("duration", report.Duration).
		Msg("Backup completed and verified")
	return nil
}

// backupStore copies one store and verifies the copy. Disk-space and
// verification failures are captured in the result, never panicking the
// run.
func (m *Manager) backupStore(ctx context.Context, store *database.Store) StoreBackupResult {
	start := time.Now()
	dest := filepath.Join(m.storage.BackupDir, filepath.Base(store.Path()))
	result := StoreBackupResult{Store: store.Name(), Path: dest}

	fail := func(err error) StoreBackupResult {
		result.Error = err.Error()
		result.Duration = time.Since(start).Round(time.Millisecond).String()
		m.log.Error().Err(err).Str("store", store.Name()).Msg("Store backup failed")
		return result
	}

	for _, p := range []string{dest, dest + "-wal", dest + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fail(fmt.Errorf("failed to remove previous backup %s: %w", p, err))
		}
	}

	if err := store.Checkpoint(ctx); err != nil {
		return fail(err)
	}
	if err := store.VacuumInto(ctx, dest); err != nil {
		return fail(err)
	}

	size, err := m.verifyBackup(ctx, store.Name(), dest)
	if err != nil {
		return fail(err)
	}

	result.Size = size
	result.Verified = true
	result.Duration = time.Since(start).Round(time.Millisecond).String()
	m.log.Info().
		Str("store", store.Name()).
		Int64("size", size).
		Str("duration", result.Duration).
		Msg("Store backed up")
	return result
}

// verifyBackup opens the copy read-only and checks it is structurally
// sound: integrity check passes, every required table exists, and the
// file is at least the per-store minimum size.
func (m *Manager) verifyBackup(ctx context.Context, storeName, path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat backup %s: %w", path, err)
	}
	if min := database.MinBackupSize[storeName]; info.Size() < min {
		return 0, fmt.Errorf("backup of %s is %d bytes, below the %d byte minimum", storeName, info.Size(), min)
	}

	conn, err := sql.Open("sqlite", "file:"+path+"?mode=ro&immutable=1")
	if err != nil {
		return 0, fmt.Errorf("failed to open backup of %s: %w", storeName, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			m.log.Warn().Err(err).Str("store", storeName).Msg("Failed to close backup verification handle")
		}
	}()

	var integrity string
	if err := conn.QueryRowContext(ctx, `PRAGMA integrity_check;`).Scan(&integrity); err != nil {
		return 0, fmt.Errorf("failed to check backup of %s: %w", storeName, err)
	}
	if integrity != "ok" {
		return 0, fmt.Errorf("backup of %s failed integrity check: %s", storeName, integrity)
	}

	for _, table := range database.RequiredTables[storeName] {
		var count int
		err := conn.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?;`,
			table).Scan(&count)
		if err != nil {
			return 0, fmt.Errorf("failed to probe table %s in backup of %s: %w", table, storeName, err)
		}
		if count == 0 {
			return 0, fmt.Errorf("backup of %s is missing table %s", storeName, table)
		}
	}

	return info.Size(), nil
}

// appendBackupLog appends one attempt line to backup.log:
// <RFC3339> <db> <ok|failed> <size> <duration>. The log is append-only;
// its absence at startup is what triggers the initial backup.
func (m *Manager) appendBackupLog(storeName string, result StoreBackupResult) {
	status := "ok"
	if !result.Verified {
		status = "failed"
	}
	line := fmt.Sprintf("%s %s %s %d %s\n",
		time.Now().UTC().Format(time.RFC3339), storeName, status, result.Size, result.Duration)

	f, err := os.OpenFile(m.storage.BackupLogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		m.log.Warn().Err(err).Msg("Failed to open backup log")
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			m.log.Warn().Err(err).Msg("Failed to close backup log")
		}
	}()

	if _, err := f.WriteString(line); err != nil {
		m.log.Warn().Err(err).Msg("Failed to append to backup log")
	}
}

func (m *Manager) writeBackupReport(report *BackupReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup report: %w", err)
	}
	if err := os.WriteFile(m.storage.BackupReportPath(), append(data, '\n'), 0o640); err != nil {
		return fmt.Errorf("failed to write backup report: %w", err)
	}
	return nil
}

// HasBackupLog reports whether any backup has ever been attempted.
func (m *Manager) HasBackupLog() bool {
	_, err := os.Stat(m.storage.BackupLogPath())
	return err == nil
}

// ReadBackupReport loads the latest verification report, if present.
func ReadBackupReport(path string) (*BackupReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup report: %w", err)
	}
	var report BackupReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode backup report: %w", err)
	}
	return &report, nil
}
