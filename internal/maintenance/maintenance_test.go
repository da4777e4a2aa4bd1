// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package maintenance

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/mercator/internal/config"
	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/snapshot"
)

func newTestManager(t *testing.T, retention config.RetentionConfig) (*Manager, *database.Stores) {
	t.Helper()

	root := t.TempDir()
	stores, err := database.OpenAll(context.Background(), root, false)
	if err != nil {
		t.Fatalf("OpenAll failed: %v", err)
	}
	t.Cleanup(stores.CloseAll)

	storage := config.StorageConfig{
		DataDir:   root,
		BackupDir: filepath.Join(root, "backup"),
	}
	snapshots := snapshot.NewManager(stores, storage.SnapshotDir(), time.Hour)

	return NewManager(stores, NewLock(), snapshots, storage, retention), stores
}

func seedTradeRow(t *testing.T, stores *database.Stores, commodity string, marketID int64, updatedAt string) {
	t.Helper()
	rec := database.NewRecord(8).
		Set("commodityName", commodity).
		Set("marketId", marketID).
		Set("buyPrice", 100).
		Set("sellPrice", 200).
		Set("meanPrice", 150).
		Set("stock", 10).
		Set("demand", 10).
		Set("updatedAt", updatedAt).
		Set("updatedAtDay", updatedAt[:10])
	if err := stores.Trade.UpsertTradeOrder(context.Background(), rec); err != nil {
		t.Fatalf("failed to seed trade row: %v", err)
	}
}

func seedStationRow(t *testing.T, stores *database.Stores, marketID int64, name, stationType string) {
	t.Helper()
	rec := database.NewRecord(4).
		Set("marketId", marketID).
		Set("stationName", name).
		Set("stationType", stationType).
		Set("updatedAt", "2026-01-01T00:00:00Z")
	if err := stores.Stations.UpsertStation(context.Background(), rec); err != nil {
		t.Fatalf("failed to seed station: %v", err)
	}
}

func TestLockLifecycle(t *testing.T) {
	lock := NewLock()

	if lock.Held() {
		t.Fatal("new lock reports held")
	}
	if lock.HeldFor() != 0 {
		t.Errorf("HeldFor() = %v on free lock", lock.HeldFor())
	}

	lock.Acquire("test")
	if !lock.Held() {
		t.Fatal("lock not held after Acquire")
	}
	if lock.HeldFor() < 0 {
		t.Errorf("HeldFor() negative: %v", lock.HeldFor())
	}

	lock.Release()
	if lock.Held() {
		t.Fatal("lock held after Release")
	}
}

func TestBackupProducesVerifiedCopies(t *testing.T) {
	m, stores := newTestManager(t, config.RetentionConfig{})
	ctx := context.Background()

	seedTradeRow(t, stores, "Gold", 1, "2026-01-01T00:00:00Z")

	if err := m.Backup(ctx); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}

	for _, store := range stores.All() {
		copyPath := filepath.Join(m.storage.BackupDir, filepath.Base(store.Path()))
		info, err := os.Stat(copyPath)
		if err != nil {
			t.Errorf("backup of %s missing: %v", store.Name(), err)
			continue
		}
		if min := database.MinBackupSize[store.Name()]; info.Size() < min {
			t.Errorf("backup of %s is %d bytes, below minimum %d", store.Name(), info.Size(), min)
		}
	}

	logData, err := os.ReadFile(m.storage.BackupLogPath())
	if err != nil {
		t.Fatalf("backup.log missing: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(logData)), "\n")
	if len(lines) != 4 {
		t.Errorf("backup.log has %d lines, want 4", len(lines))
	}
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 5 || fields[2] != "ok" {
			t.Errorf("unexpected backup.log line: %q", line)
		}
	}

	report, err := ReadBackupReport(m.storage.BackupReportPath())
	if err != nil {
		t.Fatalf("failed to read backup report: %v", err)
	}
	if !report.Success || len(report.Stores) != 4 {
		t.Errorf("report = %+v", report)
	}
	if report.RunID == "" {
		t.Error("report has no run id")
	}
}

func TestStartupBackupOnlyWhenLogMissing(t *testing.T) {
	m, _ := newTestManager(t, config.RetentionConfig{})
	ctx := context.Background()

	if m.HasBackupLog() {
		t.Fatal("fresh manager reports a backup log")
	}

	if err := m.RunStartupBackup(ctx, false); err != nil {
		t.Fatalf("startup backup failed: %v", err)
	}
	if !m.HasBackupLog() {
		t.Fatal("backup log missing after startup backup")
	}
	if m.lock.Held() {
		t.Fatal("write lock still held after startup backup")
	}

	// A second start with the log present does nothing.
	before, err := os.ReadFile(m.storage.BackupLogPath())
	if err != nil {
		t.Fatalf("failed to read backup log: %v", err)
	}
	if err := m.RunStartupBackup(ctx, false); err != nil {
		t.Fatalf("second startup backup failed: %v", err)
	}
	after, err := os.ReadFile(m.storage.BackupLogPath())
	if err != nil {
		t.Fatalf("failed to re-read backup log: %v", err)
	}
	if string(before) != string(after) {
		t.Error("startup backup ran again despite existing log")
	}
}

func TestStartupBackupSkipFlag(t *testing.T) {
	m, _ := newTestManager(t, config.RetentionConfig{})

	if err := m.RunStartupBackup(context.Background(), true); err != nil {
		t.Fatalf("skipped startup backup returned error: %v", err)
	}
	if m.HasBackupLog() {
		t.Error("backup ran despite skip flag")
	}
}

func TestRetentionSweeps(t *testing.T) {
	m, stores := newTestManager(t, config.RetentionConfig{
		TradeDays:        90,
		RescueShipDays:   7,
		FleetCarrierDays: 90,
	})
	ctx := context.Background()

	now := time.Now().UTC()
	fresh := now.Add(-24 * time.Hour).Format(time.RFC3339)
	staleWeek := now.AddDate(0, 0, -10).Format(time.RFC3339)
	ancient := now.AddDate(0, 0, -100).Format(time.RFC3339)

	seedStationRow(t, stores, 1, "Abraham Lincoln", "Orbis")
	seedStationRow(t, stores, 2, "Rescue Ship Cornwallis", "MegaShip")
	seedStationRow(t, stores, 3, "X7F-94B", "FleetCarrier")

	seedTradeRow(t, stores, "Gold", 1, fresh)       // kept
	seedTradeRow(t, stores, "Silver", 1, ancient)   // trade sweep
	seedTradeRow(t, stores, "Gold", 2, staleWeek)   // rescue sweep (10d > 7d)
	seedTradeRow(t, stores, "Silver", 2, fresh)     // kept: rescue but fresh
	seedTradeRow(t, stores, "Gold", 3, ancient)     // carrier sweep
	seedTradeRow(t, stores, "Silver", 3, staleWeek) // kept: carrier horizon is 90d

	m.RunRetention(ctx)

	count, err := stores.Trade.RowCount(ctx, "commodities")
	if err != nil {
		t.Fatalf("RowCount failed: %v", err)
	}
	if count != 3 {
		t.Errorf("got %d rows after sweeps, want 3", count)
	}

	for _, gone := range []struct {
		commodity string
		marketID  int64
	}{{"Silver", 1}, {"Gold", 2}, {"Gold", 3}} {
		if _, err := stores.Trade.TradeRowState(ctx, gone.commodity, gone.marketID); err == nil {
			t.Errorf("row (%s, %d) survived its sweep", gone.commodity, gone.marketID)
		}
	}
}

func TestRunWindowReleasesLock(t *testing.T) {
	m, stores := newTestManager(t, config.RetentionConfig{TradeDays: 90})
	ctx := context.Background()

	seedTradeRow(t, stores, "Gold", 1, "2026-01-01T00:00:00Z")

	if err := m.RunWindow(ctx); err != nil {
		t.Fatalf("RunWindow failed: %v", err)
	}
	if m.lock.Held() {
		t.Fatal("write lock still held after window")
	}
	if !m.SnapshotsFresh() {
		t.Error("snapshots not refreshed by window")
	}
	if !m.HasBackupLog() {
		t.Error("no backup recorded by window")
	}
}

func TestRunTradeVacuumReleasesLock(t *testing.T) {
	m, stores := newTestManager(t, config.RetentionConfig{})
	ctx := context.Background()

	seedTradeRow(t, stores, "Gold", 1, "2026-01-01T00:00:00Z")

	if err := m.RunTradeVacuum(ctx); err != nil {
		t.Fatalf("RunTradeVacuum failed: %v", err)
	}
	if m.lock.Held() {
		t.Fatal("write lock still held after trade vacuum")
	}
}

func TestNextWeekly(t *testing.T) {
	// 2026-01-08 is a Thursday.
	thursdayNoon := time.Date(2026, 1, 8, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		day  time.Weekday
		hour int
		want time.Time
	}{
		{
			"later this week",
			thursdayNoon, time.Sunday, 3,
			time.Date(2026, 1, 11, 3, 0, 0, 0, time.UTC),
		},
		{
			"earlier today rolls a week",
			thursdayNoon, time.Thursday, 7,
			time.Date(2026, 1, 15, 7, 0, 0, 0, time.UTC),
		},
		{
			"later today",
			thursdayNoon, time.Thursday, 15,
			time.Date(2026, 1, 8, 15, 0, 0, 0, time.UTC),
		},
		{
			"exactly now rolls a week",
			time.Date(2026, 1, 8, 7, 0, 0, 0, time.UTC), time.Thursday, 7,
			time.Date(2026, 1, 15, 7, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextWeekly(tt.now, tt.day, tt.hour); !got.Equal(tt.want) {
				t.Errorf("nextWeekly(%v, %v, %d) = %v, want %v", tt.now, tt.day, tt.hour, got, tt.want)
			}
		})
	}
}
