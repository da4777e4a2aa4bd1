// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T, name string) *Store {
	t.Helper()

	store, err := Open(name, filepath.Join(t.TempDir(), name+".db"))
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", name, err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.InitSchema(context.Background(), false); err != nil {
		t.Fatalf("InitSchema(%s) failed: %v", name, err)
	}
	return store
}

func TestOpenAppliesPragmas(t *testing.T) {
	store := openTestStore(t, TradeStore)

	var journalMode string
	if err := store.Conn().QueryRow(`PRAGMA journal_mode;`).Scan(&journalMode); err != nil {
		t.Fatalf("failed to read journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %q, want wal", journalMode)
	}

	var busyTimeout int
	if err := store.Conn().QueryRow(`PRAGMA busy_timeout;`).Scan(&busyTimeout); err != nil {
		t.Fatalf("failed to read busy_timeout: %v", err)
	}
	if busyTimeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", busyTimeout)
	}
}

func TestTradeUpsertUniquePerPair(t *testing.T) {
	store := openTestStore(t, TradeStore)
	ctx := context.Background()

	rec := func(sell int64) *Record {
		return NewRecord(11).
			Set("commodityName", "Gold").
			Set("marketId", int64(1000)).
			Set("buyPrice", int64(9100)).
			Set("sellPrice", sell).
			Set("meanPrice", int64(9500)).
			Set("stock", int64(500)).
			Set("demand", int64(0)).
			Set("stockBracket", int64(2)).
			Set("demandBracket", int64(0)).
			Set("updatedAt", "2026-01-01T00:00:00Z").
			Set("updatedAtDay", "2026-01-01")
	}

	if err := store.UpsertTradeOrder(ctx, rec(10334)); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := store.UpsertTradeOrder(ctx, rec(11000)); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	count, err := store.RowCount(ctx, "commodities")
	if err != nil {
		t.Fatalf("RowCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly one row per (commodity, market), got %d", count)
	}

	var sell int64
	if err := store.Conn().QueryRow(
		`SELECT sellPrice FROM commodities WHERE commodityName = ? AND marketId = ?;`,
		"Gold", 1000).Scan(&sell); err != nil {
		t.Fatalf("failed to read row: %v", err)
	}
	if sell != 11000 {
		t.Errorf("latest write should win: sellPrice = %d, want 11000", sell)
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	store := openTestStore(t, TradeStore)
	ctx := context.Background()

	rec := func() *Record {
		return NewRecord(11).
			Set("commodityName", "Palladium").
			Set("marketId", int64(7)).
			Set("buyPrice", int64(50000)).
			Set("sellPrice", int64(50100)).
			Set("meanPrice", int64(50050)).
			Set("stock", int64(20)).
			Set("demand", int64(3000)).
			Set("stockBracket", int64(1)).
			Set("demandBracket", int64(3)).
			Set("updatedAt", "2026-01-02T12:00:00Z").
			Set("updatedAtDay", "2026-01-02")
	}

	if err := store.UpsertTradeOrder(ctx, rec()); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	first, err := store.TradeRowState(ctx, "Palladium", 7)
	if err != nil {
		t.Fatalf("TradeRowState failed: %v", err)
	}

	if err := store.UpsertTradeOrder(ctx, rec()); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	second, err := store.TradeRowState(ctx, "Palladium", 7)
	if err != nil {
		t.Fatalf("TradeRowState failed: %v", err)
	}

	if first != second {
		t.Errorf("replaying the same record changed row state: %q != %q", first, second)
	}
}

func TestStmtCacheReusesStatements(t *testing.T) {
	store := openTestStore(t, SystemsStore)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		sys := &System{
			Address:   int64(100 + i),
			Name:      "Test System",
			X:         float64(i),
			Y:         1,
			Z:         2,
			Sector:    "abcdef0123456789",
			UpdatedAt: "2026-01-01T00:00:00Z",
		}
		if err := store.InsertSystemIfAbsent(ctx, sys); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}

	if got := store.StmtCacheSize(); got != 1 {
		t.Errorf("expected one cached statement for one shape, got %d", got)
	}
}

func TestInsertSystemIfAbsentKeepsCoordinates(t *testing.T) {
	store := openTestStore(t, SystemsStore)
	ctx := context.Background()

	scanned := &System{
		Address: 42, Name: "HIP 12345",
		X: 12.5, Y: -33.25, Z: 91.0,
		Sector: "00ff00ff00ff00ff", UpdatedAt: "2026-01-01T00:00:00Z",
	}
	if err := store.InsertSystemIfAbsent(ctx, scanned); err != nil {
		t.Fatalf("initial insert failed: %v", err)
	}

	// A route echo without coordinates must not clobber the stored row.
	echo := &System{
		Address: 42, Name: "HIP 12345",
		X: 0, Y: 0, Z: 0,
		Sector: "0000000000000000", UpdatedAt: "2026-02-01T00:00:00Z",
	}
	if err := store.InsertSystemIfAbsent(ctx, echo); err != nil {
		t.Fatalf("echo insert failed: %v", err)
	}

	got, err := store.SystemByAddress(ctx, 42)
	if err != nil {
		t.Fatalf("SystemByAddress failed: %v", err)
	}
	if got.X != 12.5 || got.Y != -33.25 || got.Z != 91.0 {
		t.Errorf("coordinates overwritten: got (%v, %v, %v)", got.X, got.Y, got.Z)
	}
}

func TestSystemByNameCaseInsensitive(t *testing.T) {
	store := openTestStore(t, SystemsStore)
	ctx := context.Background()

	sys := &System{
		Address: 10477373803, Name: "Sol",
		X: 0, Y: 0, Z: 0,
		Sector: "1122334455667788", UpdatedAt: "2026-01-01T00:00:00Z",
	}
	if err := store.InsertSystemIfAbsent(ctx, sys); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	for _, name := range []string{"sol", "SOL", "Sol"} {
		got, err := store.SystemByName(ctx, name)
		if err != nil {
			t.Fatalf("SystemByName(%q) failed: %v", name, err)
		}
		if got.Address != 10477373803 {
			t.Errorf("SystemByName(%q) = address %d, want 10477373803", name, got.Address)
		}
	}
}

func TestPartialStationUpdateKeepsOtherColumns(t *testing.T) {
	store := openTestStore(t, StationsStore)
	ctx := context.Background()

	full := NewRecord(6).
		Set("marketId", int64(1000)).
		Set("stationName", "Abraham Lincoln").
		Set("stationType", "Orbis").
		Set("primaryEconomy", "Service").
		Set("refuel", 1).
		Set("updatedAt", "2026-01-01T00:00:00Z")
	if err := store.UpsertStation(ctx, full); err != nil {
		t.Fatalf("full upsert failed: %v", err)
	}

	// An approach event carrying only placement.
	placement := NewRecord(4).
		Set("marketId", int64(1000)).
		Set("bodyId", int64(3)).
		Set("latitude", 12.0).
		Set("longitude", -45.5)
	if err := store.UpsertStation(ctx, placement); err != nil {
		t.Fatalf("placement upsert failed: %v", err)
	}

	var economy string
	var refuel int
	var bodyID int64
	if err := store.Conn().QueryRow(
		`SELECT primaryEconomy, refuel, bodyId FROM stations WHERE marketId = 1000;`).
		Scan(&economy, &refuel, &bodyID); err != nil {
		t.Fatalf("failed to read station: %v", err)
	}
	if economy != "Service" || refuel != 1 {
		t.Errorf("partial update wiped other columns: economy=%q refuel=%d", economy, refuel)
	}
	if bodyID != 3 {
		t.Errorf("placement not applied: bodyId=%d", bodyID)
	}
}

func TestStationsMigrationsAdditive(t *testing.T) {
	store := openTestStore(t, StationsStore)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected schema version 2 after migrations, got %d", version)
	}

	for _, col := range []string{"prohibited", "carrierDockingAccess"} {
		has, err := store.hasColumn(ctx, "stations", col)
		if err != nil {
			t.Fatalf("hasColumn(%s) failed: %v", col, err)
		}
		if !has {
			t.Errorf("migrated column %s missing", col)
		}
	}

	// Re-running schema init must be a no-op.
	if err := store.InitSchema(ctx, false); err != nil {
		t.Fatalf("second InitSchema failed: %v", err)
	}
	version, err = store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("schema version changed on re-init: %d", version)
	}
}

func TestVacuumIntoProducesConsistentCopy(t *testing.T) {
	store := openTestStore(t, SystemsStore)
	ctx := context.Background()

	sys := &System{
		Address: 1, Name: "Alpha Centauri",
		X: 3.03, Y: -0.09, Z: 3.15,
		Sector: "aabbccddeeff0011", UpdatedAt: "2026-01-01T00:00:00Z",
	}
	if err := store.InsertSystemIfAbsent(ctx, sys); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "copy.db")
	if err := store.VacuumInto(ctx, dest); err != nil {
		t.Fatalf("VacuumInto failed: %v", err)
	}

	copyStore, err := Open("systems-copy", dest)
	if err != nil {
		t.Fatalf("failed to open copy: %v", err)
	}
	defer copyStore.Close()

	count, err := copyStore.RowCount(ctx, "systems")
	if err != nil {
		t.Fatalf("RowCount on copy failed: %v", err)
	}
	if count != 1 {
		t.Errorf("copy has %d rows, want 1", count)
	}
}

func TestDeleteTradeOlderThan(t *testing.T) {
	store := openTestStore(t, TradeStore)
	ctx := context.Background()

	insert := func(commodity, updatedAt string) {
		rec := NewRecord(11).
			Set("commodityName", commodity).
			Set("marketId", int64(1)).
			Set("buyPrice", int64(100)).
			Set("sellPrice", int64(110)).
			Set("meanPrice", int64(105)).
			Set("stock", int64(10)).
			Set("demand", int64(10)).
			Set("stockBracket", int64(1)).
			Set("demandBracket", int64(1)).
			Set("updatedAt", updatedAt).
			Set("updatedAtDay", updatedAt[:10])
		if err := store.UpsertTradeOrder(ctx, rec); err != nil {
			t.Fatalf("insert %s failed: %v", commodity, err)
		}
	}

	insert("Old", "2025-01-01T00:00:00Z")
	insert("Fresh", "2026-06-01T00:00:00Z")

	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	deleted, err := store.DeleteTradeOlderThan(ctx, cutoff)
	if err != nil {
		t.Fatalf("DeleteTradeOlderThan failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted %d rows, want 1", deleted)
	}

	count, err := store.RowCount(ctx, "commodities")
	if err != nil {
		t.Fatalf("RowCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("%d rows remain, want 1", count)
	}
}

func TestIntegrityCheckHealthyStore(t *testing.T) {
	store := openTestStore(t, LocationsStore)

	if err := store.IntegrityCheck(context.Background()); err != nil {
		t.Fatalf("IntegrityCheck on healthy store failed: %v", err)
	}
	if store.Degraded() {
		t.Error("healthy store marked degraded")
	}
}
