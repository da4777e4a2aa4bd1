// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package eddn

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/sector"
)

func newTestHandlers(t *testing.T) (*Handlers, *database.Stores) {
	t.Helper()

	stores, err := database.OpenAll(context.Background(), t.TempDir(), false)
	if err != nil {
		t.Fatalf("OpenAll failed: %v", err)
	}
	t.Cleanup(stores.CloseAll)

	return NewHandlers(stores, sector.DefaultGrid()), stores
}

func dispatch(t *testing.T, h *Handlers, schemaRef, message string) {
	t.Helper()
	env := &Envelope{
		SchemaRef: schemaRef,
		Header:    Header{GameVersion: "4.0.0.0", GatewayTimestamp: "2026-01-01T00:00:00Z"},
		Message:   json.RawMessage(message),
	}
	if err := h.Dispatch(context.Background(), env); err != nil {
		t.Fatalf("Dispatch(%s) failed: %v", schemaRef, err)
	}
}

const commodityGoldFrame = `{
	"marketId": 1000,
	"systemName": "Sol",
	"stationName": "Abe",
	"timestamp": "2026-01-01T00:00:00Z",
	"commodities": [
		{"name": "Gold", "buyPrice": 9100, "sellPrice": 10334, "stock": 500, "demand": 0, "meanPrice": 9500}
	]
}`

func TestCommodityHappyPath(t *testing.T) {
	h, stores := newTestHandlers(t)
	ctx := context.Background()

	dispatch(t, h, SchemaCommodity, commodityGoldFrame)

	var count int64
	if err := stores.Trade.Conn().QueryRow(
		`SELECT COUNT(*) FROM commodities WHERE commodityName = 'Gold' AND marketId = 1000;`).
		Scan(&count); err != nil {
		t.Fatalf("failed to query trade: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly one (Gold, 1000) row, got %d", count)
	}

	var stationName string
	if err := stores.Stations.Conn().QueryRow(
		`SELECT stationName FROM stations WHERE marketId = 1000;`).Scan(&stationName); err != nil {
		t.Fatalf("failed to query station: %v", err)
	}
	if stationName != "Abe" {
		t.Errorf("stationName = %q, want Abe", stationName)
	}

	// The commodity schema carries no coordinates, so no systems row is
	// fabricated from the name alone.
	if _, err := stores.Systems.SystemByName(ctx, "Sol"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected no fabricated systems row, got err=%v", err)
	}
}

func TestCommodityReplayIdenticalState(t *testing.T) {
	h, stores := newTestHandlers(t)
	ctx := context.Background()

	dispatch(t, h, SchemaCommodity, commodityGoldFrame)
	first, err := stores.Trade.TradeRowState(ctx, "Gold", 1000)
	if err != nil {
		t.Fatalf("TradeRowState failed: %v", err)
	}

	// Bypassing dedup: dispatching the identical frame again must yield
	// identical row state.
	dispatch(t, h, SchemaCommodity, commodityGoldFrame)
	second, err := stores.Trade.TradeRowState(ctx, "Gold", 1000)
	if err != nil {
		t.Fatalf("TradeRowState failed: %v", err)
	}

	if first != second {
		t.Errorf("replay changed row state: %q != %q", first, second)
	}
}

func TestNavRouteZeroCoordinates(t *testing.T) {
	h, stores := newTestHandlers(t)
	ctx := context.Background()

	dispatch(t, h, SchemaNavRoute, `{
		"timestamp": "2026-01-01T00:00:00Z",
		"Route": [
			{"StarSystem": "X", "SystemAddress": 42, "StarPos": [0, 0, 0]},
			{"StarSystem": "Sol", "SystemAddress": 10477373803, "StarPos": [0, 0, 0]}
		]
	}`)

	if _, err := stores.Systems.SystemByAddress(ctx, 42); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("system X with zero coordinates must not be inserted, got err=%v", err)
	}

	sol, err := stores.Systems.SystemByAddress(ctx, 10477373803)
	if err != nil {
		t.Fatalf("origin system exception not applied: %v", err)
	}
	if sol.Name != "Sol" {
		t.Errorf("systemName = %q, want Sol", sol.Name)
	}
}

func TestDiscoveryScanNeverOverwritesCoordinates(t *testing.T) {
	h, stores := newTestHandlers(t)
	ctx := context.Background()

	dispatch(t, h, SchemaFSSDiscoveryScan, `{
		"SystemName": "HIP 1", "SystemAddress": 7, "StarPos": [1.5, 2.5, 3.5],
		"timestamp": "2026-01-01T00:00:00Z"
	}`)
	dispatch(t, h, SchemaFSSDiscoveryScan, `{
		"SystemName": "HIP 1", "SystemAddress": 7, "StarPos": [9, 9, 9],
		"timestamp": "2026-02-01T00:00:00Z"
	}`)

	sys, err := stores.Systems.SystemByAddress(ctx, 7)
	if err != nil {
		t.Fatalf("SystemByAddress failed: %v", err)
	}
	if sys.X != 1.5 || sys.Y != 2.5 || sys.Z != 3.5 {
		t.Errorf("coordinates overwritten: (%v, %v, %v)", sys.X, sys.Y, sys.Z)
	}
}

func TestApproachSettlementPointOfInterest(t *testing.T) {
	h, stores := newTestHandlers(t)

	dispatch(t, h, SchemaApproachSettlement, `{
		"StarSystem": "HIP 2", "SystemAddress": 11, "StarPos": [10, 20, 30],
		"Name": "Dawes Hub", "BodyID": 4, "BodyName": "HIP 2 A",
		"Latitude": 12.25, "Longitude": -30.5,
		"timestamp": "2026-01-01T00:00:00Z"
	}`)

	wantID := database.LocationID(11, "Dawes Hub", 4, 12.25, -30.5)
	var locationID string
	if err := stores.Locations.Conn().QueryRow(
		`SELECT locationId FROM locations WHERE locationName = 'Dawes Hub';`).Scan(&locationID); err != nil {
		t.Fatalf("failed to query location: %v", err)
	}
	if locationID != wantID {
		t.Errorf("locationId = %q, want content hash %q", locationID, wantID)
	}
}

func TestApproachSettlementExcludedPrefix(t *testing.T) {
	h, stores := newTestHandlers(t)

	dispatch(t, h, SchemaApproachSettlement, `{
		"StarSystem": "HIP 3", "SystemAddress": 12, "StarPos": [1, 2, 3],
		"Name": "Planetary Construction Site: Orbital Thing",
		"BodyID": 1, "Latitude": 0.5, "Longitude": 0.5,
		"timestamp": "2026-01-01T00:00:00Z"
	}`)

	count, err := stores.Locations.RowCount(context.Background(), "locations")
	if err != nil {
		t.Fatalf("RowCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("construction site stored, want discarded")
	}
}

func TestApproachSettlementWithMarketID(t *testing.T) {
	h, stores := newTestHandlers(t)

	dispatch(t, h, SchemaApproachSettlement, `{
		"StarSystem": "HIP 4", "SystemAddress": 13, "StarPos": [4, 5, 6],
		"Name": "Bright Landing", "MarketID": 999, "BodyID": 2, "BodyName": "HIP 4 B",
		"Latitude": 1.5, "Longitude": 2.5,
		"timestamp": "2026-01-01T00:00:00Z"
	}`)

	var bodyName string
	var lat float64
	if err := stores.Stations.Conn().QueryRow(
		`SELECT bodyName, latitude FROM stations WHERE marketId = 999;`).Scan(&bodyName, &lat); err != nil {
		t.Fatalf("failed to query station: %v", err)
	}
	if bodyName != "HIP 4 B" || lat != 1.5 {
		t.Errorf("placement not stored: bodyName=%q lat=%v", bodyName, lat)
	}

	count, err := stores.Locations.RowCount(context.Background(), "locations")
	if err != nil {
		t.Fatalf("RowCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("market settlement also stored as location")
	}
}

func TestJournalDockedWritesStation(t *testing.T) {
	h, stores := newTestHandlers(t)

	dispatch(t, h, SchemaJournal, `{
		"event": "Docked",
		"StarSystem": "HIP 5", "SystemAddress": 14, "StarPos": [7, 8, 9],
		"StationName": "Rescue Ship Cornwallis", "StationType": "MegaShip",
		"MarketID": 555, "DistFromStarLS": 350.5,
		"StationServices": ["dock", "refuel", "repair", "rearm", "shipyard", "blackmarket"],
		"StationEconomies": [{"Name": "$economy_HighTech;", "Proportion": 0.8}, {"Name": "$economy_Refinery;", "Proportion": 0.2}],
		"StationGovernment": "$government_Corporate;",
		"StationAllegiance": "Federation",
		"StationFaction": {"Name": "The Dark Wheel"},
		"LandingPads": {"Small": 4, "Medium": 4, "Large": 2},
		"timestamp": "2026-01-01T00:00:00Z"
	}`)

	var stationType, economy, pad string
	var refuel, restock, outfitting int
	if err := stores.Stations.Conn().QueryRow(`
		SELECT stationType, primaryEconomy, maxLandingPadSize, refuel, restock, outfitting
		FROM stations WHERE marketId = 555;`).
		Scan(&stationType, &economy, &pad, &refuel, &restock, &outfitting); err != nil {
		t.Fatalf("failed to query station: %v", err)
	}
	if stationType != "MegaShip" {
		t.Errorf("stationType = %q", stationType)
	}
	if economy != "economy_HighTech" {
		t.Errorf("primaryEconomy = %q", economy)
	}
	if pad != "L" {
		t.Errorf("maxLandingPadSize = %q, want L", pad)
	}
	if refuel != 1 || restock != 1 {
		t.Errorf("service flags not set: refuel=%d restock=%d", refuel, restock)
	}
	if outfitting != 0 {
		t.Errorf("absent service should be 0, got outfitting=%d", outfitting)
	}
}

func TestJournalCarrierDockingAccessPartialUpdate(t *testing.T) {
	h, stores := newTestHandlers(t)

	dispatch(t, h, SchemaJournal, `{
		"event": "Docked",
		"StarSystem": "HIP 6", "SystemAddress": 15, "StarPos": [1, 1, 1],
		"StationName": "X7F-94B", "StationType": "FleetCarrier", "MarketID": 777,
		"StationEconomies": [{"Name": "$economy_Carrier;", "Proportion": 1}],
		"timestamp": "2026-01-01T00:00:00Z"
	}`)

	// A later Docked carrying only docking access must not wipe the rest.
	dispatch(t, h, SchemaJournal, `{
		"event": "Docked",
		"StarSystem": "HIP 6", "SystemAddress": 15, "StarPos": [1, 1, 1],
		"MarketID": 777,
		"CarrierDockingAccess": "squadronFriends",
		"timestamp": "2026-01-02T00:00:00Z"
	}`)

	var stationType, access, economy string
	if err := stores.Stations.Conn().QueryRow(`
		SELECT stationType, carrierDockingAccess, primaryEconomy
		FROM stations WHERE marketId = 777;`).Scan(&stationType, &access, &economy); err != nil {
		t.Fatalf("failed to query carrier: %v", err)
	}
	if access != "squadronFriends" {
		t.Errorf("carrierDockingAccess = %q", access)
	}
	if stationType != "FleetCarrier" || economy != "economy_Carrier" {
		t.Errorf("partial update wiped fields: type=%q economy=%q", stationType, economy)
	}
}

func TestJournalIgnoresOtherEvents(t *testing.T) {
	h, stores := newTestHandlers(t)

	dispatch(t, h, SchemaJournal, `{
		"event": "FSDJump",
		"StarSystem": "HIP 7", "SystemAddress": 16, "StarPos": [2, 2, 2],
		"timestamp": "2026-01-01T00:00:00Z"
	}`)

	count, err := stores.Systems.RowCount(context.Background(), "systems")
	if err != nil {
		t.Fatalf("RowCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("unhandled journal kind wrote %d rows", count)
	}
}

func TestHandlersNeverDeleteRows(t *testing.T) {
	h, stores := newTestHandlers(t)
	ctx := context.Background()

	dispatch(t, h, SchemaCommodity, commodityGoldFrame)

	// A later snapshot of the same market without Gold keeps the row.
	dispatch(t, h, SchemaCommodity, `{
		"marketId": 1000,
		"systemName": "Sol",
		"stationName": "Abe",
		"timestamp": "2026-01-02T00:00:00Z",
		"commodities": [
			{"name": "Silver", "buyPrice": 4000, "sellPrice": 4400, "stock": 100, "demand": 50, "meanPrice": 4200}
		]
	}`)

	count, err := stores.Trade.RowCount(ctx, "commodities")
	if err != nil {
		t.Fatalf("RowCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 trade rows (Gold retained), got %d", count)
	}
}
