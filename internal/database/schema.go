// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/mercator/internal/logging"
)

// Store file names under the data directory.
const (
	SystemsDB   = "systems.db"
	LocationsDB = "locations.db"
	StationsDB  = "stations.db"
	TradeDB     = "trade.db"
)

// Short store names used in logs, metrics and /health.
const (
	SystemsStore   = "systems"
	LocationsStore = "locations"
	StationsStore  = "stations"
	TradeStore     = "trade"
)

// FleetCarrierType is the stationType value of fleet carriers. Carriers
// are mobile, so several aggregations exclude them.
const FleetCarrierType = "FleetCarrier"

// RequiredTables lists the tables backup verification checks per store.
var RequiredTables = map[string][]string{
	SystemsStore:   {"systems", "schema_migrations"},
	LocationsStore: {"locations", "schema_migrations"},
	StationsStore:  {"stations", "schema_migrations"},
	TradeStore:     {"commodities", "schema_migrations"},
}

// MinBackupSize is the smallest plausible backup file size per store, in
// bytes. A verified copy below this indicates a truncated write.
var MinBackupSize = map[string]int64{
	SystemsStore:   16 * 1024,
	LocationsStore: 16 * 1024,
	StationsStore:  16 * 1024,
	TradeStore:     16 * 1024,
}

const systemsSchema = `
CREATE TABLE IF NOT EXISTS systems (
	systemAddress INTEGER PRIMARY KEY,
	systemName TEXT NOT NULL COLLATE NOCASE,
	systemX REAL NOT NULL,
	systemY REAL NOT NULL,
	systemZ REAL NOT NULL,
	systemSector TEXT NOT NULL,
	updatedAt TEXT NOT NULL
);
`

const locationsSchema = `
CREATE TABLE IF NOT EXISTS locations (
	locationId TEXT PRIMARY KEY,
	locationName TEXT NOT NULL COLLATE NOCASE,
	systemAddress INTEGER NOT NULL,
	systemName TEXT COLLATE NOCASE,
	systemX REAL,
	systemY REAL,
	systemZ REAL,
	bodyId INTEGER,
	bodyName TEXT,
	latitude REAL,
	longitude REAL,
	updatedAt TEXT NOT NULL
);
`

// Base station schema. prohibited and carrierDockingAccess arrived after
// the first deployment and are applied as additive migrations so existing
// files upgrade in place.
const stationsSchema = `
CREATE TABLE IF NOT EXISTS stations (
	marketId INTEGER PRIMARY KEY,
	stationName TEXT COLLATE NOCASE,
	distanceToArrival REAL,
	stationType TEXT,
	allegiance TEXT,
	government TEXT,
	controllingFaction TEXT,
	primaryEconomy TEXT,
	secondaryEconomy TEXT,
	shipyard INTEGER,
	outfitting INTEGER,
	blackMarket INTEGER,
	repair INTEGER,
	refuel INTEGER,
	restock INTEGER,
	contacts INTEGER,
	interstellarFactors INTEGER,
	materialTrader INTEGER,
	missions INTEGER,
	searchAndRescue INTEGER,
	technologyBroker INTEGER,
	tuning INTEGER,
	universalCartographics INTEGER,
	engineer INTEGER,
	frontlineSolutions INTEGER,
	apexInterstellar INTEGER,
	vistaGenomics INTEGER,
	pioneerSupplies INTEGER,
	bartender INTEGER,
	crewLounge INTEGER,
	bodyId INTEGER,
	bodyName TEXT,
	latitude REAL,
	longitude REAL,
	systemAddress INTEGER,
	systemName TEXT COLLATE NOCASE,
	systemX REAL,
	systemY REAL,
	systemZ REAL,
	maxLandingPadSize TEXT,
	updatedAt TEXT
);
`

const tradeSchema = `
CREATE TABLE IF NOT EXISTS commodities (
	commodityName TEXT NOT NULL COLLATE NOCASE,
	marketId INTEGER NOT NULL,
	buyPrice INTEGER,
	sellPrice INTEGER,
	meanPrice INTEGER,
	stock INTEGER,
	demand INTEGER,
	stockBracket INTEGER,
	demandBracket INTEGER,
	updatedAt TEXT NOT NULL,
	updatedAtDay TEXT NOT NULL,
	PRIMARY KEY (commodityName, marketId)
);
`

// index describes one secondary index. Expensive indexes can be skipped
// on first start against very large imported files.
type index struct {
	name      string
	table     string
	columns   string
	expensive bool
}

var storeIndexes = map[string][]index{
	SystemsStore: {
		{name: "systems_name_idx", table: "systems", columns: "systemName COLLATE NOCASE"},
		{name: "systems_sector_idx", table: "systems", columns: "systemSector"},
	},
	LocationsStore: {
		{name: "locations_name_idx", table: "locations", columns: "locationName COLLATE NOCASE"},
		{name: "locations_system_idx", table: "locations", columns: "systemAddress"},
	},
	StationsStore: {
		{name: "stations_name_idx", table: "stations", columns: "stationName COLLATE NOCASE"},
		{name: "stations_system_idx", table: "stations", columns: "systemAddress"},
		{name: "stations_type_idx", table: "stations", columns: "stationType"},
		{name: "stations_updated_idx", table: "stations", columns: "updatedAt", expensive: true},
		{name: "stations_position_idx", table: "stations", columns: "systemX, systemY, systemZ", expensive: true},
	},
	TradeStore: {
		{name: "commodities_market_idx", table: "commodities", columns: "marketId"},
		{name: "commodities_updated_idx", table: "commodities", columns: "updatedAt", expensive: true},
		{name: "commodities_day_idx", table: "commodities", columns: "updatedAtDay", expensive: true},
	},
}

var storeSchemas = map[string]string{
	SystemsStore:   systemsSchema,
	LocationsStore: locationsSchema,
	StationsStore:  stationsSchema,
	TradeStore:     tradeSchema,
}

// InitSchema creates the store's tables, applies pending migrations and
// creates secondary indexes. skipExpensive leaves out the indexes that
// take a long time to build on very large files.
func (s *Store) InitSchema(ctx context.Context, skipExpensive bool) error {
	schema, ok := storeSchemas[s.name]
	if !ok {
		return fmt.Errorf("unknown store %q", s.name)
	}

	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema for %s: %w", s.name, err)
	}

	if err := s.runMigrations(ctx); err != nil {
		return err
	}

	created := 0
	for _, idx := range storeIndexes[s.name] {
		if idx.expensive && skipExpensive {
			continue
		}
		ddl := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s);", idx.name, idx.table, idx.columns)
		if _, err := s.conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create index %s on %s: %w", idx.name, s.name, err)
		}
		created++
	}

	if created > 0 {
		if err := s.Analyze(ctx); err != nil {
			logging.Warn().Err(err).Str("store", s.name).Msg("Failed to analyze after index creation")
		}
	}

	return nil
}
