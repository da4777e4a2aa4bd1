// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"fmt"
)

// ServiceColumns lists the station service-flag columns in schema order.
// Handlers map the upstream StationServices array onto these.
var ServiceColumns = []string{
	"shipyard",
	"outfitting",
	"blackMarket",
	"repair",
	"refuel",
	"restock",
	"contacts",
	"interstellarFactors",
	"materialTrader",
	"missions",
	"searchAndRescue",
	"technologyBroker",
	"tuning",
	"universalCartographics",
	"engineer",
	"frontlineSolutions",
	"apexInterstellar",
	"vistaGenomics",
	"pioneerSupplies",
	"bartender",
	"crewLounge",
}

// UpsertStation writes the record keyed by marketId. Columns absent from
// the record keep their stored values, so an approach event that only
// carries placement never wipes economies or services.
func (s *Store) UpsertStation(ctx context.Context, rec *Record) error {
	return s.Upsert(ctx, "stations", []string{"marketId"}, rec)
}

// StationExists reports whether a row with the given marketId exists.
func (s *Store) StationExists(ctx context.Context, marketID int64) (bool, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM stations WHERE marketId = ?;`, marketID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to probe station %d: %w", marketID, err)
	}
	return count > 0, nil
}

// MarketIDsByType returns the marketIds of stations with the given
// stationType. Used by the fleet-carrier retention sweep.
func (s *Store) MarketIDsByType(ctx context.Context, stationType string) ([]int64, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT marketId FROM stations WHERE stationType = ?;`, stationType)
	if err != nil {
		return nil, fmt.Errorf("failed to query markets by type %q: %w", stationType, err)
	}
	defer rows.Close()
	return scanMarketIDs(rows)
}

// MarketIDsByNamePrefix returns the marketIds of stations whose name
// starts with prefix, case-insensitively. Used by the rescue-ship
// retention sweep.
func (s *Store) MarketIDsByNamePrefix(ctx context.Context, prefix string) ([]int64, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT marketId FROM stations WHERE stationName LIKE ? COLLATE NOCASE;`, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query markets by name prefix %q: %w", prefix, err)
	}
	defer rows.Close()
	return scanMarketIDs(rows)
}

func scanMarketIDs(rows rowScanner) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan marketId: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// rowScanner is the subset of *sql.Rows used by scan helpers.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}
