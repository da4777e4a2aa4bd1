// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/snapshot"
)

// DatabaseTotals is the combined totals report (database-stats.json).
type DatabaseTotals struct {
	Systems          int64 `json:"systems"`
	PointsOfInterest int64 `json:"pointsOfInterest"`

	// Stations splits the stations store by fleet-carrier type.
	Stations      int64 `json:"stations"`
	FleetCarriers int64 `json:"fleetCarriers"`

	StationsUpdated24h int64 `json:"stationsUpdatedLast24h"`

	TradeOrders      int64 `json:"tradeOrders"`
	Commodities      int64 `json:"commodities"`
	Markets          int64 `json:"markets"`
	TradeUpdated24h  int64 `json:"tradeOrdersUpdatedLast24h"`
	TotalUpdated24h  int64 `json:"updatesLast24h"`
}

// collectTotals runs one aggregate query per snapshot and combines the
// results. The 24h windows are UTC, rendered RFC3339 so string
// comparison against stored timestamps orders correctly.
func collectTotals(ctx context.Context, set *snapshot.Set, now time.Time) (*DatabaseTotals, error) {
	cutoff := now.UTC().Add(-24 * time.Hour).Format(time.RFC3339)
	totals := &DatabaseTotals{}

	if err := set.Systems.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM systems;`).Scan(&totals.Systems); err != nil {
		return nil, fmt.Errorf("failed to count systems: %w", err)
	}

	if err := set.Locations.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM locations;`).Scan(&totals.PointsOfInterest); err != nil {
		return nil, fmt.Errorf("failed to count locations: %w", err)
	}

	if err := set.Stations.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN stationType IS NULL OR stationType != ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN stationType = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN updatedAt > ? THEN 1 ELSE 0 END), 0)
		FROM stations;`,
		database.FleetCarrierType, database.FleetCarrierType, cutoff).
		Scan(&totals.Stations, &totals.FleetCarriers, &totals.StationsUpdated24h); err != nil {
		return nil, fmt.Errorf("failed to aggregate stations: %w", err)
	}

	if err := set.Trade.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT commodityName),
			COUNT(DISTINCT marketId),
			COALESCE(SUM(CASE WHEN updatedAt > ? THEN 1 ELSE 0 END), 0)
		FROM commodities;`, cutoff).
		Scan(&totals.TradeOrders, &totals.Commodities, &totals.Markets, &totals.TradeUpdated24h); err != nil {
		return nil, fmt.Errorf("failed to aggregate trade orders: %w", err)
	}

	totals.TotalUpdated24h = totals.StationsUpdated24h + totals.TradeUpdated24h
	return totals, nil
}
