// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/database/query"
	"github.com/tomtom215/mercator/internal/snapshot"
)

const regionalListLimit = 10

// errReferenceSystemMissing marks a region whose reference system has
// not been observed yet; the report is skipped, never fabricated.
var errReferenceSystemMissing = errors.New("stats: reference system not in systems store")

// RegionalReport is one commodity's exporter/importer ranking around a
// reference system.
type RegionalReport struct {
	Commodity     string          `json:"commodity"`
	Region        string          `json:"region"`
	Reference     string          `json:"referenceSystem"`
	RadiusLY      float64         `json:"radiusLy"`
	MinVolume     int             `json:"minVolume"`
	BestExporters []RegionalEntry `json:"bestExporters"`
	BestImporters []RegionalEntry `json:"bestImporters"`

	// MaxPriceDelta is the spread between the best importer and the
	// best exporter; present only when both lists are non-empty.
	MaxPriceDelta *int64 `json:"maxPriceDelta,omitempty"`
}

// RegionalEntry is one market in a regional ranking.
type RegionalEntry struct {
	MarketID   int64   `json:"marketId"`
	Station    string  `json:"station"`
	System     string  `json:"system"`
	DistanceLY float64 `json:"distanceLy"`
	Price      int64   `json:"price"`
	Volume     int64   `json:"volume"`
}

// regionalMarket is a station that survived the exact distance check.
type regionalMarket struct {
	station  string
	system   string
	distance float64
}

// regionalOffer is one trade row at a qualifying market.
type regionalOffer struct {
	marketID  int64
	buyPrice  int64
	sellPrice int64
	stock     int64
	demand    int64
}

// collectRegionalReports builds per-commodity reports for one region.
// Stations are pre-filtered with a coordinate bounding box in SQL, then
// reduced by exact Euclidean distance; the trade snapshot is scanned
// once and joined against that market set in Go.
func collectRegionalReports(ctx context.Context, set *snapshot.Set,
	region, referenceSystem string, radiusLY float64, minVolume int) (map[string]*RegionalReport, error) {

	ref, err := referenceCoordinates(ctx, set, referenceSystem)
	if err != nil {
		return nil, err
	}

	markets, err := regionalMarkets(ctx, set, ref, radiusLY)
	if err != nil {
		return nil, err
	}
	if len(markets) == 0 {
		return map[string]*RegionalReport{}, nil
	}

	offers, err := regionalOffers(ctx, set, markets)
	if err != nil {
		return nil, err
	}

	reports := make(map[string]*RegionalReport, len(offers))
	for commodity, list := range offers {
		reports[commodity] = buildRegionalReport(
			commodity, region, referenceSystem, radiusLY, minVolume, list, markets)
	}
	return reports, nil
}

func referenceCoordinates(ctx context.Context, set *snapshot.Set, name string) (*database.System, error) {
	row := set.Systems.QueryRowContext(ctx, `
		SELECT systemAddress, systemName, systemX, systemY, systemZ, systemSector, updatedAt
		FROM systems WHERE systemName = ? COLLATE NOCASE LIMIT 1;`, name)

	var sys database.System
	err := row.Scan(&sys.Address, &sys.Name, &sys.X, &sys.Y, &sys.Z, &sys.Sector, &sys.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", errReferenceSystemMissing, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reference system %s: %w", name, err)
	}
	return &sys, nil
}

func regionalMarkets(ctx context.Context, set *snapshot.Set,
	ref *database.System, radiusLY float64) (map[int64]regionalMarket, error) {

	wb := query.NewWhereBuilder()
	wb.AddBoundingBox(ref.X, ref.Y, ref.Z, radiusLY)
	wb.AddExcludeStationType(database.FleetCarrierType)
	where, args := wb.Build()

	rows, err := set.Stations.QueryContext(ctx, fmt.Sprintf(`
		SELECT marketId, stationName, systemName, systemX, systemY, systemZ
		FROM stations
		WHERE %s AND marketId != 0;`, where), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query regional stations: %w", err)
	}
	defer closeRows(rows)

	markets := make(map[int64]regionalMarket)
	for rows.Next() {
		var (
			marketID        int64
			station, system string
			x, y, z         float64
		)
		if err := rows.Scan(&marketID, &station, &system, &x, &y, &z); err != nil {
			return nil, fmt.Errorf("failed to scan regional station: %w", err)
		}

		// The box over-includes the corners; keep the sphere only.
		dx, dy, dz := x-ref.X, y-ref.Y, z-ref.Z
		dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if dist > radiusLY {
			continue
		}
		markets[marketID] = regionalMarket{station: station, system: system, distance: dist}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate regional stations: %w", err)
	}
	return markets, nil
}

func regionalOffers(ctx context.Context, set *snapshot.Set,
	markets map[int64]regionalMarket) (map[string][]regionalOffer, error) {

	rows, err := set.Trade.QueryContext(ctx, `
		SELECT commodityName, marketId, buyPrice, sellPrice, stock, demand
		FROM commodities;`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan trade snapshot: %w", err)
	}
	defer closeRows(rows)

	offers := make(map[string][]regionalOffer)
	for rows.Next() {
		var (
			commodity string
			offer     regionalOffer
		)
		if err := rows.Scan(&commodity, &offer.marketID,
			&offer.buyPrice, &offer.sellPrice, &offer.stock, &offer.demand); err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		if _, ok := markets[offer.marketID]; !ok {
			continue
		}
		offers[commodity] = append(offers[commodity], offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trade snapshot: %w", err)
	}
	return offers, nil
}

func buildRegionalReport(commodity, region, reference string,
	radiusLY float64, minVolume int,
	offers []regionalOffer, markets map[int64]regionalMarket) *RegionalReport {

	report := &RegionalReport{
		Commodity:     commodity,
		Region:        region,
		Reference:     reference,
		RadiusLY:      radiusLY,
		MinVolume:     minVolume,
		BestExporters: []RegionalEntry{},
		BestImporters: []RegionalEntry{},
	}

	for _, offer := range offers {
		market := markets[offer.marketID]
		if validPrice(offer.buyPrice) && offer.stock >= int64(minVolume) {
			report.BestExporters = append(report.BestExporters, RegionalEntry{
				MarketID:   offer.marketID,
				Station:    market.station,
				System:     market.system,
				DistanceLY: roundDistance(market.distance),
				Price:      offer.buyPrice,
				Volume:     offer.stock,
			})
		}
		if validPrice(offer.sellPrice) && offer.demand >= int64(minVolume) {
			report.BestImporters = append(report.BestImporters, RegionalEntry{
				MarketID:   offer.marketID,
				Station:    market.station,
				System:     market.system,
				DistanceLY: roundDistance(market.distance),
				Price:      offer.sellPrice,
				Volume:     offer.demand,
			})
		}
	}

	sort.Slice(report.BestExporters, func(i, j int) bool {
		a, b := report.BestExporters[i], report.BestExporters[j]
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.MarketID < b.MarketID
	})
	sort.Slice(report.BestImporters, func(i, j int) bool {
		a, b := report.BestImporters[i], report.BestImporters[j]
		if a.Price != b.Price {
			return a.Price > b.Price
		}
		return a.MarketID < b.MarketID
	})

	if len(report.BestExporters) > regionalListLimit {
		report.BestExporters = report.BestExporters[:regionalListLimit]
	}
	if len(report.BestImporters) > regionalListLimit {
		report.BestImporters = report.BestImporters[:regionalListLimit]
	}

	if len(report.BestExporters) > 0 && len(report.BestImporters) > 0 {
		delta := report.BestImporters[0].Price - report.BestExporters[0].Price
		report.MaxPriceDelta = &delta
	}
	return report
}

func validPrice(p int64) bool {
	return p > 0 && p < query.ValidPriceCeiling
}

// roundDistance keeps two decimals; full float noise churns the cache
// files between otherwise identical runs.
func roundDistance(d float64) float64 {
	return math.Round(d*100) / 100
}
