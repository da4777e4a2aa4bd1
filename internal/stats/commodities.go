// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package stats

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/tomtom215/mercator/internal/database/query"
	"github.com/tomtom215/mercator/internal/snapshot"
)

// CommodityAggregate is one commodity's market summary. Buy aggregates
// are restricted to rows with stock, sell aggregates to rows with
// demand, both to the valid price range.
type CommodityAggregate struct {
	Name string `json:"name"`

	MinBuy int64 `json:"minBuyPrice"`
	AvgBuy int64 `json:"avgBuyPrice"`
	MaxBuy int64 `json:"maxBuyPrice"`

	MinSell int64 `json:"minSellPrice"`
	AvgSell int64 `json:"avgSellPrice"`
	MaxSell int64 `json:"maxSellPrice"`

	TotalStock  int64 `json:"totalStock"`
	TotalDemand int64 `json:"totalDemand"`

	// Rare marks entries overridden by the rare-goods table; Origin is
	// the rare's single producing market.
	Rare   bool           `json:"rare,omitempty"`
	Origin *RareCommodity `json:"origin,omitempty"`
}

// collectCommodityAggregates computes the per-commodity report for
// every distinct commodity in the trade snapshot, in name order.
func collectCommodityAggregates(ctx context.Context, set *snapshot.Set) ([]CommodityAggregate, error) {
	rows, err := set.Trade.QueryContext(ctx, fmt.Sprintf(`
		SELECT
			commodityName,
			MIN(CASE WHEN stock >= 1 AND buyPrice > 0 AND buyPrice < %[1]d THEN buyPrice END),
			AVG(CASE WHEN stock >= 1 AND buyPrice > 0 AND buyPrice < %[1]d THEN buyPrice END),
			MAX(CASE WHEN stock >= 1 AND buyPrice > 0 AND buyPrice < %[1]d THEN buyPrice END),
			MIN(CASE WHEN demand >= 1 AND sellPrice > 0 AND sellPrice < %[1]d THEN sellPrice END),
			AVG(CASE WHEN demand >= 1 AND sellPrice > 0 AND sellPrice < %[1]d THEN sellPrice END),
			MAX(CASE WHEN demand >= 1 AND sellPrice > 0 AND sellPrice < %[1]d THEN sellPrice END),
			COALESCE(SUM(stock), 0),
			COALESCE(SUM(demand), 0)
		FROM commodities
		GROUP BY commodityName
		ORDER BY commodityName;`, query.ValidPriceCeiling))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate commodities: %w", err)
	}
	defer closeRows(rows)

	var aggregates []CommodityAggregate
	for rows.Next() {
		var (
			agg              CommodityAggregate
			minBuy, maxBuy   sql.NullInt64
			minSell, maxSell sql.NullInt64
			avgBuy, avgSell  sql.NullFloat64
		)
		if err := rows.Scan(&agg.Name,
			&minBuy, &avgBuy, &maxBuy,
			&minSell, &avgSell, &maxSell,
			&agg.TotalStock, &agg.TotalDemand); err != nil {
			return nil, fmt.Errorf("failed to scan commodity aggregate: %w", err)
		}

		agg.MinBuy, agg.MaxBuy = minBuy.Int64, maxBuy.Int64
		agg.MinSell, agg.MaxSell = minSell.Int64, maxSell.Int64
		agg.AvgBuy = roundPrice(avgBuy)
		agg.AvgSell = roundPrice(avgSell)

		if rare, ok := RareByName(agg.Name); ok {
			applyRareOverride(&agg, rare)
		}
		aggregates = append(aggregates, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate commodity aggregates: %w", err)
	}
	return aggregates, nil
}

// applyRareOverride replaces the market aggregates of a rare good.
// Rares have one producing market, so the spread collapses to the
// observed buy price; sell prices depend on distance travelled and are
// replaced by buy + fixed premium. Volume sums carry no meaning for
// rares and are zeroed.
func applyRareOverride(agg *CommodityAggregate, rare RareCommodity) {
	buy := agg.AvgBuy
	if buy == 0 {
		buy = agg.MinBuy
	}
	agg.MinBuy, agg.AvgBuy, agg.MaxBuy = buy, buy, buy

	sell := buy + RarePremium
	agg.MinSell, agg.AvgSell, agg.MaxSell = sell, sell, sell

	agg.TotalStock = 0
	agg.TotalDemand = 0
	agg.Rare = true
	origin := rare
	agg.Origin = &origin
}

func roundPrice(v sql.NullFloat64) int64 {
	if !v.Valid {
		return 0
	}
	return int64(math.Round(v.Float64))
}
