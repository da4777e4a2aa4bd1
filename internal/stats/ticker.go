// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/mercator/internal/database/query"
	"github.com/tomtom215/mercator/internal/snapshot"
)

const (
	hotTradeLimit   = 20
	highValueLimit  = 10
	mostActiveLimit = 10

	// hotTradeMinVolume is the stock and demand floor for a route to
	// qualify as tradable right now.
	hotTradeMinVolume = 100

	// mostActiveMinMarkets is the distinct-market floor for the
	// most-active list.
	mostActiveMinMarkets = 5
)

// Ticker is the commodity-ticker.json report.
type Ticker struct {
	HotTrades  []HotTrade   `json:"hotTrades"`
	HighValue  []HighValue  `json:"highValue"`
	MostActive []MostActive `json:"mostActive"`
}

// HotTrade is one profitable route between two markets.
type HotTrade struct {
	Commodity    string `json:"commodity"`
	BuyMarketID  int64  `json:"buyMarketId"`
	BuyPrice     int64  `json:"buyPrice"`
	SellMarketID int64  `json:"sellMarketId"`
	SellPrice    int64  `json:"sellPrice"`
	Profit       int64  `json:"profit"`
}

// HighValue is one commodity ranked by its best sell price.
type HighValue struct {
	Commodity    string `json:"commodity"`
	MaxSellPrice int64  `json:"maxSellPrice"`
	Markets      int64  `json:"markets"`
	TotalDemand  int64  `json:"totalDemand"`
}

// MostActive is one commodity ranked by markets updated in the last 24h.
type MostActive struct {
	Commodity     string `json:"commodity"`
	ActiveMarkets int64  `json:"activeMarkets"`
	TotalStock    int64  `json:"totalStock"`
	TotalDemand   int64  `json:"totalDemand"`
	AvgBuyPrice   int64  `json:"avgBuyPrice"`
	AvgSellPrice  int64  `json:"avgSellPrice"`
}

// collectTicker builds the three ticker arrays from the trade snapshot.
func collectTicker(ctx context.Context, set *snapshot.Set, now time.Time) (*Ticker, error) {
	ticker := &Ticker{
		HotTrades:  []HotTrade{},
		HighValue:  []HighValue{},
		MostActive: []MostActive{},
	}

	if err := collectHotTrades(ctx, set, ticker); err != nil {
		return nil, err
	}
	if err := collectHighValue(ctx, set, ticker); err != nil {
		return nil, err
	}
	if err := collectMostActive(ctx, set, ticker, now); err != nil {
		return nil, err
	}
	return ticker, nil
}

// collectHotTrades self-joins the trade snapshot on commodity name:
// a supply row (stock) paired with a demand row (demand) at a different
// market, ranked by margin.
func collectHotTrades(ctx context.Context, set *snapshot.Set, ticker *Ticker) error {
	rows, err := set.Trade.QueryContext(ctx, `
		SELECT
			b.commodityName,
			b.marketId, b.buyPrice,
			s.marketId, s.sellPrice,
			s.sellPrice - b.buyPrice AS profit
		FROM commodities b
		JOIN commodities s
			ON s.commodityName = b.commodityName
			AND s.marketId != b.marketId
		WHERE b.stock >= ? AND s.demand >= ?
			AND b.buyPrice > 0 AND b.buyPrice < ?
			AND s.sellPrice > 0 AND s.sellPrice < ?
			AND s.sellPrice > b.buyPrice
		ORDER BY profit DESC, b.commodityName, b.marketId, s.marketId
		LIMIT ?;`,
		hotTradeMinVolume, hotTradeMinVolume,
		query.ValidPriceCeiling, query.ValidPriceCeiling,
		hotTradeLimit)
	if err != nil {
		return fmt.Errorf("failed to query hot trades: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var ht HotTrade
		if err := rows.Scan(&ht.Commodity,
			&ht.BuyMarketID, &ht.BuyPrice,
			&ht.SellMarketID, &ht.SellPrice, &ht.Profit); err != nil {
			return fmt.Errorf("failed to scan hot trade: %w", err)
		}
		ticker.HotTrades = append(ticker.HotTrades, ht)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate hot trades: %w", err)
	}
	return nil
}

func collectHighValue(ctx context.Context, set *snapshot.Set, ticker *Ticker) error {
	rows, err := set.Trade.QueryContext(ctx, `
		SELECT
			commodityName,
			MAX(sellPrice) AS maxSell,
			COUNT(DISTINCT marketId),
			COALESCE(SUM(demand), 0)
		FROM commodities
		WHERE sellPrice > 0 AND sellPrice < ?
		GROUP BY commodityName
		ORDER BY maxSell DESC, commodityName
		LIMIT ?;`, query.ValidPriceCeiling, highValueLimit)
	if err != nil {
		return fmt.Errorf("failed to query high-value commodities: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var hv HighValue
		if err := rows.Scan(&hv.Commodity, &hv.MaxSellPrice, &hv.Markets, &hv.TotalDemand); err != nil {
			return fmt.Errorf("failed to scan high-value commodity: %w", err)
		}
		ticker.HighValue = append(ticker.HighValue, hv)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate high-value commodities: %w", err)
	}
	return nil
}

func collectMostActive(ctx context.Context, set *snapshot.Set, ticker *Ticker, now time.Time) error {
	wb := query.NewWhereBuilder()
	wb.AddUpdatedSince(now.UTC().Add(-24 * time.Hour))
	where, args := wb.Build()

	args = append(args, mostActiveMinMarkets, mostActiveLimit)
	rows, err := set.Trade.QueryContext(ctx, fmt.Sprintf(`
		SELECT
			commodityName,
			COUNT(DISTINCT marketId) AS activeMarkets,
			COALESCE(SUM(stock), 0),
			COALESCE(SUM(demand), 0),
			COALESCE(AVG(buyPrice), 0),
			COALESCE(AVG(sellPrice), 0)
		FROM commodities
		WHERE %s
		GROUP BY commodityName
		HAVING activeMarkets >= ?
		ORDER BY activeMarkets DESC, commodityName
		LIMIT ?;`, where), args...)
	if err != nil {
		return fmt.Errorf("failed to query most-active commodities: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var (
			ma              MostActive
			avgBuy, avgSell float64
		)
		if err := rows.Scan(&ma.Commodity, &ma.ActiveMarkets,
			&ma.TotalStock, &ma.TotalDemand, &avgBuy, &avgSell); err != nil {
			return fmt.Errorf("failed to scan most-active commodity: %w", err)
		}
		ma.AvgBuyPrice = int64(avgBuy)
		ma.AvgSellPrice = int64(avgSell)
		ticker.MostActive = append(ticker.MostActive, ma)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate most-active commodities: %w", err)
	}
	return nil
}
