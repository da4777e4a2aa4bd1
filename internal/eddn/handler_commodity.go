// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package eddn

import (
	"context"
	"errors"
	"sort"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/metrics"
)

// handleCommodity processes a full market snapshot: it ensures the
// station row exists, refreshes whatever station attributes the payload
// carries, then upserts one trade row per commodity.
//
// Commodities missing from the snapshot are NOT deleted; the trade store
// keeps latest-seen semantics and the retention sweep ages rows out.
func (h *Handlers) handleCommodity(ctx context.Context, raw json.RawMessage) error {
	var msg CommodityMessage
	if err := unmarshalMessage(raw, &msg, "commodity"); err != nil {
		return err
	}
	if msg.MarketID == 0 {
		return nil
	}

	updatedAt := normalizeTimestamp(msg.Timestamp)

	rec := database.NewRecord(12).
		Set("marketId", msg.MarketID).
		SetIf(msg.StationName != "", "stationName", msg.StationName).
		SetIf(msg.StationType != "", "stationType", msg.StationType).
		SetIf(msg.CarrierDockingAccess != "", "carrierDockingAccess", msg.CarrierDockingAccess).
		SetIf(len(msg.Prohibited) > 0, "prohibited", prohibitedJSON(msg.Prohibited)).
		Set("updatedAt", updatedAt)

	if primary, secondary := splitEconomies(msg.Economies); primary != "" {
		rec.Set("primaryEconomy", primary)
		rec.SetIf(secondary != "", "secondaryEconomy", secondary)
	}

	// The commodity schema carries no system address or coordinates.
	// Denormalize them onto the station when the system is already
	// known; never fabricate a systems row from a name alone.
	if msg.SystemName != "" {
		rec.Set("systemName", msg.SystemName)
		sys, err := h.stores.Systems.SystemByName(ctx, msg.SystemName)
		switch {
		case err == nil:
			rec.Set("systemAddress", sys.Address).
				Set("systemX", sys.X).
				Set("systemY", sys.Y).
				Set("systemZ", sys.Z)
		case !errors.Is(err, database.ErrNotFound):
			return err
		}
	}

	if err := h.stores.Stations.UpsertStation(ctx, rec); err != nil {
		metrics.RecordStoreWriteError(database.StationsStore)
		return err
	}

	day := timestampDay(updatedAt)
	for i := range msg.Commodities {
		c := &msg.Commodities[i]
		if c.Name == "" {
			continue
		}

		order := database.NewRecord(11).
			Set("commodityName", c.Name).
			Set("marketId", msg.MarketID).
			Set("buyPrice", c.BuyPrice).
			Set("sellPrice", c.SellPrice).
			Set("meanPrice", c.MeanPrice).
			Set("stock", c.Stock).
			Set("demand", c.Demand).
			Set("stockBracket", bracketValue(c.StockBracket)).
			Set("demandBracket", bracketValue(c.DemandBracket)).
			Set("updatedAt", updatedAt).
			Set("updatedAtDay", day)

		if err := h.stores.Trade.UpsertTradeOrder(ctx, order); err != nil {
			metrics.RecordStoreWriteError(database.TradeStore)
			return err
		}
	}

	return nil
}

// splitEconomies returns the dominant and runner-up economy names by
// proportion, preserving payload order on ties.
func splitEconomies(economies []Economy) (primary, secondary string) {
	if len(economies) == 0 {
		return "", ""
	}

	sorted := make([]Economy, len(economies))
	copy(sorted, economies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Proportion > sorted[j].Proportion
	})

	primary = sorted[0].Name
	if len(sorted) > 1 {
		secondary = sorted[1].Name
	}
	return primary, secondary
}
