// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package maintenance

import (
	"context"
	"time"

	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/metrics"
)

// RescueShipPrefix marks the megaships that relocate to emergencies;
// their markets go stale much faster than fixed stations.
const RescueShipPrefix = "Rescue Ship"

// RunRetention applies the three age sweeps to the trade store. A
// horizon of zero disables that sweep. Sweep failures are logged and
// skipped; the next window retries.
func (m *Manager) RunRetention(ctx context.Context) {
	now := time.Now().UTC()

	if days := m.retention.TradeDays; days > 0 {
		cutoff := now.AddDate(0, 0, -days)
		deleted, err := m.stores.Trade.DeleteTradeOlderThan(ctx, cutoff)
		m.recordSweep("trade", deleted, err)
	}

	if days := m.retention.RescueShipDays; days > 0 {
		m.sweepMarkets(ctx, "rescue-ship", now.AddDate(0, 0, -days), func() ([]int64, error) {
			return m.stores.Stations.MarketIDsByNamePrefix(ctx, RescueShipPrefix)
		})
	}

	if days := m.retention.FleetCarrierDays; days > 0 {
		m.sweepMarkets(ctx, "fleet-carrier", now.AddDate(0, 0, -days), func() ([]int64, error) {
			return m.stores.Stations.MarketIDsByType(ctx, database.FleetCarrierType)
		})
	}
}

// sweepMarkets resolves a market set from the stations store and ages
// out matching trade rows. The join runs in Go with chunked IN lists;
// the stores are separate files, so SQL cannot join them directly.
func (m *Manager) sweepMarkets(ctx context.Context, sweep string, cutoff time.Time,
	resolve func() ([]int64, error)) {

	marketIDs, err := resolve()
	if err != nil {
		m.recordSweep(sweep, 0, err)
		return
	}
	if len(marketIDs) == 0 {
		return
	}

	deleted, err := m.stores.Trade.DeleteTradeForMarketsOlderThan(ctx, marketIDs, cutoff)
	m.recordSweep(sweep, deleted, err)
}

func (m *Manager) recordSweep(sweep string, deleted int64, err error) {
	if err != nil {
		m.log.Error().Err(err).Str("sweep", sweep).Msg("Retention sweep failed")
		return
	}
	metrics.RetentionRowsDeleted.WithLabelValues(sweep).Add(float64(deleted))
	m.log.Info().Str("sweep", sweep).Int64("deleted", deleted).Msg("Retention sweep completed")
}
