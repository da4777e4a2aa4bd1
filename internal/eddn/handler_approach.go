// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package eddn

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/metrics"
)

// handleApproachSettlement records a settlement approach. Settlements
// with a market are station placement updates; the rest are points of
// interest keyed by a content hash. Either way the containing system is
// ensured first.
//
// A settlement that later acquires a marketId keeps its old locations
// row; nothing in the ingestion path deletes rows.
func (h *Handlers) handleApproachSettlement(ctx context.Context, raw json.RawMessage) error {
	var msg ApproachSettlementMessage
	if err := unmarshalMessage(raw, &msg, "approachsettlement"); err != nil {
		return err
	}
	if msg.Name == "" || msg.SystemAddress == 0 {
		return nil
	}

	if err := h.ensureSystem(ctx, msg.SystemAddress, msg.StarSystem, msg.StarPos, msg.Timestamp); err != nil {
		return err
	}

	updatedAt := normalizeTimestamp(msg.Timestamp)

	if msg.MarketID != 0 {
		rec := database.NewRecord(12).
			Set("marketId", msg.MarketID).
			Set("stationName", msg.Name).
			Set("bodyId", msg.BodyID).
			SetIf(msg.BodyName != "", "bodyName", msg.BodyName).
			Set("latitude", msg.Latitude).
			Set("longitude", msg.Longitude).
			SetIf(msg.StarSystem != "", "systemName", msg.StarSystem).
			Set("systemAddress", msg.SystemAddress).
			Set("updatedAt", updatedAt)

		if validCoordinates(msg.StarSystem, msg.StarPos[0], msg.StarPos[1], msg.StarPos[2]) {
			rec.Set("systemX", msg.StarPos[0]).
				Set("systemY", msg.StarPos[1]).
				Set("systemZ", msg.StarPos[2])
		}

		if err := h.stores.Stations.UpsertStation(ctx, rec); err != nil {
			metrics.RecordStoreWriteError(database.StationsStore)
			return err
		}
		return nil
	}

	if database.IsExcludedLocation(msg.Name) {
		return nil
	}

	rec := database.NewRecord(12).
		Set("locationId", database.LocationID(msg.SystemAddress, msg.Name, msg.BodyID, msg.Latitude, msg.Longitude)).
		Set("locationName", msg.Name).
		Set("systemAddress", msg.SystemAddress).
		SetIf(msg.StarSystem != "", "systemName", msg.StarSystem).
		Set("systemX", msg.StarPos[0]).
		Set("systemY", msg.StarPos[1]).
		Set("systemZ", msg.StarPos[2]).
		Set("bodyId", msg.BodyID).
		SetIf(msg.BodyName != "", "bodyName", msg.BodyName).
		Set("latitude", msg.Latitude).
		Set("longitude", msg.Longitude).
		Set("updatedAt", updatedAt)

	if err := h.stores.Locations.UpsertLocation(ctx, rec); err != nil {
		metrics.RecordStoreWriteError(database.LocationsStore)
		return err
	}
	return nil
}
