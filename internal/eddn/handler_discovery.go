// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package eddn

import (
	"context"

	"github.com/goccy/go-json"
)

// handleFSSDiscoveryScan inserts the scanned system if absent. Scans
// carry authoritative coordinates, but an existing row's coordinates are
// still never overwritten.
func (h *Handlers) handleFSSDiscoveryScan(ctx context.Context, raw json.RawMessage) error {
	var msg FSSDiscoveryScanMessage
	if err := unmarshalMessage(raw, &msg, "fssdiscoveryscan"); err != nil {
		return err
	}
	return h.ensureSystem(ctx, msg.SystemAddress, msg.SystemName, msg.StarPos, msg.Timestamp)
}

// handleNavRoute inserts each hop of a plotted route if absent. Route
// echoes for unvisited systems often carry zero coordinates; those hops
// are skipped (except the origin system, which really is at zero).
func (h *Handlers) handleNavRoute(ctx context.Context, raw json.RawMessage) error {
	var msg NavRouteMessage
	if err := unmarshalMessage(raw, &msg, "navroute"); err != nil {
		return err
	}

	for i := range msg.Route {
		hop := &msg.Route[i]
		if err := h.ensureSystem(ctx, hop.SystemAddress, hop.StarSystem, hop.StarPos, msg.Timestamp); err != nil {
			return err
		}
	}
	return nil
}
