// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package eddn

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/metrics"
	"github.com/tomtom215/mercator/internal/sector"
)

// Handlers normalizes recognized events into the four stores. Handlers
// are pure except for writes through the statement cache and lookups
// against the stores; they assume the payload already passed the version
// gate.
type Handlers struct {
	stores *database.Stores
	grid   sector.Grid
	log    zerolog.Logger
}

// NewHandlers creates the handler set over the live stores.
func NewHandlers(stores *database.Stores, grid sector.Grid) *Handlers {
	return &Handlers{
		stores: stores,
		grid:   grid,
		log:    logging.WithComponent("handlers"),
	}
}

// Dispatch routes an envelope to its schema handler and records the
// handler duration. Unrecognized schemas return nil without side
// effects; the ingestor filters them before calling.
func (h *Handlers) Dispatch(ctx context.Context, env *Envelope) error {
	start := time.Now()
	var (
		err    error
		schema string
	)

	switch env.SchemaRef {
	case SchemaCommodity:
		schema = "commodity"
		err = h.handleCommodity(ctx, env.Message)
	case SchemaFSSDiscoveryScan:
		schema = "fssdiscoveryscan"
		err = h.handleFSSDiscoveryScan(ctx, env.Message)
	case SchemaNavRoute:
		schema = "navroute"
		err = h.handleNavRoute(ctx, env.Message)
	case SchemaApproachSettlement:
		schema = "approachsettlement"
		err = h.handleApproachSettlement(ctx, env.Message)
	case SchemaJournal:
		schema = "journal"
		err = h.handleJournal(ctx, env.Message)
	default:
		return nil
	}

	metrics.RecordHandlerDuration(schema, time.Since(start))
	return err
}

// validCoordinates reports whether (x,y,z) may be written to the systems
// store under systemName. The origin system legitimately sits at zero.
func validCoordinates(systemName string, x, y, z float64) bool {
	if x != 0 || y != 0 || z != 0 {
		return true
	}
	return equalFold(systemName, database.OriginSystemName)
}

// equalFold is a tiny ASCII-only case-insensitive compare; system names
// in the feed are ASCII.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// ensureSystem inserts the system if absent and its coordinates are
// valid. Existing rows keep their coordinates.
func (h *Handlers) ensureSystem(ctx context.Context, address int64, name string, pos [3]float64, timestamp string) error {
	if address == 0 || name == "" {
		return nil
	}
	if !validCoordinates(name, pos[0], pos[1], pos[2]) {
		return nil
	}

	sys := &database.System{
		Address:   address,
		Name:      name,
		X:         pos[0],
		Y:         pos[1],
		Z:         pos[2],
		Sector:    h.grid.SectorID(pos[0], pos[1], pos[2]),
		UpdatedAt: normalizeTimestamp(timestamp),
	}
	if err := h.stores.Systems.InsertSystemIfAbsent(ctx, sys); err != nil {
		metrics.RecordStoreWriteError(database.SystemsStore)
		return err
	}
	return nil
}

// normalizeTimestamp renders an event timestamp as RFC3339 UTC. The feed
// is not fully consistent about fractional seconds; unparseable stamps
// fall back to the current time so rows always carry a usable updatedAt.
func normalizeTimestamp(ts string) string {
	if ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// timestampDay returns the date-only form of an RFC3339 timestamp.
func timestampDay(rfc3339 string) string {
	if len(rfc3339) >= 10 {
		return rfc3339[:10]
	}
	return rfc3339
}

// bracketValue coerces a stock/demand bracket to an integer. The
// upstream schema allows "" when the market is suspended; that maps to
// zero.
func bracketValue(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

// prohibitedJSON renders a prohibited commodity list as a compact JSON
// array string for the stations store, or "" when the list is empty.
func prohibitedJSON(prohibited []string) string {
	if len(prohibited) == 0 {
		return ""
	}
	data, err := json.Marshal(prohibited)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalMessage(data []byte, v any, schema string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s message: %w", schema, err)
	}
	return nil
}
