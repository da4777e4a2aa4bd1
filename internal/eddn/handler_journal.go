// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package eddn

import (
	"context"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/metrics"
)

// serviceTokens maps upstream StationServices tokens (lower-cased) to
// station service-flag columns.
var serviceTokens = map[string]string{
	"shipyard":          "shipyard",
	"outfitting":        "outfitting",
	"blackmarket":       "blackMarket",
	"repair":            "repair",
	"refuel":            "refuel",
	"rearm":             "restock",
	"contacts":          "contacts",
	"facilitator":       "interstellarFactors",
	"materialtrader":    "materialTrader",
	"missions":          "missions",
	"searchrescue":      "searchAndRescue",
	"techbroker":        "technologyBroker",
	"tuning":            "tuning",
	"exploration":       "universalCartographics",
	"engineer":          "engineer",
	"frontlinesolutions": "frontlineSolutions",
	"apexinterstellar":  "apexInterstellar",
	"vistagenomics":     "vistaGenomics",
	"pioneersupplies":   "pioneerSupplies",
	"bartender":         "bartender",
	"crewlounge":        "crewLounge",
}

// handleJournal sub-dispatches journal events by kind. Location, Docked
// and CarrierJump all place the commander in a system (and usually at a
// station); other kinds are ignored.
func (h *Handlers) handleJournal(ctx context.Context, raw json.RawMessage) error {
	var msg JournalMessage
	if err := unmarshalMessage(raw, &msg, "journal"); err != nil {
		return err
	}

	switch msg.Event {
	case JournalEventLocation, JournalEventDocked, JournalEventCarrierJump:
	default:
		return nil
	}

	if err := h.ensureSystem(ctx, msg.SystemAddress, msg.StarSystem, msg.StarPos, msg.Timestamp); err != nil {
		return err
	}

	if msg.MarketID == 0 {
		return nil
	}

	rec := database.NewRecord(32).
		Set("marketId", msg.MarketID).
		SetIf(msg.StationName != "", "stationName", msg.StationName).
		SetIf(msg.StationType != "", "stationType", msg.StationType).
		SetIf(msg.DistFromStarLS > 0, "distanceToArrival", msg.DistFromStarLS).
		SetIf(msg.StationAllegiance != "", "allegiance", msg.StationAllegiance).
		SetIf(msg.StationGovernment != "", "government", trimSymbol(msg.StationGovernment)).
		SetIf(msg.StationFaction != nil && msg.StationFaction.Name != "", "controllingFaction", factionName(msg.StationFaction)).
		SetIf(msg.SystemAddress != 0, "systemAddress", msg.SystemAddress).
		SetIf(msg.StarSystem != "", "systemName", msg.StarSystem).
		Set("updatedAt", normalizeTimestamp(msg.Timestamp))

	if validCoordinates(msg.StarSystem, msg.StarPos[0], msg.StarPos[1], msg.StarPos[2]) {
		rec.Set("systemX", msg.StarPos[0]).
			Set("systemY", msg.StarPos[1]).
			Set("systemZ", msg.StarPos[2])
	}

	if primary, secondary := journalEconomies(&msg); primary != "" {
		rec.Set("primaryEconomy", primary)
		rec.SetIf(secondary != "", "secondaryEconomy", secondary)
	}

	if pad := msg.LandingPads.MaxLandingPadSize(); pad != "" {
		rec.Set("maxLandingPadSize", pad)
	}

	// Service flags are written only when the event carries the service
	// list; a Docked event that omits it must not zero stored flags.
	if len(msg.StationServices) > 0 {
		flags := make(map[string]int64, len(serviceTokens))
		for _, col := range database.ServiceColumns {
			flags[col] = 0
		}
		for _, token := range msg.StationServices {
			if col, ok := serviceTokens[strings.ToLower(token)]; ok {
				flags[col] = 1
			}
		}
		for _, col := range database.ServiceColumns {
			rec.Set(col, flags[col])
		}
	}

	// Carrier docking metadata is written even when every other station
	// field is absent.
	rec.SetIf(msg.CarrierDockingAccess != "", "carrierDockingAccess", msg.CarrierDockingAccess)
	rec.SetIf(len(msg.Prohibited) > 0, "prohibited", prohibitedJSON(msg.Prohibited))

	if msg.Event == JournalEventDocked && msg.BodyID != 0 {
		rec.Set("bodyId", msg.BodyID)
		rec.SetIf(msg.Body != "", "bodyName", msg.Body)
	}

	if err := h.stores.Stations.UpsertStation(ctx, rec); err != nil {
		metrics.RecordStoreWriteError(database.StationsStore)
		return err
	}
	return nil
}

// journalEconomies prefers the proportion list, falling back to the
// single StationEconomy symbol.
func journalEconomies(msg *JournalMessage) (primary, secondary string) {
	if len(msg.StationEconomies) > 0 {
		best, second := -1.0, -1.0
		for _, e := range msg.StationEconomies {
			name := trimSymbol(e.Name)
			switch {
			case e.Proportion > best:
				second, secondary = best, primary
				best, primary = e.Proportion, name
			case e.Proportion > second:
				second, secondary = e.Proportion, name
			}
		}
		return primary, secondary
	}
	return trimSymbol(msg.StationEconomy), ""
}

// trimSymbol strips the game's $..._x; wrapper from symbol names, e.g.
// "$economy_Carrier;" becomes "economy_Carrier".
func trimSymbol(symbol string) string {
	symbol = strings.TrimPrefix(symbol, "$")
	return strings.TrimSuffix(symbol, ";")
}

func factionName(f *JournalFaction) string {
	if f == nil {
		return ""
	}
	return f.Name
}
