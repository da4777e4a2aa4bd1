// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package eddn

// Payload shapes per schema. Field names follow the upstream schemas;
// journal-sourced schemas use the game's PascalCase keys, the commodity
// schema uses camelCase.

// CommodityMessage is the body of a commodity/3 event: a full market
// snapshot from one station.
type CommodityMessage struct {
	SystemName  string      `json:"systemName"`
	StationName string      `json:"stationName"`
	StationType string      `json:"stationType"`
	MarketID    int64       `json:"marketId"`
	Timestamp   string      `json:"timestamp"`
	Commodities []Commodity `json:"commodities"`
	Economies   []Economy   `json:"economies"`
	Prohibited  []string    `json:"prohibited"`

	// CarrierDockingAccess is only present for fleet carrier markets.
	CarrierDockingAccess string `json:"carrierDockingAccess"`
}

// Commodity is one tradeable good in a commodity snapshot.
type Commodity struct {
	Name          string `json:"name"`
	BuyPrice      int64  `json:"buyPrice"`
	SellPrice     int64  `json:"sellPrice"`
	MeanPrice     int64  `json:"meanPrice"`
	Stock         int64  `json:"stock"`
	StockBracket  any    `json:"stockBracket"` // int, or "" when the market is closed
	Demand        int64  `json:"demand"`
	DemandBracket any    `json:"demandBracket"`
}

// Economy is one station economy share.
type Economy struct {
	Name       string  `json:"name"`
	Proportion float64 `json:"proportion"`
}

// FSSDiscoveryScanMessage is the body of an fssdiscoveryscan/1 event.
type FSSDiscoveryScanMessage struct {
	SystemName    string     `json:"SystemName"`
	SystemAddress int64      `json:"SystemAddress"`
	StarPos       [3]float64 `json:"StarPos"`
	BodyCount     int        `json:"BodyCount"`
	Timestamp     string     `json:"timestamp"`
}

// NavRouteMessage is the body of a navroute/1 event: a plotted route.
type NavRouteMessage struct {
	Route     []NavRouteHop `json:"Route"`
	Timestamp string        `json:"timestamp"`
}

// NavRouteHop is one system on a plotted route.
type NavRouteHop struct {
	StarSystem    string     `json:"StarSystem"`
	SystemAddress int64      `json:"SystemAddress"`
	StarPos       [3]float64 `json:"StarPos"`
	StarClass     string     `json:"StarClass"`
}

// ApproachSettlementMessage is the body of an approachsettlement/1
// event. With a MarketID it describes a station's surface placement;
// without one it is a point of interest.
type ApproachSettlementMessage struct {
	StarSystem    string     `json:"StarSystem"`
	SystemAddress int64      `json:"SystemAddress"`
	StarPos       [3]float64 `json:"StarPos"`
	Name          string     `json:"Name"`
	MarketID      int64      `json:"MarketID"`
	BodyID        int64      `json:"BodyID"`
	BodyName      string     `json:"BodyName"`
	Latitude      float64    `json:"Latitude"`
	Longitude     float64    `json:"Longitude"`
	Timestamp     string     `json:"timestamp"`
}

// Journal event kinds the pipeline sub-dispatches.
const (
	JournalEventLocation    = "Location"
	JournalEventDocked      = "Docked"
	JournalEventCarrierJump = "CarrierJump"
)

// JournalMessage is the body of a journal/1 event. Only the fields used
// by the Location, Docked and CarrierJump kinds are decoded.
type JournalMessage struct {
	Event         string     `json:"event"`
	StarSystem    string     `json:"StarSystem"`
	SystemAddress int64      `json:"SystemAddress"`
	StarPos       [3]float64 `json:"StarPos"`
	Timestamp     string     `json:"timestamp"`

	// Station fields, present when docked at or near one.
	StationName       string          `json:"StationName"`
	StationType       string          `json:"StationType"`
	MarketID          int64           `json:"MarketID"`
	DistFromStarLS    float64         `json:"DistFromStarLS"`
	StationServices   []string        `json:"StationServices"`
	StationEconomy    string          `json:"StationEconomy"`
	StationEconomies  []LocalEconomy  `json:"StationEconomies"`
	StationGovernment string          `json:"StationGovernment"`
	StationAllegiance string          `json:"StationAllegiance"`
	StationFaction    *JournalFaction `json:"StationFaction"`
	LandingPads       *LandingPads    `json:"LandingPads"`

	// Body placement, present for surface ports.
	BodyID    int64   `json:"BodyID"`
	Body      string  `json:"Body"`
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`

	// Fleet carrier docking metadata, present on Docked at a carrier.
	CarrierDockingAccess string   `json:"CarrierDockingAccess"`
	Prohibited           []string `json:"Prohibited"`
}

// LocalEconomy is one entry of StationEconomies.
type LocalEconomy struct {
	Name       string  `json:"Name"`
	Proportion float64 `json:"Proportion"`
}

// JournalFaction is the controlling faction of a station.
type JournalFaction struct {
	Name string `json:"Name"`
}

// LandingPads is the pad inventory of a station.
type LandingPads struct {
	Small  int `json:"Small"`
	Medium int `json:"Medium"`
	Large  int `json:"Large"`
}

// MaxLandingPadSize returns the largest available pad class as a single
// letter, or "" when unknown.
func (p *LandingPads) MaxLandingPadSize() string {
	switch {
	case p == nil:
		return ""
	case p.Large > 0:
		return "L"
	case p.Medium > 0:
		return "M"
	case p.Small > 0:
		return "S"
	default:
		return ""
	}
}
