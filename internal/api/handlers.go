// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/maintenance"
)

// IngestStats is the slice of the ingestor the status page reads.
type IngestStats interface {
	EventsProcessed() uint64
	FramesReceived() uint64
	DedupSize() int
}

// Handlers serves the control-surface routes. It holds no live store
// handles; health reads atomic flags and status reads the cached totals
// file, so neither can block behind the writer.
type Handlers struct {
	stores       *database.Stores
	lock         *maintenance.Lock
	ingest       IngestStats
	cacheDir     string
	version      string
	cacheControl string
	startedAt    time.Time
}

// NewHandlers creates the control-surface handler set.
func NewHandlers(stores *database.Stores, lock *maintenance.Lock, ingest IngestStats,
	cacheDir, version, cacheControl string) *Handlers {
	return &Handlers{
		stores:       stores,
		lock:         lock,
		ingest:       ingest,
		cacheDir:     cacheDir,
		version:      version,
		cacheControl: cacheControl,
		startedAt:    time.Now(),
	}
}

// healthResponse is the GET /health document.
type healthResponse struct {
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
	Version   string   `json:"version"`
	Uptime    float64  `json:"uptime"`
	Degraded  []string `json:"degraded,omitempty"`

	// Maintenance is present only while the write-lock is held.
	Maintenance *maintenanceStatus `json:"maintenance,omitempty"`
}

type maintenanceStatus struct {
	Running  bool    `json:"running"`
	Duration float64 `json:"duration"`
}

// Health implements GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Uptime:    time.Since(h.startedAt).Seconds(),
	}

	if degraded := h.stores.DegradedNames(); len(degraded) > 0 {
		resp.Status = "degraded"
		resp.Degraded = degraded
	}

	if h.lock.Held() {
		resp.Maintenance = &maintenanceStatus{
			Running:  true,
			Duration: h.lock.HeldFor().Seconds(),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Warn().Err(err).Msg("Failed to encode health response")
	}
}

// Status implements GET /. Plain text for humans and uptime probes.
func (h *Handlers) Status(w http.ResponseWriter, _ *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	fmt.Fprintf(w, "mercator %s\n", h.version)
	fmt.Fprintf(w, "uptime: %.0f seconds\n", time.Since(h.startedAt).Seconds())
	fmt.Fprintf(w, "memory: %.1f MiB allocated, %.1f MiB from OS\n",
		float64(mem.Alloc)/(1<<20), float64(mem.Sys)/(1<<20))
	fmt.Fprintf(w, "events processed: %d (received %d)\n",
		h.ingest.EventsProcessed(), h.ingest.FramesReceived())
	fmt.Fprintf(w, "dedup set size: %d\n", h.ingest.DedupSize())

	if degraded := h.stores.DegradedNames(); len(degraded) > 0 {
		fmt.Fprintf(w, "DEGRADED stores: %v\n", degraded)
	}
	if h.lock.Held() {
		fmt.Fprintf(w, "maintenance running for %.0f seconds\n", h.lock.HeldFor().Seconds())
	}

	fmt.Fprintln(w)
	h.writeTotals(w)
}

// writeTotals renders the latest cached totals, if any generation has
// completed since the databases were first populated.
func (h *Handlers) writeTotals(w http.ResponseWriter) {
	data, err := os.ReadFile(filepath.Join(h.cacheDir, "database-stats.json"))
	if err != nil {
		fmt.Fprintln(w, "stats not generated yet")
		return
	}

	var totals struct {
		Systems          int64 `json:"systems"`
		PointsOfInterest int64 `json:"pointsOfInterest"`
		Stations         int64 `json:"stations"`
		FleetCarriers    int64 `json:"fleetCarriers"`
		TradeOrders      int64 `json:"tradeOrders"`
		Commodities      int64 `json:"commodities"`
		Markets          int64 `json:"markets"`
		TotalUpdated24h  int64 `json:"updatesLast24h"`
	}
	if err := json.Unmarshal(data, &totals); err != nil {
		fmt.Fprintln(w, "stats not generated yet")
		return
	}

	fmt.Fprintf(w, "systems: %d\n", totals.Systems)
	fmt.Fprintf(w, "points of interest: %d\n", totals.PointsOfInterest)
	fmt.Fprintf(w, "stations: %d (+ %d fleet carriers)\n", totals.Stations, totals.FleetCarriers)
	fmt.Fprintf(w, "trade orders: %d across %d commodities and %d markets\n",
		totals.TradeOrders, totals.Commodities, totals.Markets)
	fmt.Fprintf(w, "updates in last 24h: %d\n", totals.TotalUpdated24h)
}
