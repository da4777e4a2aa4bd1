// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Ingestion pipeline throughput and drop reasons
// - Per-schema handler latency
// - Store write errors
// - Maintenance jobs (backup, retention, vacuum, snapshots)
// - Stats generation

var (
	// Ingestion Pipeline Metrics
	FramesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eddn_frames_received_total",
			Help: "Total number of raw frames received from the upstream feed",
		},
	)

	FramesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eddn_frames_processed_total",
			Help: "Total number of frames dispatched to a handler",
		},
	)

	FramesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eddn_frames_dropped_total",
			Help: "Total number of frames dropped before dispatch",
		},
		[]string{"reason"}, // "decompress", "parse", "version", "schema", "duplicate", "handler"
	)

	DeadLetterDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eddn_dead_letter_depth",
			Help: "Current number of frames buffered while the write-lock is held",
		},
	)

	DedupSetSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eddn_dedup_set_size",
			Help: "Current number of keys in the deduplication set",
		},
	)

	HandlerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eddn_handler_duration_seconds",
			Help:    "Duration of schema handler execution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"schema"},
	)

	// Store Metrics
	StoreWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_write_errors_total",
			Help: "Total number of failed writes by store",
		},
		[]string{"store"},
	)

	StoreDegraded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_degraded",
			Help: "Set to 1 when a store failed its integrity check",
		},
		[]string{"store"},
	)

	// Maintenance Metrics
	WriteLockActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "maintenance_write_lock_active",
			Help: "Set to 1 while the maintenance write-lock is held",
		},
	)

	BackupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_runs_total",
			Help: "Total number of backup runs attempted",
		},
	)

	BackupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_failures_total",
			Help: "Total number of per-store backup failures",
		},
		[]string{"store"},
	)

	BackupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "backup_duration_seconds",
			Help:    "Duration of full backup runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	RetentionRowsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retention_rows_deleted_total",
			Help: "Total number of trade rows removed by retention sweeps",
		},
		[]string{"sweep"}, // "trade", "rescue_ship", "fleet_carrier"
	)

	VacuumDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vacuum_duration_seconds",
			Help:    "Duration of vacuum runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"store"},
	)

	SnapshotRefreshes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_refreshes_total",
			Help: "Total number of snapshot refresh runs",
		},
	)

	SnapshotRefreshFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_refresh_failures_total",
			Help: "Total number of failed snapshot refresh runs",
		},
	)

	// Stats Generation Metrics
	StatsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stats_generation_duration_seconds",
			Help:    "Duration of stats report generation in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"report"}, // "combined", "per-commodity", "regional"
	)

	StatsErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_generation_errors_total",
			Help: "Total number of failed stats report generations",
		},
		[]string{"report"},
	)

	// Control Surface Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of control-surface requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Control-surface request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	UptimeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_uptime_seconds_custom",
			Help: "Process uptime in seconds",
		},
	)
)

// RecordFrameDrop increments the drop counter for the given reason.
func RecordFrameDrop(reason string) {
	FramesDropped.WithLabelValues(reason).Inc()
}

// RecordHandlerDuration observes handler execution time for a schema.
func RecordHandlerDuration(schema string, duration time.Duration) {
	HandlerDuration.WithLabelValues(schema).Observe(duration.Seconds())
}

// RecordStoreWriteError increments the write error counter for a store.
func RecordStoreWriteError(store string) {
	StoreWriteErrors.WithLabelValues(store).Inc()
}

// SetStoreDegraded marks or clears the degraded flag for a store.
func SetStoreDegraded(store string, degraded bool) {
	v := 0.0
	if degraded {
		v = 1.0
	}
	StoreDegraded.WithLabelValues(store).Set(v)
}

// SetWriteLock reflects the maintenance write-lock state.
func SetWriteLock(held bool) {
	if held {
		WriteLockActive.Set(1)
	} else {
		WriteLockActive.Set(0)
	}
}

// RecordStatsRun observes one report generation.
func RecordStatsRun(report string, duration time.Duration, err error) {
	StatsDuration.WithLabelValues(report).Observe(duration.Seconds())
	if err != nil {
		StatsErrors.WithLabelValues(report).Inc()
	}
}

// RecordHTTPRequest records a completed control-surface request.
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCodeString(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func statusCodeString(code int) string {
	switch code {
	case 200:
		return "200"
	case 405:
		return "405"
	case 404:
		return "404"
	case 429:
		return "429"
	case 500:
		return "500"
	default:
		return "other"
	}
}
