// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

/*
Package metrics provides Prometheus metrics collection and export for
observability.

Metrics are exposed at the /metrics endpoint of the control surface in
Prometheus text format.

# Available Metrics

Ingestion:
  - eddn_frames_received_total: raw frames read off the socket (counter)
  - eddn_frames_processed_total: frames dispatched to a handler (counter)
  - eddn_frames_dropped_total: frames dropped before dispatch (counter)
    Labels: reason (decompress, parse, version, schema, duplicate, handler)
  - eddn_dead_letter_depth: frames buffered behind the write-lock (gauge)
  - eddn_dedup_set_size: keys in the deduplication set (gauge)
  - eddn_handler_duration_seconds: handler latency by schema (histogram)

Stores:
  - store_write_errors_total: failed writes by store (counter)
  - store_degraded: 1 when a store failed its integrity check (gauge)

Maintenance:
  - maintenance_write_lock_active: 1 while the write-lock is held (gauge)
  - backup_runs_total, backup_failures_total, backup_duration_seconds
  - retention_rows_deleted_total: rows removed by sweep (counter)
    Labels: sweep (trade, rescue_ship, fleet_carrier)
  - vacuum_duration_seconds: vacuum latency by store (histogram)
  - snapshot_refreshes_total, snapshot_refresh_failures_total

Stats generation:
  - stats_generation_duration_seconds: latency by report (histogram)
    Labels: report (combined, per-commodity, regional)
  - stats_generation_errors_total: failed generations by report (counter)

Control surface:
  - http_requests_total: requests by method, endpoint, status_code
  - http_request_duration_seconds: latency by method and endpoint

# Cardinality

The control surface has three routes and the feed has five schemas, so
every label set here is small and fixed. Status codes outside the
handful the surface actually emits collapse into "other".

# Thread Safety

All recording functions are safe for concurrent use; the Prometheus
client handles synchronization internally.
*/
package metrics
