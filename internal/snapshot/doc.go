// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package snapshot maintains point-in-time read-only copies of the live
// stores for the analytics generators.
//
// The ingest writer holds the live connections; running the long
// analytic scans against those files would stall ingestion behind the
// busy timeout. Instead the generators read from VACUUM INTO copies in
// the .snapshots directory, refreshed when older than the freshness
// window. Open returns ErrStale rather than silently reading old data,
// so callers decide whether to refresh or skip the run.
package snapshot
