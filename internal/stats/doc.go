// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package stats generates the JSON analytics consumed by the read API.
//
// Every query runs against read-only snapshot copies of the stores
// (package snapshot), never against the live files, so long scans do
// not contend with the ingest writer. Cross-store joins happen in Go:
// stations are pre-filtered by a coordinate bounding box, reduced to a
// marketId set, then the trade snapshot is scanned once against that
// set.
//
// Outputs land under the cache directory as atomic temp-file-plus-
// rename writes:
//
//	database-stats.json                                combined totals
//	commodities.json                                   per-commodity aggregates
//	commodity-ticker.json                              hot trades / high value / most active
//	commodities/<Name>/report.json                     single-commodity aggregate
//	commodities/<Name>/<region>-systems-<r>-ly.json    regional exporters/importers
package stats
