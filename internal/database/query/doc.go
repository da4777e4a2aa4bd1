// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package query provides SQL query building utilities for the analytics
// path.
//
// The WhereBuilder is the primary component, providing a fluent interface
// for constructing WHERE clauses with properly parameterized queries:
//
//	wb := query.NewWhereBuilder()
//	wb.AddUpdatedSince(time.Now().UTC().Add(-24 * time.Hour))
//	wb.AddValidSellPrice()
//	wb.AddMinDemand(1)
//	whereClause, args := wb.Build()
//	// Result: "updatedAt > ? AND sellPrice > 0 AND sellPrice < ? AND demand >= ?"
//
// # Available Filter Methods
//
//   - AddUpdatedSince: Filters by row update time (RFC3339 UTC)
//   - AddCommodity: Filters to one commodity, case-insensitively
//   - AddMarkets: Filters by marketId list (IN clause)
//   - AddValidBuyPrice / AddValidSellPrice: Plausible price ranges
//   - AddMinStock / AddMinDemand: Volume floors
//   - AddBoundingBox: Coordinate pre-filter for regional reports
//   - AddExcludeStationType: Drops fleet carriers from aggregations
//   - AddClause: Adds custom WHERE clause with parameters
//
// # SQL Injection Prevention
//
// All methods use parameterized queries with ? placeholders; never
// concatenate input directly into SQL strings.
//
// # Thread Safety
//
// WhereBuilder instances are not thread-safe. Create a new instance per
// query.
package query
