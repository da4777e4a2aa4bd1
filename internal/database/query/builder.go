// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package query provides SQL query building utilities for the analytics
// path. It reduces clause duplication across the stats generators and
// keeps parameter handling consistent.
package query

import (
	"fmt"
	"strings"
	"time"
)

// ValidPriceCeiling is the exclusive upper bound of a plausible price.
// Upstream occasionally carries sentinel prices at or above this value;
// aggregates exclude them.
const ValidPriceCeiling = 999_999

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddUpdatedSince(cutoff)
//	wb.AddValidBuyPrice()
//	whereClause, args := wb.Build()
//	// WHERE updatedAt > ? AND buyPrice > 0 AND buyPrice < 999999
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments. Useful for
// conditions not covered by the helper methods.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddUpdatedSince filters to rows updated strictly after cutoff. The
// cutoff is rendered as RFC3339 UTC, which compares correctly against
// stored timestamps lexicographically.
func (wb *WhereBuilder) AddUpdatedSince(cutoff time.Time) *WhereBuilder {
	wb.clauses = append(wb.clauses, "updatedAt > ?")
	wb.args = append(wb.args, cutoff.UTC().Format(time.RFC3339))
	return wb
}

// AddCommodity filters to a single commodity, case-insensitively.
func (wb *WhereBuilder) AddCommodity(name string) *WhereBuilder {
	wb.clauses = append(wb.clauses, "commodityName = ? COLLATE NOCASE")
	wb.args = append(wb.args, name)
	return wb
}

// AddMarkets adds a marketId filter using an IN clause. An empty slice
// is skipped.
func (wb *WhereBuilder) AddMarkets(marketIDs []int64) *WhereBuilder {
	if len(marketIDs) > 0 {
		placeholders := make([]string, len(marketIDs))
		for i, id := range marketIDs {
			placeholders[i] = "?"
			wb.args = append(wb.args, id)
		}
		wb.clauses = append(wb.clauses, fmt.Sprintf("marketId IN (%s)", strings.Join(placeholders, ", ")))
	}
	return wb
}

// AddValidBuyPrice restricts to rows with a plausible, in-range buy
// price: 0 < buyPrice < ValidPriceCeiling.
func (wb *WhereBuilder) AddValidBuyPrice() *WhereBuilder {
	wb.clauses = append(wb.clauses, "buyPrice > 0", "buyPrice < ?")
	wb.args = append(wb.args, ValidPriceCeiling)
	return wb
}

// AddValidSellPrice restricts to rows with a plausible, in-range sell
// price: 0 < sellPrice < ValidPriceCeiling.
func (wb *WhereBuilder) AddValidSellPrice() *WhereBuilder {
	wb.clauses = append(wb.clauses, "sellPrice > 0", "sellPrice < ?")
	wb.args = append(wb.args, ValidPriceCeiling)
	return wb
}

// AddMinStock restricts to rows with stock of at least n.
func (wb *WhereBuilder) AddMinStock(n int) *WhereBuilder {
	wb.clauses = append(wb.clauses, "stock >= ?")
	wb.args = append(wb.args, n)
	return wb
}

// AddMinDemand restricts to rows with demand of at least n.
func (wb *WhereBuilder) AddMinDemand(n int) *WhereBuilder {
	wb.clauses = append(wb.clauses, "demand >= ?")
	wb.args = append(wb.args, n)
	return wb
}

// AddBoundingBox restricts station rows to the axis-aligned box around
// (x, y, z) with half-side radius. This pre-filter over-includes the
// corners; callers follow up with an exact distance check.
func (wb *WhereBuilder) AddBoundingBox(x, y, z, radius float64) *WhereBuilder {
	wb.clauses = append(wb.clauses,
		"systemX BETWEEN ? AND ?",
		"systemY BETWEEN ? AND ?",
		"systemZ BETWEEN ? AND ?")
	wb.args = append(wb.args,
		x-radius, x+radius,
		y-radius, y+radius,
		z-radius, z+radius)
	return wb
}

// AddExcludeStationType excludes stations of the given type (used to
// drop fleet carriers from regional aggregations).
func (wb *WhereBuilder) AddExcludeStationType(stationType string) *WhereBuilder {
	wb.clauses = append(wb.clauses, "(stationType IS NULL OR stationType != ?)")
	wb.args = append(wb.args, stationType)
	return wb
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
