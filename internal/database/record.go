// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

// Record is an ordered mapping of column name to value. Handlers build
// one Record per event; the statement cache derives (and memoizes) the
// SQL from the record's column set, so a handler that always emits the
// same shape reuses the same prepared statement.
type Record struct {
	cols []string
	vals []any
}

// NewRecord returns an empty Record with capacity for n columns.
func NewRecord(n int) *Record {
	return &Record{
		cols: make([]string, 0, n),
		vals: make([]any, 0, n),
	}
}

// Set appends a column. Column order is preserved; setting the same
// column twice produces invalid SQL, so handlers must not.
func (r *Record) Set(column string, value any) *Record {
	r.cols = append(r.cols, column)
	r.vals = append(r.vals, value)
	return r
}

// SetIf appends a column only when present is true. Used for payload
// fields the upstream event may omit: absent fields stay out of the
// statement entirely so existing row values survive partial updates.
func (r *Record) SetIf(present bool, column string, value any) *Record {
	if present {
		r.Set(column, value)
	}
	return r
}

// Columns returns the column names in insertion order.
func (r *Record) Columns() []string {
	return r.cols
}

// Values returns the values in insertion order.
func (r *Record) Values() []any {
	return r.vals
}

// Len returns the number of columns.
func (r *Record) Len() int {
	return len(r.cols)
}
