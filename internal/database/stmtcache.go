// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Upsert inserts the record, replacing the existing row on conflict with
// the table's declared conflict columns. The statement is generated from
// the record's column set and cached; ingestion rates exceed thousands of
// events per minute, so per-event prepare is forbidden.
//
// The ON CONFLICT clause updates every non-conflict column, which gives
// latest-write-wins semantics per row.
func (s *Store) Upsert(ctx context.Context, table string, conflictCols []string, rec *Record) error {
	stmt, err := s.cachedStmt(ctx, upsertSQL(table, conflictCols, rec.Columns()))
	if err != nil {
		return err
	}

	if _, err := stmt.ExecContext(ctx, rec.Values()...); err != nil {
		return fmt.Errorf("failed to upsert into %s.%s: %w", s.name, table, err)
	}
	return nil
}

// Update updates the record's columns on rows matching the predicate.
// The predicate is a WHERE fragment with ? placeholders; its arguments
// follow the record's values in bind order.
func (s *Store) Update(ctx context.Context, table string, rec *Record, predicate string, args ...any) error {
	stmt, err := s.cachedStmt(ctx, updateSQL(table, rec.Columns(), predicate))
	if err != nil {
		return err
	}

	bind := make([]any, 0, rec.Len()+len(args))
	bind = append(bind, rec.Values()...)
	bind = append(bind, args...)

	if _, err := stmt.ExecContext(ctx, bind...); err != nil {
		return fmt.Errorf("failed to update %s.%s: %w", s.name, table, err)
	}
	return nil
}

// InsertIgnore inserts the record, silently keeping the existing row on
// conflict. Used for insert-if-absent semantics (systems from route
// echoes must never overwrite stored coordinates).
func (s *Store) InsertIgnore(ctx context.Context, table string, rec *Record) error {
	stmt, err := s.cachedStmt(ctx, insertIgnoreSQL(table, rec.Columns()))
	if err != nil {
		return err
	}

	if _, err := stmt.ExecContext(ctx, rec.Values()...); err != nil {
		return fmt.Errorf("failed to insert into %s.%s: %w", s.name, table, err)
	}
	return nil
}

// cachedStmt returns the prepared statement for sqlText, preparing it on
// first use. Double-checked locking keeps the hot path on the read lock.
func (s *Store) cachedStmt(ctx context.Context, sqlText string) (*sql.Stmt, error) {
	key := stmtKey(s.path, sqlText)

	s.stmtCacheMu.RLock()
	stmt, ok := s.stmtCache[key]
	s.stmtCacheMu.RUnlock()
	if ok {
		return stmt, nil
	}

	s.stmtCacheMu.Lock()
	defer s.stmtCacheMu.Unlock()

	if stmt, ok := s.stmtCache[key]; ok {
		return stmt, nil
	}

	stmt, err := s.conn.PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement for %s: %w", s.name, err)
	}
	s.stmtCache[key] = stmt
	return stmt, nil
}

// StmtCacheSize returns the number of cached statements.
func (s *Store) StmtCacheSize() int {
	s.stmtCacheMu.RLock()
	defer s.stmtCacheMu.RUnlock()
	return len(s.stmtCache)
}

// stmtKey digests the store path and statement text into a cache key.
func stmtKey(path, sqlText string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(path+"|"+sqlText))
}

func upsertSQL(table string, conflictCols, cols []string) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(placeholders(len(cols)))
	b.WriteString(") ON CONFLICT (")
	b.WriteString(strings.Join(conflictCols, ", "))
	b.WriteString(") DO UPDATE SET ")

	conflict := make(map[string]bool, len(conflictCols))
	for _, c := range conflictCols {
		conflict[c] = true
	}

	first := true
	for _, c := range cols {
		if conflict[c] {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		b.WriteString(c)
		b.WriteString(" = excluded.")
		b.WriteString(c)
		first = false
	}

	// Every column is a conflict column: nothing to update.
	if first {
		return insertIgnoreSQL(table, cols)
	}
	return b.String()
}

func updateSQL(table string, cols []string, predicate string) string {
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c)
		b.WriteString(" = ?")
	}
	b.WriteString(" WHERE ")
	b.WriteString(predicate)
	return b.String()
}

func insertIgnoreSQL(table string, cols []string) string {
	var b strings.Builder
	b.WriteString("INSERT OR IGNORE INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(placeholders(len(cols)))
	b.WriteString(")")
	return b.String()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
