// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/metrics"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("database: row not found")

// schemaTimeout bounds DDL and maintenance statements.
const schemaTimeout = 5 * time.Minute

// Store wraps a single SQLite database file.
type Store struct {
	name string
	path string
	conn *sql.DB

	// Prepared statement cache, keyed by a digest of path and SQL text.
	// Never evicts; bounded by the number of distinct statement shapes.
	stmtCache   map[string]*sql.Stmt
	stmtCacheMu sync.RWMutex

	// degraded is set when an integrity check fails. The store stays
	// open (reads may still work) but /health reports it.
	degraded atomic.Bool
}

// Open opens (creating if necessary) the store at path with the tuned
// per-connection pragmas and a single-connection pool.
func Open(name, path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}

	// modernc.org/sqlite applies _pragma parameters on every new
	// connection. The pool is capped at one connection, so session-scoped
	// pragmas (temp_store, mmap_size, cache_size) hold for the process
	// lifetime and writes serialize without application-level locking.
	dsn := "file:" + path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=cache_size(-65536)" +
		"&_pragma=temp_store(MEMORY)" +
		"&_pragma=mmap_size(268435456)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", name, err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to store %s: %w", name, err)
	}

	return &Store{
		name:      name,
		path:      path,
		conn:      conn,
		stmtCache: make(map[string]*sql.Stmt),
	}, nil
}

// Name returns the store's short name (e.g. "trade").
func (s *Store) Name() string {
	return s.name
}

// Path returns the live database file path.
func (s *Store) Path() string {
	return s.path
}

// Conn returns the underlying connection pool for direct queries.
func (s *Store) Conn() *sql.DB {
	return s.conn
}

// Degraded reports whether the last integrity check failed.
func (s *Store) Degraded() bool {
	return s.degraded.Load()
}

// Close closes all cached statements and the connection.
func (s *Store) Close() error {
	s.stmtCacheMu.Lock()
	for _, stmt := range s.stmtCache {
		closeStmtQuietly(stmt)
	}
	s.stmtCache = make(map[string]*sql.Stmt)
	s.stmtCacheMu.Unlock()

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close store %s: %w", s.name, err)
	}
	return nil
}

// Checkpoint forces a WAL checkpoint so the main file reflects all
// committed writes. Used before file-level size checks.
func (s *Store) Checkpoint(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE);`); err != nil {
		return fmt.Errorf("failed to checkpoint store %s: %w", s.name, err)
	}
	return nil
}

// IntegrityCheck runs PRAGMA integrity_check and updates the degraded
// flag. A failure is fatal-for-this-store but never terminates the
// process; the operator must restore from backup.
func (s *Store) IntegrityCheck(ctx context.Context) error {
	var result string
	if err := s.conn.QueryRowContext(ctx, `PRAGMA integrity_check;`).Scan(&result); err != nil {
		s.setDegraded(true)
		return fmt.Errorf("failed to run integrity check on %s: %w", s.name, err)
	}
	if result != "ok" {
		s.setDegraded(true)
		return fmt.Errorf("integrity check failed on %s: %s", s.name, result)
	}
	s.setDegraded(false)
	return nil
}

// VacuumInto writes a defragmented, consistent copy of the store to dest.
// This is the engine's online-copy primitive: it takes only a brief read
// lock on the source, so it is safe to run against the live file.
func (s *Store) VacuumInto(ctx context.Context, dest string) error {
	if _, err := s.conn.ExecContext(ctx, `VACUUM INTO ?;`, dest); err != nil {
		return fmt.Errorf("failed to vacuum %s into %s: %w", s.name, dest, err)
	}
	return nil
}

// Vacuum rebuilds the store file in place to reclaim deleted pages.
// Temp storage is switched to disk for the duration so large rebuilds
// survive small-RAM hosts, then restored to memory. Callers must hold
// the maintenance write-lock.
func (s *Store) Vacuum(ctx context.Context) error {
	start := time.Now()

	if _, err := s.conn.ExecContext(ctx, `PRAGMA temp_store = FILE;`); err != nil {
		return fmt.Errorf("failed to set temp_store for vacuum on %s: %w", s.name, err)
	}
	defer func() {
		if _, err := s.conn.ExecContext(ctx, `PRAGMA temp_store = MEMORY;`); err != nil {
			logging.Warn().Err(err).Str("store", s.name).Msg("Failed to restore in-memory temp store after vacuum")
		}
	}()

	if _, err := s.conn.ExecContext(ctx, `VACUUM;`); err != nil {
		return fmt.Errorf("failed to vacuum store %s: %w", s.name, err)
	}

	duration := time.Since(start)
	metrics.VacuumDuration.WithLabelValues(s.name).Observe(duration.Seconds())
	logging.Info().Str("store", s.name).Dur("duration", duration).Msg("Vacuum completed")
	return nil
}

// Analyze refreshes the query planner statistics. Run after index
// creation or large churn.
func (s *Store) Analyze(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, `ANALYZE;`); err != nil {
		return fmt.Errorf("failed to analyze store %s: %w", s.name, err)
	}
	return nil
}

// RowCount returns the number of rows in a table.
func (s *Store) RowCount(ctx context.Context, table string) (int64, error) {
	var count int64
	// Table names come from the static schema, never from input.
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+`;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s.%s: %w", s.name, table, err)
	}
	return count, nil
}

// HasTable reports whether a table exists in the store.
func (s *Store) HasTable(ctx context.Context, table string) (bool, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?;`,
		table).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to probe table %s.%s: %w", s.name, table, err)
	}
	return count > 0, nil
}

// hasColumn probes pragma_table_info for a column. Used by the additive
// migration runner.
func (s *Store) hasColumn(ctx context.Context, table, column string) (bool, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?;`,
		table, column).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to probe column %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}

func (s *Store) setDegraded(degraded bool) {
	s.degraded.Store(degraded)
	metrics.SetStoreDegraded(s.name, degraded)
}

// schemaContext returns a context bounded by the DDL timeout.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), schemaTimeout)
}

func closeQuietly(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close database connection")
	}
}

func closeStmtQuietly(stmt *sql.Stmt) {
	if err := stmt.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close prepared statement")
	}
}
