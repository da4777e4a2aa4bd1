// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/mercator/internal/logging"
)

// Migration is one versioned, additive schema change. Migrations MUST be
// append-only: never modify or remove an entry once deployed databases
// carry it. Columns are never renamed or dropped.
type Migration struct {
	Version     int
	Name        string
	Description string
	Table       string
	Column      string // probed via pragma_table_info before applying
	SQL         string
	AppliedAt   time.Time
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// storeMigrations lists migrations per store in version order.
//
// The stations store predates fleet-carrier docking metadata, so those
// columns arrive here rather than in the base schema: files created
// before the columns existed upgrade in place on startup.
var storeMigrations = map[string][]Migration{
	StationsStore: {
		{
			Version: 1, Name: "add_prohibited",
			Description: "Prohibited commodity list for markets that publish one",
			Table:       "stations", Column: "prohibited",
			SQL: `ALTER TABLE stations ADD COLUMN prohibited TEXT;`,
		},
		{
			Version: 2, Name: "add_carrier_docking_access",
			Description: "Fleet carrier docking access (all|squadronFriends|none)",
			Table:       "stations", Column: "carrierDockingAccess",
			SQL: `ALTER TABLE stations ADD COLUMN carrierDockingAccess TEXT;`,
		},
	},
}

// runMigrations applies the store's pending migrations in order. A
// migration is skipped when its version is recorded or its column is
// already present (files imported from other deployments may carry the
// column without the record).
func (s *Store) runMigrations(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table for %s: %w", s.name, err)
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	newMigrations := 0
	for _, m := range storeMigrations[s.name] {
		if _, exists := applied[m.Version]; exists {
			continue
		}

		hasCol, err := s.hasColumn(ctx, m.Table, m.Column)
		if err != nil {
			return err
		}

		if !hasCol {
			if _, err := s.conn.ExecContext(ctx, m.SQL); err != nil {
				return fmt.Errorf("failed to execute migration v%d (%s) on %s: %w", m.Version, m.Name, s.name, err)
			}
		}

		if _, err := s.conn.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, description) VALUES (?, ?, ?);`,
			m.Version, m.Name, m.Description); err != nil {
			return fmt.Errorf("failed to record migration v%d on %s: %w", m.Version, s.name, err)
		}
		newMigrations++
	}

	if newMigrations > 0 {
		logging.Info().Str("store", s.name).Int("count", newMigrations).Msg("Applied schema migrations")
	}
	return nil
}

// appliedMigrations returns a map of version to Migration for all
// recorded migrations.
func (s *Store) appliedMigrations(ctx context.Context) (map[int]Migration, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT version, name, COALESCE(description, ''), applied_at FROM schema_migrations ORDER BY version;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations for %s: %w", s.name, err)
	}
	defer rows.Close()

	applied := make(map[int]Migration)
	for rows.Next() {
		var m Migration
		var appliedAt string
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		if t, err := time.Parse("2006-01-02 15:04:05", appliedAt); err == nil {
			m.AppliedAt = t
		}
		applied[m.Version] = m
	}
	return applied, rows.Err()
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version for %s: %w", s.name, err)
	}
	return version, nil
}
