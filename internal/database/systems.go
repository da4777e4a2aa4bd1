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
)

// OriginSystemName is the one system legitimately located at (0,0,0).
// Zero coordinates on any other system indicate an uninitialized payload
// and are rejected.
const OriginSystemName = "Sol"

// System is one row of the systems store.
type System struct {
	Address   int64
	Name      string
	X         float64
	Y         float64
	Z         float64
	Sector    string
	UpdatedAt string
}

// SystemByAddress returns the system with the given 64-bit address, or
// ErrNotFound.
func (s *Store) SystemByAddress(ctx context.Context, address int64) (*System, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT systemAddress, systemName, systemX, systemY, systemZ, systemSector, updatedAt
		FROM systems WHERE systemAddress = ?;`, address)
	return scanSystem(row)
}

// SystemByName returns the first system matching name case-insensitively,
// or ErrNotFound. Names are not unique in the galaxy, but reference
// systems used for regional reports are.
func (s *Store) SystemByName(ctx context.Context, name string) (*System, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT systemAddress, systemName, systemX, systemY, systemZ, systemSector, updatedAt
		FROM systems WHERE systemName = ? COLLATE NOCASE LIMIT 1;`, name)
	return scanSystem(row)
}

// InsertSystemIfAbsent inserts the system unless a row with the same
// address already exists. Existing coordinates are never overwritten:
// route-echo events lack coordinates and must not clobber a row written
// from a discovery scan.
func (s *Store) InsertSystemIfAbsent(ctx context.Context, sys *System) error {
	rec := NewRecord(7).
		Set("systemAddress", sys.Address).
		Set("systemName", sys.Name).
		Set("systemX", sys.X).
		Set("systemY", sys.Y).
		Set("systemZ", sys.Z).
		Set("systemSector", sys.Sector).
		Set("updatedAt", sys.UpdatedAt)
	return s.InsertIgnore(ctx, "systems", rec)
}

func scanSystem(row *sql.Row) (*System, error) {
	var sys System
	err := row.Scan(&sys.Address, &sys.Name, &sys.X, &sys.Y, &sys.Z, &sys.Sector, &sys.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan system row: %w", err)
	}
	return &sys, nil
}
