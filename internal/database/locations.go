// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/mercator/internal/sector"
)

// ExcludedLocationPrefix filters construction sites out of the locations
// store. They are transient scaffolding, not points of interest.
const ExcludedLocationPrefix = "Planetary Construction Site:"

// LocationID derives the content-hash primary key of a location row from
// its identifying fields. The same fields always produce the same id, so
// repeated approach events update in place.
func LocationID(systemAddress int64, name string, bodyID int64, latitude, longitude float64) string {
	key := strconv.FormatInt(systemAddress, 10) + "|" +
		name + "|" +
		strconv.FormatInt(bodyID, 10) + "|" +
		strconv.FormatFloat(latitude, 'f', -1, 64) + "|" +
		strconv.FormatFloat(longitude, 'f', -1, 64)
	return sector.Digest(key)
}

// IsExcludedLocation reports whether a location name matches the
// excluded construction-site prefix.
func IsExcludedLocation(name string) bool {
	return strings.HasPrefix(name, ExcludedLocationPrefix)
}

// UpsertLocation writes the record keyed by locationId.
func (s *Store) UpsertLocation(ctx context.Context, rec *Record) error {
	return s.Upsert(ctx, "locations", []string{"locationId"}, rec)
}

// LocationExists reports whether a row with the given locationId exists.
func (s *Store) LocationExists(ctx context.Context, locationID string) (bool, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM locations WHERE locationId = ?;`, locationID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to probe location %s: %w", locationID, err)
	}
	return count > 0, nil
}
