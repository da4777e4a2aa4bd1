// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/tomtom215/mercator/internal/logging"
)

// Stores bundles the four live store handles.
type Stores struct {
	Systems   *Store
	Locations *Store
	Stations  *Store
	Trade     *Store
}

// OpenAll opens the four stores under dataDir, creates their schemas,
// runs pending migrations and checks integrity. A failed integrity check
// marks that store degraded but does not abort startup; the operator
// must restore from backup.
func OpenAll(ctx context.Context, dataDir string, skipExpensiveIndexes bool) (*Stores, error) {
	stores := &Stores{}

	specs := []struct {
		name string
		file string
		dest **Store
	}{
		{SystemsStore, SystemsDB, &stores.Systems},
		{LocationsStore, LocationsDB, &stores.Locations},
		{StationsStore, StationsDB, &stores.Stations},
		{TradeStore, TradeDB, &stores.Trade},
	}

	for _, spec := range specs {
		store, err := Open(spec.name, filepath.Join(dataDir, spec.file))
		if err != nil {
			stores.CloseAll()
			return nil, err
		}
		*spec.dest = store

		if err := store.InitSchema(ctx, skipExpensiveIndexes); err != nil {
			stores.CloseAll()
			return nil, err
		}

		if err := store.IntegrityCheck(ctx); err != nil {
			// Fatal for this store, not for the process (the other
			// stores keep ingesting); surfaced via /health.
			logging.Error().Err(err).Str("store", spec.name).Msg("Store integrity check failed; restore from backup required")
		}
	}

	return stores, nil
}

// All returns the stores in their canonical order.
func (s *Stores) All() []*Store {
	return []*Store{s.Systems, s.Locations, s.Stations, s.Trade}
}

// ByName returns the store with the given short name.
func (s *Stores) ByName(name string) (*Store, error) {
	switch name {
	case SystemsStore:
		return s.Systems, nil
	case LocationsStore:
		return s.Locations, nil
	case StationsStore:
		return s.Stations, nil
	case TradeStore:
		return s.Trade, nil
	default:
		return nil, fmt.Errorf("unknown store %q", name)
	}
}

// DegradedNames returns the names of stores that failed their last
// integrity check, in canonical order.
func (s *Stores) DegradedNames() []string {
	var names []string
	for _, store := range s.All() {
		if store != nil && store.Degraded() {
			names = append(names, store.Name())
		}
	}
	return names
}

// CloseAll closes every opened store. Safe to call with partially opened
// sets during startup failure cleanup.
func (s *Stores) CloseAll() {
	for _, store := range s.All() {
		if store == nil {
			continue
		}
		if err := store.Close(); err != nil {
			logging.Warn().Err(err).Str("store", store.Name()).Msg("Failed to close store")
		}
	}
}
