// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// retentionChunkSize bounds the IN lists used by market-scoped sweeps so
// statements stay under the engine's bound-parameter limit.
const retentionChunkSize = 500

// UpsertTradeOrder writes the record keyed by (commodityName, marketId).
// Exactly one row exists per pair; the latest write wins.
func (s *Store) UpsertTradeOrder(ctx context.Context, rec *Record) error {
	return s.Upsert(ctx, "commodities", []string{"commodityName", "marketId"}, rec)
}

// DeleteTradeOlderThan removes trade rows not updated since cutoff.
// Returns the number of rows deleted.
func (s *Store) DeleteTradeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM commodities WHERE updatedAt < ?;`,
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to delete aged trade rows: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted trade rows: %w", err)
	}
	return deleted, nil
}

// DeleteTradeForMarketsOlderThan removes trade rows belonging to the
// given markets and not updated since cutoff. Market ids are chunked
// into bounded IN lists.
func (s *Store) DeleteTradeForMarketsOlderThan(ctx context.Context, marketIDs []int64, cutoff time.Time) (int64, error) {
	cutoffStr := cutoff.UTC().Format(time.RFC3339)

	var total int64
	for start := 0; start < len(marketIDs); start += retentionChunkSize {
		end := start + retentionChunkSize
		if end > len(marketIDs) {
			end = len(marketIDs)
		}
		chunk := marketIDs[start:end]

		args := make([]any, 0, len(chunk)+1)
		args = append(args, cutoffStr)
		for _, id := range chunk {
			args = append(args, id)
		}

		stmt := `DELETE FROM commodities WHERE updatedAt < ? AND marketId IN (` +
			placeholders(len(chunk)) + `);`
		res, err := s.conn.ExecContext(ctx, stmt, args...)
		if err != nil {
			return total, fmt.Errorf("failed to delete trade rows for markets: %w", err)
		}
		deleted, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("failed to count deleted trade rows: %w", err)
		}
		total += deleted
	}
	return total, nil
}

// TradeRowState returns a compact fingerprint of a trade row for tests
// and verification tooling.
func (s *Store) TradeRowState(ctx context.Context, commodity string, marketID int64) (string, error) {
	var buy, sell, mean, stock, demand int64
	var updatedAt string
	err := s.conn.QueryRowContext(ctx, `
		SELECT buyPrice, sellPrice, meanPrice, stock, demand, updatedAt
		FROM commodities WHERE commodityName = ? AND marketId = ?;`,
		commodity, marketID).Scan(&buy, &sell, &mean, &stock, &demand, &updatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to read trade row (%s, %d): %w", commodity, marketID, err)
	}
	return fmt.Sprintf("%d|%d|%d|%d|%d|%s", buy, sell, mean, stock, demand, updatedAt), nil
}

// DistinctCommodityNames returns every commodity name present in the
// store, lower-cased and sorted by the engine's default ordering.
func (s *Store) DistinctCommodityNames(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT DISTINCT LOWER(commodityName) FROM commodities ORDER BY 1;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct commodities: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan commodity name: %w", err)
		}
		names = append(names, strings.TrimSpace(name))
	}
	return names, rows.Err()
}
