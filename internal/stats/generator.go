// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package stats

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/config"
	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/metrics"
	"github.com/tomtom215/mercator/internal/snapshot"
)

// Generator produces the JSON analytics files from snapshot copies.
type Generator struct {
	snapshots *snapshot.Manager
	cacheDir  string
	cfg       config.StatsConfig

	// skipRegional disables the slow regional pass (feature flag).
	skipRegional bool

	// now is replaceable in tests for stable 24h windows.
	now func() time.Time

	log zerolog.Logger
}

// NewGenerator creates a stats generator writing under cacheDir.
func NewGenerator(snapshots *snapshot.Manager, cacheDir string,
	cfg config.StatsConfig, skipRegional bool) *Generator {
	return &Generator{
		snapshots:    snapshots,
		cacheDir:     cacheDir,
		cfg:          cfg,
		skipRegional: skipRegional,
		now:          time.Now,
		log:          logging.WithComponent("stats"),
	}
}

// CombinedFresh reports whether the combined cache files are all newer
// than maxAge. The 6-hourly run is skipped when snapshots are fresh and
// this holds.
func (g *Generator) CombinedFresh(maxAge time.Duration) bool {
	cutoff := time.Now().Add(-maxAge)
	for _, name := range []string{"database-stats.json", "commodities.json", "commodity-ticker.json"} {
		info, err := os.Stat(filepath.Join(g.cacheDir, name))
		if err != nil || info.ModTime().Before(cutoff) {
			return false
		}
	}
	return true
}

// GenerateCombined writes database-stats.json, commodities.json and
// commodity-ticker.json from fresh snapshots.
func (g *Generator) GenerateCombined(ctx context.Context) error {
	start := time.Now()
	err := g.generateCombined(ctx)
	metrics.RecordStatsRun("combined", time.Since(start), err)
	return err
}

func (g *Generator) generateCombined(ctx context.Context) error {
	set, err := g.openFresh(ctx)
	if err != nil {
		return err
	}
	defer set.Close()

	now := g.now()

	totals, err := collectTotals(ctx, set, now)
	if err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(g.cacheDir, "database-stats.json"), totals); err != nil {
		return err
	}

	aggregates, err := collectCommodityAggregates(ctx, set)
	if err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(g.cacheDir, "commodities.json"), aggregates); err != nil {
		return err
	}

	ticker, err := collectTicker(ctx, set, now)
	if err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(g.cacheDir, "commodity-ticker.json"), ticker); err != nil {
		return err
	}

	g.log.Info().
		Int64("systems", totals.Systems).
		Int64("trade_orders", totals.TradeOrders).
		Int("commodities", len(aggregates)).
		Msg("Combined stats generated")
	return nil
}

// GeneratePerCommodity writes one report.json per commodity plus the
// regional reports (unless disabled). Triggered at maintenance window
// end; this is the slow pass.
func (g *Generator) GeneratePerCommodity(ctx context.Context) error {
	start := time.Now()
	err := g.generatePerCommodity(ctx)
	metrics.RecordStatsRun("per-commodity", time.Since(start), err)
	return err
}

func (g *Generator) generatePerCommodity(ctx context.Context) error {
	set, err := g.openFresh(ctx)
	if err != nil {
		return err
	}
	defer set.Close()

	aggregates, err := collectCommodityAggregates(ctx, set)
	if err != nil {
		return err
	}
	for i := range aggregates {
		path := filepath.Join(commodityDir(g.cacheDir, aggregates[i].Name), "report.json")
		if err := writeJSON(path, &aggregates[i]); err != nil {
			return err
		}
	}
	g.log.Info().Int("commodities", len(aggregates)).Msg("Per-commodity reports generated")

	if g.skipRegional {
		g.log.Info().Msg("Regional reports disabled; skipping")
		return nil
	}
	return g.generateRegional(ctx, set)
}

func (g *Generator) generateRegional(ctx context.Context, set *snapshot.Set) error {
	radius := g.cfg.RegionalRadiusLY
	for _, region := range g.cfg.Regions {
		start := time.Now()
		reports, err := collectRegionalReports(ctx, set,
			region.Name, region.System, radius, g.cfg.RegionalMinVolume)
		if errors.Is(err, errReferenceSystemMissing) {
			// The reference has simply not been observed on the feed yet.
			// Coordinates are never fabricated; the next run retries.
			g.log.Warn().
				Str("region", region.Name).
				Str("system", region.System).
				Msg("Reference system unknown; regional report skipped")
			continue
		}
		if err != nil {
			metrics.RecordStatsRun("regional", time.Since(start), err)
			return fmt.Errorf("failed to build %s regional report: %w", region.Name, err)
		}

		fileName := fmt.Sprintf("%s-systems-%d-ly.json", regionSlug(region.Name), int(radius))
		for commodity, report := range reports {
			path := filepath.Join(commodityDir(g.cacheDir, commodity), fileName)
			if err := writeJSON(path, report); err != nil {
				return err
			}
		}

		metrics.RecordStatsRun("regional", time.Since(start), nil)
		g.log.Info().
			Str("region", region.Name).
			Int("commodities", len(reports)).
			Dur("duration", time.Since(start)).
			Msg("Regional reports generated")
	}
	return nil
}

// openFresh opens the snapshot set, refreshing once when stale. A
// second failure aborts this cycle; the scheduler retries later.
func (g *Generator) openFresh(ctx context.Context) (*snapshot.Set, error) {
	set, err := g.snapshots.Open(ctx)
	if err == nil {
		return set, nil
	}
	if !errors.Is(err, snapshot.ErrStale) {
		return nil, err
	}

	if err := g.snapshots.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to refresh stale snapshots: %w", err)
	}
	return g.snapshots.Open(ctx)
}
