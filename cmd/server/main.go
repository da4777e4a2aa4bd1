// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package main is the entry point for the Mercator collector.
//
// Mercator is a continuously running collector for the Elite Dangerous
// Data Network (EDDN). It subscribes to the public ZeroMQ firehose,
// normalizes commodity, journal, route and scan events into four
// embedded SQLite stores, and periodically renders JSON market
// analytics into a cache directory for a separate static file server
// to publish.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and optional YAML (Koanf v2)
//  2. Storage: data, cache, backup and downloads directories
//  3. Databases: the systems, locations, stations and trade stores
//  4. Snapshots: read-only copies the analytics generators run against
//  5. Maintenance: write-lock, backup/retention manager, scheduler
//  6. Ingestion: ZeroMQ subscriber and schema handlers
//  7. HTTP: the embedded control surface (status, health, metrics)
//  8. Supervision: everything long-running goes under a suture tree
//
// # Signal Handling
//
// The collector handles graceful shutdown on SIGINT and SIGTERM: the
// subscriber drains its buffered events, the HTTP server drains active
// connections, and the stores are closed after the tree stops.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/mercator/internal/api"
	"github.com/tomtom215/mercator/internal/config"
	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/eddn"
	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/maintenance"
	"github.com/tomtom215/mercator/internal/sector"
	"github.com/tomtom215/mercator/internal/snapshot"
	"github.com/tomtom215/mercator/internal/stats"
	"github.com/tomtom215/mercator/internal/supervisor"
	"github.com/tomtom215/mercator/internal/supervisor/services"
)

// Build identity, overridden at build time via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("commit", commit).
		Str("feed", cfg.Feed.URL).
		Str("data_dir", cfg.Storage.DataDir).
		Msg("Starting Mercator")

	for _, dir := range []string{
		cfg.Storage.DataDir,
		cfg.Storage.ResolvedCacheDir(),
		cfg.Storage.BackupDir,
		cfg.Storage.DownloadsDir,
	} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			logging.Fatal().Err(err).Str("dir", dir).Msg("Failed to create directory")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := database.OpenAll(ctx, cfg.Storage.DataDir, cfg.Features.SkipExpensiveIndexes)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open databases")
	}
	defer stores.CloseAll()

	for _, store := range stores.All() {
		table := database.RequiredTables[store.Name()][0]
		rows, err := store.RowCount(ctx, table)
		if err != nil {
			logging.Warn().Err(err).Str("store", store.Name()).Msg("Failed to count rows at startup")
			continue
		}
		logging.Info().Str("store", store.Name()).Int64("rows", rows).Msg("Store opened")
	}

	snapshots := snapshot.NewManager(stores, cfg.Storage.SnapshotDir(), cfg.Snapshot.Freshness)
	generator := stats.NewGenerator(snapshots, cfg.Storage.ResolvedCacheDir(),
		cfg.Stats, cfg.Features.SkipRegionalReports)

	lock := maintenance.NewLock()
	manager := maintenance.NewManager(stores, lock, snapshots, cfg.Storage, cfg.Retention)
	scheduler := maintenance.NewScheduler(manager, generator, cfg.Maintenance, cfg.Snapshot.Freshness)

	grid := sector.NewGrid(cfg.Sector.GridSize, cfg.Sector.HashLength)
	handlers := eddn.NewHandlers(stores, grid)
	ingestor := eddn.NewIngestor(eddn.Config{
		URL:               cfg.Feed.URL,
		DedupMax:          cfg.Ingest.DedupMax,
		DecompressTimeout: cfg.Ingest.DecompressTimeout,
	}, handlers, lock)

	apiHandlers := api.NewHandlers(stores, lock, ingestor,
		cfg.Storage.ResolvedCacheDir(), version, cfg.Server.CacheControl)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      apiHandlers.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// The first backup runs before ingestion starts so a fresh install
	// always has a verified copy before the stores take writes.
	if err := manager.RunStartupBackup(ctx, cfg.Features.SkipStartupMaintenance); err != nil {
		logging.Error().Err(err).Msg("Startup backup failed; continuing")
	}

	// zerolog bridged to slog for sutureslog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddStreamService(ingestor)
	tree.AddMaintenanceService(scheduler)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("Supervisor tree assembled")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutting down, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Collector stopped gracefully")
}
