// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Feed.URL != "tcp://eddn.edcd.io:9500" {
		t.Errorf("Expected default feed URL, got %q", cfg.Feed.URL)
	}
	if cfg.Server.Port != 3001 {
		t.Errorf("Expected default port 3001, got %d", cfg.Server.Port)
	}
	if cfg.Ingest.DedupMax != 50000 {
		t.Errorf("Expected default dedup max 50000, got %d", cfg.Ingest.DedupMax)
	}
	if cfg.Ingest.DecompressTimeout != 5*time.Second {
		t.Errorf("Expected default decompress timeout 5s, got %s", cfg.Ingest.DecompressTimeout)
	}
	if cfg.Maintenance.Day != 4 || cfg.Maintenance.StartHour != 7 || cfg.Maintenance.EndHour != 9 {
		t.Errorf("Expected default window Thursday 7-9, got day=%d %d-%d",
			cfg.Maintenance.Day, cfg.Maintenance.StartHour, cfg.Maintenance.EndHour)
	}
	if cfg.Retention.TradeDays != 90 {
		t.Errorf("Expected default trade retention 90, got %d", cfg.Retention.TradeDays)
	}
	if cfg.Sector.GridSize != 100 || cfg.Sector.HashLength != 16 {
		t.Errorf("Expected default sector grid 100/16, got %g/%d",
			cfg.Sector.GridSize, cfg.Sector.HashLength)
	}
	if cfg.Snapshot.Freshness != 2*time.Hour {
		t.Errorf("Expected default snapshot freshness 2h, got %s", cfg.Snapshot.Freshness)
	}
	if len(cfg.Stats.Regions) != 2 {
		t.Fatalf("Expected 2 default regions, got %d", len(cfg.Stats.Regions))
	}
	if cfg.Stats.Regions[0].System != "Sol" || cfg.Stats.Regions[1].System != "Colonia" {
		t.Errorf("Expected default regions Sol and Colonia, got %+v", cfg.Stats.Regions)
	}
	if !strings.Contains(cfg.Server.CacheControl, "stale-while-revalidate") {
		t.Errorf("Expected default cache-control with stale-while-revalidate, got %q", cfg.Server.CacheControl)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MERCATOR_EDDN_URL", "tcp://localhost:9500")
	t.Setenv("MERCATOR_HTTP_PORT", "8080")
	t.Setenv("MERCATOR_DATA_DIR", "/var/lib/mercator")
	t.Setenv("MERCATOR_TRADE_RETENTION_DAYS", "30")
	t.Setenv("MERCATOR_SKIP_REGIONAL_REPORTS", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Feed.URL != "tcp://localhost:9500" {
		t.Errorf("Expected env feed URL, got %q", cfg.Feed.URL)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected env port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/var/lib/mercator" {
		t.Errorf("Expected env data dir, got %q", cfg.Storage.DataDir)
	}
	if cfg.Retention.TradeDays != 30 {
		t.Errorf("Expected env trade retention 30, got %d", cfg.Retention.TradeDays)
	}
	if !cfg.Features.SkipRegionalReports {
		t.Error("Expected skip_regional_reports true from env")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected env log level debug, got %q", cfg.Logging.Level)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mercator.yaml")
	content := []byte("server:\n  port: 4100\nmaintenance:\n  day: 2\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 4100 {
		t.Errorf("Expected file port 4100, got %d", cfg.Server.Port)
	}
	if cfg.Maintenance.Day != 2 {
		t.Errorf("Expected file maintenance day 2, got %d", cfg.Maintenance.Day)
	}
	// Unset values keep their defaults
	if cfg.Feed.URL != "tcp://eddn.edcd.io:9500" {
		t.Errorf("Expected default feed URL to survive file layer, got %q", cfg.Feed.URL)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mercator.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 4100\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("MERCATOR_HTTP_PORT", "5200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 5200 {
		t.Errorf("Expected env to beat file, got port %d", cfg.Server.Port)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty feed url", func(c *Config) { c.Feed.URL = "" }, "MERCATOR_EDDN_URL"},
		{"schemeless feed url", func(c *Config) { c.Feed.URL = "eddn.edcd.io:9500" }, "MERCATOR_EDDN_URL"},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = "" }, "MERCATOR_DATA_DIR"},
		{"dedup too small", func(c *Config) { c.Ingest.DedupMax = 1 }, "MERCATOR_DEDUP_MAX"},
		{"bad day", func(c *Config) { c.Maintenance.Day = 7 }, "MERCATOR_MAINTENANCE_DAY"},
		{"window inverted", func(c *Config) { c.Maintenance.StartHour, c.Maintenance.EndHour = 9, 7 }, "MERCATOR_MAINTENANCE_END_HOUR"},
		{"negative retention", func(c *Config) { c.Retention.TradeDays = -1 }, "MERCATOR_TRADE_RETENTION_DAYS"},
		{"zero grid", func(c *Config) { c.Sector.GridSize = 0 }, "MERCATOR_SECTOR_GRID_SIZE"},
		{"hash too long", func(c *Config) { c.Sector.HashLength = 32 }, "MERCATOR_SECTOR_HASH_LENGTH"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "MERCATOR_HTTP_PORT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"region missing system", func(c *Config) { c.Stats.Regions = []Region{{Name: "Core"}} }, "stats.regions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error to mention %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestStorageConfig_Paths(t *testing.T) {
	s := StorageConfig{DataDir: "/data", BackupDir: "/backup"}

	if got := s.ResolvedCacheDir(); got != filepath.Join("/data", "cache") {
		t.Errorf("Expected cache dir under data dir, got %q", got)
	}
	if got := s.SnapshotDir(); got != filepath.Join("/data", ".snapshots") {
		t.Errorf("Expected snapshot dir under data dir, got %q", got)
	}
	if got := s.DatabasePath("trade.db"); got != filepath.Join("/data", "trade.db") {
		t.Errorf("Expected database path under data dir, got %q", got)
	}
	if got := s.BackupLogPath(); got != filepath.Join("/backup", "backup.log") {
		t.Errorf("Expected backup log under backup dir, got %q", got)
	}

	s.CacheDir = "/elsewhere"
	if got := s.ResolvedCacheDir(); got != "/elsewhere" {
		t.Errorf("Expected explicit cache dir honored, got %q", got)
	}
}

func TestMaintenanceConfig_InWindow(t *testing.T) {
	m := MaintenanceConfig{Day: 4, StartHour: 7, EndHour: 9}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"thursday 07:00", time.Date(2026, 1, 1, 7, 0, 0, 0, time.UTC), true},  // 2026-01-01 is a Thursday
		{"thursday 08:59", time.Date(2026, 1, 1, 8, 59, 0, 0, time.UTC), true},
		{"thursday 09:00", time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), false},
		{"thursday 06:59", time.Date(2026, 1, 1, 6, 59, 0, 0, time.UTC), false},
		{"friday 07:30", time.Date(2026, 1, 2, 7, 30, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.InWindow(tt.t); got != tt.want {
				t.Errorf("InWindow(%s) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}
