// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration loaded from environment variables
// and an optional YAML config file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file for persistent settings
//  3. Environment Variables: Override any setting
//
// Configuration Categories:
//
//  1. Feed: Upstream event stream subscription (ZeroMQ endpoint)
//  2. Storage: Data, cache, backup and downloads directories
//  3. Maintenance: Weekly window, vacuum schedule, stats cadence
//  4. Retention: Row age horizons for the trade store sweeps
//  5. Sector: Spatial grid used for coarse geographic indexing
//  6. Server: Embedded HTTP control surface
//  7. Features: Flags for fast restarts and slow-report skipping
//  8. Logging: Level and output format
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access
// from multiple goroutines.
type Config struct {
	Feed        FeedConfig        `koanf:"feed"`
	Storage     StorageConfig     `koanf:"storage"`
	Ingest      IngestConfig      `koanf:"ingest"`
	Maintenance MaintenanceConfig `koanf:"maintenance"`
	Retention   RetentionConfig   `koanf:"retention"`
	Sector      SectorConfig      `koanf:"sector"`
	Snapshot    SnapshotConfig    `koanf:"snapshot"`
	Stats       StatsConfig       `koanf:"stats"`
	Server      ServerConfig      `koanf:"server"`
	Features    FeatureConfig     `koanf:"features"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// FeedConfig holds the upstream publish/subscribe feed settings.
//
// Environment Variables:
//   - MERCATOR_EDDN_URL: Subscriber endpoint (default: tcp://eddn.edcd.io:9500)
type FeedConfig struct {
	// URL is the ZeroMQ endpoint the subscriber connects to.
	URL string `koanf:"url"`
}

// StorageConfig holds the directory roots used by the collector.
// All paths are created at startup if absent.
type StorageConfig struct {
	// DataDir holds the live database files plus the cache/ and
	// .snapshots/ subdirectories.
	DataDir string `koanf:"data_dir"`

	// CacheDir holds the generated JSON reports. Defaults to
	// <data_dir>/cache when empty.
	CacheDir string `koanf:"cache_dir"`

	// BackupDir receives verified online copies of each database.
	BackupDir string `koanf:"backup_dir"`

	// DownloadsDir is published by the out-of-process uploader; the
	// collector only ensures it exists.
	DownloadsDir string `koanf:"downloads_dir"`
}

// IngestConfig tunes the ingestion loop.
type IngestConfig struct {
	// DedupMax is the soft cap of the deduplication set. When exceeded
	// the oldest half of the entries is dropped.
	DedupMax int `koanf:"dedup_max"`

	// DecompressTimeout is the per-frame wall-clock deadline for zlib
	// decompression. Frames that exceed it are dropped.
	DecompressTimeout time.Duration `koanf:"decompress_timeout"`
}

// MaintenanceConfig describes the weekly maintenance window and the
// recurring analytics cadence. Days use time.Weekday numbering
// (0 = Sunday). All hours are UTC.
type MaintenanceConfig struct {
	// Day is the weekday of the maintenance window.
	Day int `koanf:"day"`

	// StartHour opens the window: write-lock, sweeps, vacuum, backup.
	StartHour int `koanf:"start_hour"`

	// EndHour closes the window: per-commodity stats regeneration.
	EndHour int `koanf:"end_hour"`

	// VacuumDay and VacuumHour schedule the weekly trade-store vacuum.
	VacuumDay  int `koanf:"vacuum_day"`
	VacuumHour int `koanf:"vacuum_hour"`

	// StatsInterval is the cadence of combined stats regeneration.
	StatsInterval time.Duration `koanf:"stats_interval"`
}

// RetentionConfig holds the row-age horizons applied by the retention
// sweep. A horizon of zero disables that sweep.
type RetentionConfig struct {
	// TradeDays ages out ordinary market rows.
	TradeDays int `koanf:"trade_days"`

	// RescueShipDays ages out rows belonging to rescue-ship markets,
	// which relocate frequently enough that week-old prices mislead.
	RescueShipDays int `koanf:"rescue_ship_days"`

	// FleetCarrierDays ages out rows belonging to fleet carriers.
	FleetCarrierDays int `koanf:"fleet_carrier_days"`
}

// SectorConfig tunes the spatial sector hasher. Changing either value
// invalidates every stored sector id and requires a full rebuild.
type SectorConfig struct {
	// GridSize is the cube side in light-years.
	GridSize float64 `koanf:"grid_size"`

	// HashLength is the sector id length in hex characters (max 16).
	HashLength int `koanf:"hash_length"`
}

// SnapshotConfig tunes the snapshot manager.
type SnapshotConfig struct {
	// Freshness is the maximum snapshot age considered usable by the
	// stats generators without a refresh.
	Freshness time.Duration `koanf:"freshness"`
}

// Region names a reference system for regional commodity reports.
type Region struct {
	// Name is the human-readable region label used in file names.
	Name string `koanf:"name"`

	// System is the reference system resolved against the systems store.
	System string `koanf:"system"`
}

// StatsConfig tunes the analytics generators.
type StatsConfig struct {
	// RegionalRadiusLY bounds the sphere around each reference system.
	RegionalRadiusLY float64 `koanf:"regional_radius_ly"`

	// RegionalMinVolume is the minimum stock/demand for a market to
	// qualify as an exporter/importer in regional reports.
	RegionalMinVolume int `koanf:"regional_min_volume"`

	// Regions lists the reference systems reports are generated for.
	// Only configurable via YAML; defaults to the core systems and the
	// Colonia region.
	Regions []Region `koanf:"regions"`
}

// ServerConfig holds the embedded HTTP control surface settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`

	// CacheControl is sent verbatim on every response so an edge cache
	// in front of the collector can serve stale data during windows.
	CacheControl string `koanf:"cache_control"`
}

// FeatureConfig holds operational flags.
type FeatureConfig struct {
	// SkipStartupMaintenance suppresses the immediate backup normally
	// triggered when no backup log exists. Useful for fast restarts.
	SkipStartupMaintenance bool `koanf:"skip_startup_maintenance"`

	// SkipRegionalReports disables the slow regional report pass.
	SkipRegionalReports bool `koanf:"skip_regional_reports"`

	// SkipExpensiveIndexes leaves out secondary indexes that take a
	// long time to build on very large existing databases.
	SkipExpensiveIndexes bool `koanf:"skip_expensive_indexes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ResolvedCacheDir returns the cache directory, defaulting to a cache/
// subdirectory of the data directory.
func (s StorageConfig) ResolvedCacheDir() string {
	if s.CacheDir != "" {
		return s.CacheDir
	}
	return filepath.Join(s.DataDir, "cache")
}

// SnapshotDir returns the snapshot directory under the data root. The
// directory is disposable; its contents are rebuilt on every refresh.
func (s StorageConfig) SnapshotDir() string {
	return filepath.Join(s.DataDir, ".snapshots")
}

// DatabasePath returns the live path of a named store file.
func (s StorageConfig) DatabasePath(name string) string {
	return filepath.Join(s.DataDir, name)
}

// BackupLogPath returns the append-only backup attempt log.
func (s StorageConfig) BackupLogPath() string {
	return filepath.Join(s.BackupDir, "backup.log")
}

// BackupReportPath returns the latest verification report file.
func (s StorageConfig) BackupReportPath() string {
	return filepath.Join(s.BackupDir, "backup.json")
}

// InWindow reports whether the instant t falls inside the maintenance
// window on the configured weekday.
func (m MaintenanceConfig) InWindow(t time.Time) bool {
	t = t.UTC()
	if int(t.Weekday()) != m.Day {
		return false
	}
	return t.Hour() >= m.StartHour && t.Hour() < m.EndHour
}
