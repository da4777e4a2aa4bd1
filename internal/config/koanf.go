// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found will be used. A sibling of the
// executable is also probed (see findConfigFile).
var DefaultConfigPaths = []string{
	"mercator.yaml",
	"mercator.yml",
	"/etc/mercator/config.yaml",
	"/etc/mercator/config.yml",
	"/etc/mercator.config",
}

// ConfigPathEnvVar is the environment variable that can override the
// config file path.
const ConfigPathEnvVar = "MERCATOR_CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			URL: "tcp://eddn.edcd.io:9500",
		},
		Storage: StorageConfig{
			DataDir:      "./data",
			CacheDir:     "", // resolved to <data_dir>/cache
			BackupDir:    "./backup",
			DownloadsDir: "./downloads",
		},
		Ingest: IngestConfig{
			DedupMax:          50000,
			DecompressTimeout: 5 * time.Second,
		},
		Maintenance: MaintenanceConfig{
			Day:           4, // Thursday
			StartHour:     7,
			EndHour:       9,
			VacuumDay:     0, // Sunday
			VacuumHour:    3,
			StatsInterval: 6 * time.Hour,
		},
		Retention: RetentionConfig{
			TradeDays:        90,
			RescueShipDays:   7,
			FleetCarrierDays: 90,
		},
		Sector: SectorConfig{
			GridSize:   100,
			HashLength: 16,
		},
		Snapshot: SnapshotConfig{
			Freshness: 2 * time.Hour,
		},
		Stats: StatsConfig{
			RegionalRadiusLY:  500,
			RegionalMinVolume: 1000,
			Regions: []Region{
				{Name: "Core", System: "Sol"},
				{Name: "Colonia", System: "Colonia"},
			},
		},
		Server: ServerConfig{
			Port:         3001,
			Host:         "0.0.0.0",
			Timeout:      30 * time.Second,
			CacheControl: "public, max-age=900, stale-while-revalidate=3600, stale-if-error=3600",
		},
		Features: FeatureConfig{
			SkipStartupMaintenance: false,
			SkipRegionalReports:    false,
			SkipExpensiveIndexes:   false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence: ENV > File > Defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	// Sibling of the executable, for bare deployments without /etc access
	if exe, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exe), "mercator.yaml")
		if _, err := os.Stat(sibling); err == nil {
			return sibling
		}
	}

	return ""
}

// envTransformFunc transforms environment variable names to koanf config
// paths. Only explicitly mapped variables are honored, so stray
// environment noise never pollutes the configuration.
//
// Examples:
//   - MERCATOR_EDDN_URL -> feed.url
//   - MERCATOR_DATA_DIR -> storage.data_dir
//   - MERCATOR_MAINTENANCE_DAY -> maintenance.day
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Feed mappings
		"mercator_eddn_url": "feed.url",

		// Storage mappings
		"mercator_data_dir":      "storage.data_dir",
		"mercator_cache_dir":     "storage.cache_dir",
		"mercator_backup_dir":    "storage.backup_dir",
		"mercator_downloads_dir": "storage.downloads_dir",

		// Ingest mappings
		"mercator_dedup_max":          "ingest.dedup_max",
		"mercator_decompress_timeout": "ingest.decompress_timeout",

		// Maintenance mappings
		"mercator_maintenance_day":        "maintenance.day",
		"mercator_maintenance_start_hour": "maintenance.start_hour",
		"mercator_maintenance_end_hour":   "maintenance.end_hour",
		"mercator_vacuum_day":             "maintenance.vacuum_day",
		"mercator_vacuum_hour":            "maintenance.vacuum_hour",
		"mercator_stats_interval":         "maintenance.stats_interval",

		// Retention mappings
		"mercator_trade_retention_days":   "retention.trade_days",
		"mercator_rescue_retention_days":  "retention.rescue_ship_days",
		"mercator_carrier_retention_days": "retention.fleet_carrier_days",

		// Sector mappings
		"mercator_sector_grid_size":   "sector.grid_size",
		"mercator_sector_hash_length": "sector.hash_length",

		// Snapshot mappings
		"mercator_snapshot_freshness": "snapshot.freshness",

		// Stats mappings
		"mercator_regional_radius":     "stats.regional_radius_ly",
		"mercator_regional_min_volume": "stats.regional_min_volume",

		// Server mappings
		"mercator_http_port":     "server.port",
		"mercator_http_host":     "server.host",
		"mercator_http_timeout":  "server.timeout",
		"mercator_cache_control": "server.cache_control",

		// Feature flags
		"mercator_skip_startup_maintenance": "features.skip_startup_maintenance",
		"mercator_skip_regional_reports":    "features.skip_regional_reports",
		"mercator_skip_expensive_indexes":   "features.skip_expensive_indexes",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	return ""
}
