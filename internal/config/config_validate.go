// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for consistency. Errors name the
// environment variable that controls the offending value.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateFeed,
		c.validateStorage,
		c.validateIngest,
		c.validateMaintenance,
		c.validateRetention,
		c.validateSector,
		c.validateSnapshot,
		c.validateStats,
		c.validateServer,
		c.validateLogging,
	}

	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateFeed() error {
	if c.Feed.URL == "" {
		return fmt.Errorf("MERCATOR_EDDN_URL must not be empty")
	}
	if !strings.Contains(c.Feed.URL, "://") {
		return fmt.Errorf("MERCATOR_EDDN_URL must include a transport scheme (e.g. tcp://host:port), got %q", c.Feed.URL)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("MERCATOR_DATA_DIR must not be empty")
	}
	if c.Storage.BackupDir == "" {
		return fmt.Errorf("MERCATOR_BACKUP_DIR must not be empty")
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.DedupMax < 2 {
		return fmt.Errorf("MERCATOR_DEDUP_MAX must be at least 2, got %d", c.Ingest.DedupMax)
	}
	if c.Ingest.DecompressTimeout <= 0 {
		return fmt.Errorf("MERCATOR_DECOMPRESS_TIMEOUT must be positive, got %s", c.Ingest.DecompressTimeout)
	}
	return nil
}

func (c *Config) validateMaintenance() error {
	if c.Maintenance.Day < 0 || c.Maintenance.Day > 6 {
		return fmt.Errorf("MERCATOR_MAINTENANCE_DAY must be 0-6 (Sunday=0), got %d", c.Maintenance.Day)
	}
	if c.Maintenance.StartHour < 0 || c.Maintenance.StartHour > 23 {
		return fmt.Errorf("MERCATOR_MAINTENANCE_START_HOUR must be 0-23, got %d", c.Maintenance.StartHour)
	}
	if c.Maintenance.EndHour < 0 || c.Maintenance.EndHour > 23 {
		return fmt.Errorf("MERCATOR_MAINTENANCE_END_HOUR must be 0-23, got %d", c.Maintenance.EndHour)
	}
	if c.Maintenance.EndHour <= c.Maintenance.StartHour {
		return fmt.Errorf("MERCATOR_MAINTENANCE_END_HOUR (%d) must be after MERCATOR_MAINTENANCE_START_HOUR (%d)",
			c.Maintenance.EndHour, c.Maintenance.StartHour)
	}
	if c.Maintenance.VacuumDay < 0 || c.Maintenance.VacuumDay > 6 {
		return fmt.Errorf("MERCATOR_VACUUM_DAY must be 0-6 (Sunday=0), got %d", c.Maintenance.VacuumDay)
	}
	if c.Maintenance.VacuumHour < 0 || c.Maintenance.VacuumHour > 23 {
		return fmt.Errorf("MERCATOR_VACUUM_HOUR must be 0-23, got %d", c.Maintenance.VacuumHour)
	}
	if c.Maintenance.StatsInterval <= 0 {
		return fmt.Errorf("MERCATOR_STATS_INTERVAL must be positive, got %s", c.Maintenance.StatsInterval)
	}
	return nil
}

func (c *Config) validateRetention() error {
	if c.Retention.TradeDays < 0 {
		return fmt.Errorf("MERCATOR_TRADE_RETENTION_DAYS must not be negative, got %d", c.Retention.TradeDays)
	}
	if c.Retention.RescueShipDays < 0 {
		return fmt.Errorf("MERCATOR_RESCUE_RETENTION_DAYS must not be negative, got %d", c.Retention.RescueShipDays)
	}
	if c.Retention.FleetCarrierDays < 0 {
		return fmt.Errorf("MERCATOR_CARRIER_RETENTION_DAYS must not be negative, got %d", c.Retention.FleetCarrierDays)
	}
	return nil
}

func (c *Config) validateSector() error {
	if c.Sector.GridSize <= 0 {
		return fmt.Errorf("MERCATOR_SECTOR_GRID_SIZE must be positive, got %g", c.Sector.GridSize)
	}
	if c.Sector.HashLength < 1 || c.Sector.HashLength > 16 {
		return fmt.Errorf("MERCATOR_SECTOR_HASH_LENGTH must be 1-16 hex characters, got %d", c.Sector.HashLength)
	}
	return nil
}

func (c *Config) validateSnapshot() error {
	if c.Snapshot.Freshness <= 0 {
		return fmt.Errorf("MERCATOR_SNAPSHOT_FRESHNESS must be positive, got %s", c.Snapshot.Freshness)
	}
	return nil
}

func (c *Config) validateStats() error {
	if c.Stats.RegionalRadiusLY <= 0 {
		return fmt.Errorf("MERCATOR_REGIONAL_RADIUS must be positive, got %g", c.Stats.RegionalRadiusLY)
	}
	if c.Stats.RegionalMinVolume < 0 {
		return fmt.Errorf("MERCATOR_REGIONAL_MIN_VOLUME must not be negative, got %d", c.Stats.RegionalMinVolume)
	}
	for i, region := range c.Stats.Regions {
		if region.Name == "" || region.System == "" {
			return fmt.Errorf("stats.regions[%d] must set both name and system", i)
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("MERCATOR_HTTP_PORT must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("MERCATOR_HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled", "":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace|debug|info|warn|error|fatal|panic, got %q", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}

	return nil
}
