// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package stats

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mercator/internal/logging"
)

// writeJSON writes v to path atomically: a temp file in the same
// directory is renamed over the destination, so readers (and the edge
// cache behind the control surface) never observe a partial file.
func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		closeRemove(tmp, tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		removeQuietly(tmpName)
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		removeQuietly(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func closeRemove(f *os.File, name string) {
	_ = f.Close()
	removeQuietly(name)
}

func removeQuietly(name string) {
	_ = os.Remove(name)
}

// commodityDir returns the per-commodity report directory for a
// commodity name, with path separators stripped from the name.
func commodityDir(cacheDir, name string) string {
	safe := strings.NewReplacer("/", "-", "\\", "-", "..", "").Replace(name)
	return filepath.Join(cacheDir, "commodities", safe)
}

// regionSlug renders a region name as a file-name component.
func regionSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close result set")
	}
}
