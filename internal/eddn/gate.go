// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package eddn

import (
	"strconv"
	"strings"
)

const (
	// MinGameVersionMajor rejects payloads from legacy game clients.
	// Pre-4.0 clients report a different galaxy state.
	MinGameVersionMajor = 4

	// CAPIPrefix marks payloads sourced from the authoritative companion
	// API rather than a game client; they bypass the version floor.
	CAPIPrefix = "CAPI-Live-"
)

// AcceptVersion reports whether a payload with the given gameversion
// header passes the version gate. Missing or unparseable versions are
// rejected.
func AcceptVersion(gameVersion string) bool {
	if strings.HasPrefix(gameVersion, CAPIPrefix) {
		return true
	}

	major := gameVersion
	if i := strings.IndexByte(gameVersion, '.'); i >= 0 {
		major = gameVersion[:i]
	}

	n, err := strconv.Atoi(strings.TrimSpace(major))
	if err != nil {
		return false
	}
	return n >= MinGameVersionMajor
}
