// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package api is the embedded HTTP control surface.
//
// Three routes: GET / renders a plain-text status page, GET /health a
// small JSON health document, GET /metrics the Prometheus registry.
// Everything else is 404, any other method 405.
//
// The surface is for operators and edge caches, not consumers; the
// generated JSON reports are served by a separate static file server.
// Handlers never touch the live databases: the status page reads the
// cached totals file and in-memory counters, health reads atomic flags
// only, so both answer well under a second regardless of store load.
package api
