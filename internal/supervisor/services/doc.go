// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package services adapts components that are not natively
// suture.Services into supervised ones. The feed ingestor and the
// maintenance scheduler already implement Serve(ctx) themselves; the
// only adapter needed here bridges net/http's blocking ListenAndServe
// to suture's context-driven lifecycle.
package services
