// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package maintenance owns the write-lock, the verified backup run, the
// retention sweeps, the weekly vacuum and the scheduler that sequences
// them.
//
// The stores have exactly one writer at a time: the ingestor, or a
// maintenance task, never both. The write-lock is the switch between
// the two. While it is held the ingestor buffers frames instead of
// writing; the scheduler takes it around every step that rewrites
// store files and releases it in a defer so a failed step never leaves
// ingestion suspended.
package maintenance
