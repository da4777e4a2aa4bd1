// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

/*
Package database implements the four embedded SQLite stores that back the
collector: systems, locations, stations and trade.

Each store is an isolated database file with WAL journaling, owned
exclusively by this process while running. Cross-store joins never happen
during ingestion; the stats generators join in Go against read-only
snapshot copies (see internal/snapshot and internal/stats).

# Stores

  - systems.db:   one row per star system, keyed by systemAddress
  - locations.db: surface points of interest, keyed by a content hash
  - stations.db:  trading endpoints, keyed by marketId
  - trade.db:     latest price/stock/demand per (commodityName, marketId)

# Connection Policy

Stores open with exactly one connection so the per-connection pragmas
(WAL journal, NORMAL synchronous, 5s busy timeout, 64MiB page cache,
in-memory temp store, 256MiB mmap) hold for the life of the process and
writes are serialized without application-level locking.

# Prepared Statement Cache

Handlers emit one column shape per event type. Statement text is generated
from the shape and memoized keyed by a digest of the store path and the
SQL, so ingestion never re-prepares a statement for a shape it has already
seen. The cache never evicts; it is bounded by the number of distinct
handler shapes.

# Schema Evolution

Schema changes are additive only. The base schema creates the original
column set; later columns arrive as versioned migrations recorded in
schema_migrations, applied only when pragma_table_info shows the column
absent. Columns are never renamed or dropped.
*/
package database
