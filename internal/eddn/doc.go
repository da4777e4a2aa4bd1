// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

/*
Package eddn implements the ingestion pipeline for the EDDN feed.

EDDN (Elite Dangerous Data Network) is a public ZeroMQ publish/subscribe
relay of zlib-compressed, schema-tagged JSON events uploaded by players'
clients. The Ingestor subscribes to the all-messages topic and processes
frames sequentially:

 1. Backpressure: while the maintenance write-lock is held, raw frames
    accumulate in the dead-letter buffer and are drained in arrival order
    once the lock clears.
 2. Decompression with a per-frame wall-clock deadline.
 3. Envelope parse ($schemaRef, header, message).
 4. Version gate: game versions below 4 are rejected unless the version
    string carries the authoritative-API prefix.
 5. Deduplication keyed by schema reference and gateway timestamp.
 6. Dispatch to the schema handler.

Every per-frame error is consumed and counted; nothing terminates the
loop. Handlers normalize payloads into the four stores via the prepared
statement cache with upsert semantics: rows are created on first
observation and updated in place, never deleted by the ingestion path.
*/
package eddn
