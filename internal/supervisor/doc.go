// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

/*
Package supervisor provides process supervision for Mercator using suture v4.

The tree organizes the long-running services into three layers for
failure isolation:

	RootSupervisor ("mercator")
	├── StreamSupervisor ("stream-layer")
	│   └── eddn.Ingestor
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── maintenance.Scheduler
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the ingestor (a malformed frame slipping past its panic
recovery, a ZeroMQ socket failure the reconnect logic cannot absorb)
restarts only the stream layer; the control surface keeps answering
from cached data, and the scheduler keeps its timers. Likewise a
scheduler failure never interrupts ingestion.

Services implement suture.Service: return nil to stop cleanly, return
an error to be restarted with the configured backoff. Supervisor
events are logged through the sutureslog adapter wired to the
application's zerolog output.

The embedded SQLite stores are intentionally not supervised: they are
libraries, not services, and a fault there requires a process restart
anyway. Store-level degradation is instead tracked by the database
package and surfaced through /health.
*/
package supervisor
