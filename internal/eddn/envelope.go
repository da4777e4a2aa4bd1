// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package eddn

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Recognized schema references. Anything else is silently ignored.
const (
	SchemaCommodity          = "https://eddn.edcd.io/schemas/commodity/3"
	SchemaFSSDiscoveryScan   = "https://eddn.edcd.io/schemas/fssdiscoveryscan/1"
	SchemaNavRoute           = "https://eddn.edcd.io/schemas/navroute/1"
	SchemaApproachSettlement = "https://eddn.edcd.io/schemas/approachsettlement/1"
	SchemaJournal            = "https://eddn.edcd.io/schemas/journal/1"
)

// Envelope is the decompressed frame shape common to every schema.
type Envelope struct {
	SchemaRef string          `json:"$schemaRef"`
	Header    Header          `json:"header"`
	Message   json.RawMessage `json:"message"`
}

// Header carries the relay metadata used for deduplication and the
// version gate.
type Header struct {
	GatewayTimestamp string `json:"gatewayTimestamp"`
	Timestamp        string `json:"timestamp"`
	GameVersion      string `json:"gameversion"`
	SoftwareName     string `json:"softwareName"`
	SoftwareVersion  string `json:"softwareVersion"`
	UploaderID       string `json:"uploaderID"`
}

// ParseEnvelope decodes a decompressed frame.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse frame envelope: %w", err)
	}
	if env.SchemaRef == "" {
		return nil, fmt.Errorf("frame has no $schemaRef")
	}
	return &env, nil
}

// DedupKey returns the deduplication key of the frame: the schema
// reference joined with the gateway timestamp, falling back to the
// header timestamp. Frames with neither return "" and bypass dedup.
func (e *Envelope) DedupKey() string {
	stamp := e.Header.GatewayTimestamp
	if stamp == "" {
		stamp = e.Header.Timestamp
	}
	if stamp == "" {
		return ""
	}
	return e.SchemaRef + "/" + stamp
}

// Recognized reports whether the schema reference is one the pipeline
// dispatches.
func (e *Envelope) Recognized() bool {
	switch e.SchemaRef {
	case SchemaCommodity, SchemaFSSDiscoveryScan, SchemaNavRoute,
		SchemaApproachSettlement, SchemaJournal:
		return true
	default:
		return false
	}
}
