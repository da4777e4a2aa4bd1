// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package cache provides high-performance in-memory data structures for
// deduplication and buffering in the ingestion pipeline.
package cache

import (
	"sync"
)

// DedupSet is an insertion-ordered set with bulk FIFO eviction.
//
// The upstream feed re-delivers events through multiple gateways, so the
// ingestor keys every frame and consults this set before dispatch. The set
// has a soft capacity: when an insert exceeds it, the oldest half of the
// entries is dropped in one sweep. Insertion order equals arrival order,
// which makes "oldest half" well-defined and keeps the amortized cost of
// eviction constant.
//
// Time Complexity:
//   - Seen (lookup + insert): O(1) amortized
//   - Overflow eviction: O(n) once per n/2 inserts
//
// DedupSet is safe for concurrent use. The ingestion loop is the only
// writer; the control surface reads Len for the status page.
type DedupSet struct {
	mu    sync.RWMutex
	max   int
	keys  map[string]struct{}
	order []string
}

// DefaultDedupMax is the soft cap used when no capacity is configured.
const DefaultDedupMax = 50000

// NewDedupSet creates a DedupSet with the given soft capacity.
// Capacities below 2 fall back to DefaultDedupMax.
func NewDedupSet(max int) *DedupSet {
	if max < 2 {
		max = DefaultDedupMax
	}
	return &DedupSet{
		max:   max,
		keys:  make(map[string]struct{}, max),
		order: make([]string, 0, max),
	}
}

// Seen reports whether key is already present. Unseen keys are inserted,
// evicting the oldest half of the set first if the insert would exceed
// the soft cap.
func (d *DedupSet) Seen(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.keys[key]; ok {
		return true
	}

	if len(d.order) >= d.max {
		d.evictOldestHalfLocked()
	}

	d.keys[key] = struct{}{}
	d.order = append(d.order, key)
	return false
}

// Contains reports whether key is present without inserting it.
func (d *DedupSet) Contains(key string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.keys[key]
	return ok
}

// Len returns the number of keys currently held.
func (d *DedupSet) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

// Cap returns the soft capacity.
func (d *DedupSet) Cap() int {
	return d.max
}

// Clear removes every key.
func (d *DedupSet) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys = make(map[string]struct{}, d.max)
	d.order = d.order[:0]
}

// evictOldestHalfLocked drops the first half of the insertion order.
// Caller must hold d.mu.
func (d *DedupSet) evictOldestHalfLocked() {
	half := len(d.order) / 2
	if half == 0 {
		half = 1
	}

	for _, key := range d.order[:half] {
		delete(d.keys, key)
	}

	remaining := len(d.order) - half
	copy(d.order, d.order[half:])
	d.order = d.order[:remaining]
}
