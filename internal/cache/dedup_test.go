// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestDedupSet_SeenBasics(t *testing.T) {
	d := NewDedupSet(100)

	if d.Seen("a") {
		t.Error("Expected first sighting of 'a' to be unseen")
	}
	if !d.Seen("a") {
		t.Error("Expected second sighting of 'a' to be seen")
	}
	if d.Seen("b") {
		t.Error("Expected first sighting of 'b' to be unseen")
	}
	if d.Len() != 2 {
		t.Errorf("Expected len 2, got %d", d.Len())
	}
}

func TestDedupSet_Contains(t *testing.T) {
	d := NewDedupSet(100)

	d.Seen("a")
	if !d.Contains("a") {
		t.Error("Expected Contains('a') true")
	}
	if d.Contains("b") {
		t.Error("Expected Contains('b') false")
	}
	if d.Len() != 1 {
		t.Errorf("Expected Contains not to insert, len %d", d.Len())
	}
}

func TestDedupSet_OverflowHalvesOldestFirst(t *testing.T) {
	d := NewDedupSet(10)

	for i := 0; i < 10; i++ {
		d.Seen(fmt.Sprintf("key-%d", i))
	}
	if d.Len() != 10 {
		t.Fatalf("Expected len 10 at cap, got %d", d.Len())
	}

	// The 11th insert evicts the oldest half (key-0..key-4) first.
	d.Seen("key-10")

	if d.Len() != 6 {
		t.Errorf("Expected len 6 after halving (5 kept + 1 new), got %d", d.Len())
	}
	for i := 0; i < 5; i++ {
		if d.Contains(fmt.Sprintf("key-%d", i)) {
			t.Errorf("Expected oldest key-%d evicted", i)
		}
	}
	for i := 5; i < 11; i++ {
		if !d.Contains(fmt.Sprintf("key-%d", i)) {
			t.Errorf("Expected newer key-%d retained", i)
		}
	}
}

func TestDedupSet_EvictedKeysAreUnseenAgain(t *testing.T) {
	d := NewDedupSet(4)

	d.Seen("a")
	d.Seen("b")
	d.Seen("c")
	d.Seen("d")
	d.Seen("e") // evicts a, b

	if d.Seen("a") {
		t.Error("Expected evicted key to read as unseen")
	}
}

func TestDedupSet_TinyCapFallsBack(t *testing.T) {
	d := NewDedupSet(1)
	if d.Cap() != DefaultDedupMax {
		t.Errorf("Expected cap below 2 to fall back to default, got %d", d.Cap())
	}
}

func TestDedupSet_Clear(t *testing.T) {
	d := NewDedupSet(10)
	d.Seen("a")
	d.Seen("b")

	d.Clear()

	if d.Len() != 0 {
		t.Errorf("Expected empty set after Clear, got %d", d.Len())
	}
	if d.Seen("a") {
		t.Error("Expected cleared key to read as unseen")
	}
}

func TestDedupSet_ConcurrentReads(t *testing.T) {
	d := NewDedupSet(1000)
	for i := 0; i < 500; i++ {
		d.Seen(fmt.Sprintf("key-%d", i))
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				d.Contains(fmt.Sprintf("key-%d", i%500))
				d.Len()
			}
		}()
	}
	wg.Wait()
}

func TestFrameBuffer_OrderPreserved(t *testing.T) {
	b := NewFrameBuffer()

	for i := 0; i < 5; i++ {
		depth := b.Append([]byte{byte(i)})
		if depth != i+1 {
			t.Errorf("Expected depth %d after append, got %d", i+1, depth)
		}
	}

	frames := b.Drain()
	if len(frames) != 5 {
		t.Fatalf("Expected 5 drained frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f[0] != byte(i) {
			t.Errorf("Expected frame %d at position %d, got %d", i, i, f[0])
		}
	}

	if b.Len() != 0 {
		t.Errorf("Expected empty buffer after drain, got %d", b.Len())
	}
}

func TestFrameBuffer_DrainEmpty(t *testing.T) {
	b := NewFrameBuffer()
	if frames := b.Drain(); len(frames) != 0 {
		t.Errorf("Expected nil drain on empty buffer, got %d frames", len(frames))
	}
}
