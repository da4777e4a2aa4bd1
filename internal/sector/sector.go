// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package sector partitions 3D space into cubic cells for coarse spatial
// indexing. Instead of O(n) distance comparisons to find nearby systems,
// queries enumerate the cells intersecting a bounding sphere and match on
// the stored sector id, reducing candidate sets by orders of magnitude.
//
// The hasher is pure and deterministic; it has no state. Changing the grid
// size or hash length invalidates every stored sector id.
package sector

import (
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

const (
	// DefaultGridSize is the cube side in light-years.
	DefaultGridSize = 100.0

	// DefaultHashLength is the sector id length in hex characters.
	// 16 hex chars (8 bytes) makes accidental collisions negligible at
	// galactic population scale.
	DefaultHashLength = 16
)

// Grid maps 3D coordinates to fixed-length sector ids.
type Grid struct {
	// Size is the cube side in light-years.
	Size float64

	// HashLength is the id length in hex characters (1-16).
	HashLength int
}

// NewGrid returns a Grid, substituting defaults for out-of-range values.
func NewGrid(size float64, hashLength int) Grid {
	if size <= 0 {
		size = DefaultGridSize
	}
	if hashLength < 1 || hashLength > 16 {
		hashLength = DefaultHashLength
	}
	return Grid{Size: size, HashLength: hashLength}
}

// DefaultGrid returns the grid used when no configuration is supplied.
func DefaultGrid() Grid {
	return Grid{Size: DefaultGridSize, HashLength: DefaultHashLength}
}

// SectorID returns the sector id of the cube containing (x, y, z).
func (g Grid) SectorID(x, y, z float64) string {
	return g.cellID(
		int64(math.Floor(x/g.Size)),
		int64(math.Floor(y/g.Size)),
		int64(math.Floor(z/g.Size)),
	)
}

// NearbySectors returns the ids of every cell intersecting the bounding
// box of the sphere centered at (x, y, z) with the given radius. The box
// over-includes corner cells, so callers must follow up with an exact
// distance check; it never misses a cell containing a point within radius.
func (g Grid) NearbySectors(x, y, z, radius float64) []string {
	if radius < 0 {
		radius = 0
	}

	loX := int64(math.Floor((x - radius) / g.Size))
	hiX := int64(math.Ceil((x + radius) / g.Size))
	loY := int64(math.Floor((y - radius) / g.Size))
	hiY := int64(math.Ceil((y + radius) / g.Size))
	loZ := int64(math.Floor((z - radius) / g.Size))
	hiZ := int64(math.Ceil((z + radius) / g.Size))

	ids := make([]string, 0, (hiX-loX+1)*(hiY-loY+1)*(hiZ-loZ+1))
	for cx := loX; cx <= hiX; cx++ {
		for cy := loY; cy <= hiY; cy++ {
			for cz := loZ; cz <= hiZ; cz++ {
				ids = append(ids, g.cellID(cx, cy, cz))
			}
		}
	}
	return ids
}

// cellID digests a cell coordinate triple into a hex sector id.
func (g Grid) cellID(cx, cy, cz int64) string {
	key := strconv.FormatInt(cx, 10) + "|" + strconv.FormatInt(cy, 10) + "|" + strconv.FormatInt(cz, 10)
	id := Digest(key)
	if g.HashLength > 0 && g.HashLength < len(id) {
		return id[:g.HashLength]
	}
	return id
}

// Digest returns the full 16-hex-character digest of a key. Location
// content ids use this directly so they stay stable regardless of the
// configured sector grid.
func Digest(key string) string {
	sum := xxhash.Sum64String(key)

	const hexdigits = "0123456789abcdef"
	var out [16]byte
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[sum&0xf]
		sum >>= 4
	}
	return string(out[:])
}
