// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package cache

// FrameBuffer is the dead-letter buffer: an ordered in-memory queue of raw
// frames retained while the maintenance write-lock is held. Frames are
// drained in arrival order once the lock clears, before any new frame is
// processed, so no ordering is lost across a maintenance window.
//
// FrameBuffer is bounded only by available memory. It is NOT safe for
// concurrent use; it is owned exclusively by the ingestion goroutine.
type FrameBuffer struct {
	frames [][]byte
}

// NewFrameBuffer creates an empty FrameBuffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Append queues a frame and returns the new depth.
func (b *FrameBuffer) Append(frame []byte) int {
	b.frames = append(b.frames, frame)
	return len(b.frames)
}

// Drain returns every buffered frame in arrival order and empties the
// buffer. The returned slice is owned by the caller.
func (b *FrameBuffer) Drain() [][]byte {
	frames := b.frames
	b.frames = nil
	return frames
}

// Len returns the current depth.
func (b *FrameBuffer) Len() int {
	return len(b.frames)
}
