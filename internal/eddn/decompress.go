// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package eddn

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zlib"
)

// ErrDecompressTimeout is returned when a frame misses its decompression
// deadline. The frame is dropped.
var ErrDecompressTimeout = errors.New("eddn: decompression deadline exceeded")

// DefaultDecompressTimeout is the per-frame wall-clock deadline.
const DefaultDecompressTimeout = 5 * time.Second

// maxFrameSize caps a decompressed frame at 16 MiB. Legitimate frames
// are well under 1 MiB; anything larger is a corrupt or hostile payload.
const maxFrameSize = 16 << 20

// Decompress inflates a zlib-compressed frame under a wall-clock
// deadline. Inflation runs in its own goroutine; on timeout the frame is
// abandoned and the goroutine is left to finish and be collected.
func Decompress(frame []byte, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultDecompressTimeout
	}

	type result struct {
		data []byte
		err  error
	}

	ch := make(chan result, 1)
	go func() {
		data, err := inflate(frame)
		ch <- result{data: data, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.data, res.err
	case <-timer.C:
		return nil, ErrDecompressTimeout
	}
}

func inflate(frame []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("failed to open zlib frame: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, maxFrameSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to inflate frame: %w", err)
	}
	if len(data) > maxFrameSize {
		return nil, fmt.Errorf("frame exceeds %d byte limit", maxFrameSize)
	}
	return data, nil
}
