// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package eddn

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/cache"
	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/metrics"
)

// WriteLock is the subset of the maintenance lock observed per frame.
type WriteLock interface {
	Held() bool
}

// throughputLogInterval is how many processed events pass between
// throughput log lines.
const throughputLogInterval = 1000

// deadLetterLogInterval is how many buffered frames pass between
// dead-letter growth log lines.
const deadLetterLogInterval = 100

// drainTimeout bounds the best-effort dead-letter drain on shutdown.
const drainTimeout = 10 * time.Second

// Config tunes the ingestor.
type Config struct {
	// URL is the ZeroMQ endpoint of the upstream feed.
	URL string

	// DedupMax is the soft cap of the deduplication set.
	DedupMax int

	// DecompressTimeout is the per-frame inflation deadline.
	DecompressTimeout time.Duration
}

// Ingestor subscribes to the upstream feed and drives the pipeline. It
// implements suture.Service; the stream supervisor restarts it on
// failure, and the transport reconnects on its own below that.
//
// All mutable pipeline state (dead-letter buffer, dedup set, counters)
// is owned by the single ingestion goroutine. The write-lock flag is the
// only cross-task signal and is read atomically per frame.
type Ingestor struct {
	cfg      Config
	handlers *Handlers
	lock     WriteLock
	dedup    *cache.DedupSet
	buffer   *cache.FrameBuffer
	log      zerolog.Logger

	// Counters, read by the control surface.
	received  atomic.Uint64
	processed atomic.Uint64
	startedAt time.Time
}

// NewIngestor creates an ingestor over the given handlers and write-lock.
func NewIngestor(cfg Config, handlers *Handlers, lock WriteLock) *Ingestor {
	if cfg.DecompressTimeout <= 0 {
		cfg.DecompressTimeout = DefaultDecompressTimeout
	}
	return &Ingestor{
		cfg:       cfg,
		handlers:  handlers,
		lock:      lock,
		dedup:     cache.NewDedupSet(cfg.DedupMax),
		buffer:    cache.NewFrameBuffer(),
		log:       logging.WithComponent("ingest"),
		startedAt: time.Now(),
	}
}

// Serve implements suture.Service. It subscribes to the all-messages
// topic and processes frames sequentially until the context is
// canceled. Transport errors return so the supervisor restarts the
// subscription with backoff.
func (i *Ingestor) Serve(ctx context.Context) error {
	sub := zmq4.NewSub(ctx, zmq4.WithAutomaticReconnect(true))
	defer sub.Close()

	if err := sub.Dial(i.cfg.URL); err != nil {
		return fmt.Errorf("failed to dial upstream feed %s: %w", i.cfg.URL, err)
	}
	if err := sub.SetOption(zmq4.OptionSubscribe, ""); err != nil {
		return fmt.Errorf("failed to subscribe to upstream feed: %w", err)
	}

	i.log.Info().Str("url", i.cfg.URL).Msg("Connected to upstream feed")

	for {
		msg, err := sub.Recv()
		if err != nil {
			if ctx.Err() != nil {
				i.drainOnShutdown()
				return ctx.Err()
			}
			i.log.Warn().Err(err).Msg("Feed receive failed; transport will reconnect")
			continue
		}

		frame := msg.Bytes()
		i.received.Add(1)
		metrics.FramesReceived.Inc()

		// Backpressure: while maintenance holds the write-lock, frames
		// accumulate in arrival order and are drained before any new
		// frame once the lock clears.
		if i.lock.Held() {
			depth := i.buffer.Append(cloneFrame(frame))
			metrics.DeadLetterDepth.Set(float64(depth))
			if depth%deadLetterLogInterval == 0 {
				i.log.Info().Int("depth", depth).Msg("Write lock held; buffering frames")
			}
			continue
		}

		if i.buffer.Len() > 0 {
			i.drainBuffer(ctx)
		}

		i.processFrame(ctx, frame)
	}
}

// String implements fmt.Stringer for supervisor logging.
func (i *Ingestor) String() string {
	return "eddn-ingestor"
}

// EventsProcessed returns the number of frames dispatched to a handler.
func (i *Ingestor) EventsProcessed() uint64 {
	return i.processed.Load()
}

// FramesReceived returns the number of raw frames received.
func (i *Ingestor) FramesReceived() uint64 {
	return i.received.Load()
}

// DedupSize returns the current deduplication set size.
func (i *Ingestor) DedupSize() int {
	return i.dedup.Len()
}

// drainBuffer processes every buffered frame in arrival order.
func (i *Ingestor) drainBuffer(ctx context.Context) {
	frames := i.buffer.Drain()
	metrics.DeadLetterDepth.Set(0)
	if len(frames) == 0 {
		return
	}

	i.log.Info().Int("frames", len(frames)).Msg("Write lock cleared; draining buffered frames")
	for _, frame := range frames {
		i.processFrame(ctx, frame)
	}
}

// drainOnShutdown processes buffered frames best-effort under a bounded
// deadline before the ingestor exits.
func (i *Ingestor) drainOnShutdown() {
	if i.buffer.Len() == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	i.log.Info().Int("frames", i.buffer.Len()).Msg("Draining dead-letter buffer before shutdown")
	for _, frame := range i.buffer.Drain() {
		if ctx.Err() != nil {
			i.log.Warn().Msg("Shutdown drain deadline reached; dropping remaining frames")
			return
		}
		i.processFrame(ctx, frame)
	}
	metrics.DeadLetterDepth.Set(0)
}

// processFrame runs one frame through the pipeline. Every error is
// consumed here; nothing terminates the loop.
func (i *Ingestor) processFrame(ctx context.Context, frame []byte) {
	data, err := Decompress(frame, i.cfg.DecompressTimeout)
	if err != nil {
		metrics.RecordFrameDrop("decompress")
		i.log.Warn().Err(err).Msg("Dropped undecompressable frame")
		return
	}

	env, err := ParseEnvelope(data)
	if err != nil {
		metrics.RecordFrameDrop("parse")
		i.log.Warn().Err(err).Msg("Dropped unparseable frame")
		return
	}

	// Version rejections and out-of-scope schemas are routine; they are
	// counted but only visible at debug level.
	if !AcceptVersion(env.Header.GameVersion) {
		metrics.RecordFrameDrop("version")
		i.log.Debug().Str("gameversion", env.Header.GameVersion).Msg("Rejected by version gate")
		return
	}

	if !env.Recognized() {
		metrics.RecordFrameDrop("schema")
		return
	}

	if key := env.DedupKey(); key != "" && i.dedup.Seen(key) {
		metrics.RecordFrameDrop("duplicate")
		return
	}
	metrics.DedupSetSize.Set(float64(i.dedup.Len()))

	i.dispatch(ctx, env)
}

// dispatch invokes the schema handler with per-frame panic recovery.
func (i *Ingestor) dispatch(ctx context.Context, env *Envelope) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordFrameDrop("handler")
			i.log.Error().
				Interface("panic", r).
				Str("schema", env.SchemaRef).
				Bytes("stack", debug.Stack()).
				Msg("Handler panicked; frame dropped")
		}
	}()

	if err := i.handlers.Dispatch(ctx, env); err != nil {
		// Write contention past the busy timeout lands here; at-most-once
		// is acceptable for this data class.
		metrics.RecordFrameDrop("handler")
		i.log.Warn().Err(err).Str("schema", env.SchemaRef).Msg("Handler failed; frame dropped")
		return
	}

	processed := i.processed.Add(1)
	metrics.FramesProcessed.Inc()

	if processed%throughputLogInterval == 0 {
		elapsed := time.Since(i.startedAt)
		i.log.Info().
			Uint64("events", processed).
			Float64("events_per_min", float64(processed)/elapsed.Minutes()).
			Dur("avg_latency", elapsed/time.Duration(processed)).
			Msg("Ingestion throughput")
	}
}

// cloneFrame copies a frame before buffering; the transport may reuse
// the receive buffer.
func cloneFrame(frame []byte) []byte {
	buf := make([]byte, len(frame))
	copy(buf, frame)
	return buf
}
