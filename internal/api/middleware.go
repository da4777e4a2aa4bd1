// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/metrics"
)

// serviceHeaders stamps every response with the configured cache
// directive and the identifying service header, so an edge cache in
// front of the collector can serve stale pages through maintenance
// windows.
func (h *Handlers) serviceHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", h.cacheControl)
		w.Header().Set("X-Service", "mercator/"+h.version)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code for the metrics middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// recordMetrics observes request counts and latency per route, and
// logs each request at debug level.
func recordMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)
		metrics.RecordHTTPRequest(r.Method, r.URL.Path, rec.status, elapsed)
		logging.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", elapsed).
			Msg("Request")
	})
}
