// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// rateLimit is generous: the surface is polled by monitors and an edge
// cache, not end users.
const (
	rateLimitRequests = 600
	rateLimitWindow   = time.Minute
)

// Setup builds the control-surface handler.
func (h *Handlers) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(httprate.LimitByIP(rateLimitRequests, rateLimitWindow))
	r.Use(h.serviceHeaders)
	r.Use(recordMetrics)

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	r.Get("/", h.Status)
	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
