// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// fakeServer blocks in ListenAndServe until Shutdown or a seeded
// failure, like *http.Server does.
type fakeServer struct {
	listenErr    error
	shutdownErr  error
	shutdowns    atomic.Int32
	shutdownDone chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{shutdownDone: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.shutdownDone
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(_ context.Context) error {
	f.shutdowns.Add(1)
	close(f.shutdownDone)
	return f.shutdownErr
}

func TestServeShutsDownOnContextCancel(t *testing.T) {
	srv := newFakeServer()
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if got := srv.shutdowns.Load(); got != 1 {
		t.Errorf("Shutdown called %d times, want 1", got)
	}
}

func TestServeReturnsListenError(t *testing.T) {
	srv := newFakeServer()
	srv.listenErr = errors.New("address already in use")
	svc := NewHTTPServerService(srv, time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, srv.listenErr) {
		t.Errorf("Serve returned %v, want wrapped listen error", err)
	}
	if got := srv.shutdowns.Load(); got != 0 {
		t.Errorf("Shutdown called %d times on listen failure", got)
	}
}

func TestServeReportsShutdownFailure(t *testing.T) {
	srv := newFakeServer()
	srv.shutdownErr = errors.New("drain timed out")
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Serve(ctx)
	if err == nil || !errors.Is(err, srv.shutdownErr) {
		t.Errorf("Serve returned %v, want wrapped shutdown error", err)
	}
}

func TestServiceName(t *testing.T) {
	svc := NewHTTPServerService(newFakeServer(), 0)
	if got := svc.String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
	if svc.drainTimeout != 10*time.Second {
		t.Errorf("default drain timeout = %v", svc.drainTimeout)
	}
}
