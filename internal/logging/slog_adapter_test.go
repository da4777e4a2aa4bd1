// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	handler := NewSlogHandlerWithLogger(zl)
	logger := slog.New(handler)

	logger.Info("supervisor event", slog.String("service", "ingestor"))

	out := buf.String()
	if !strings.Contains(out, `"message":"supervisor event"`) {
		t.Errorf("Expected message in output, got %q", out)
	}
	if !strings.Contains(out, `"service":"ingestor"`) {
		t.Errorf("Expected attribute in output, got %q", out)
	}
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("Expected info level in output, got %q", out)
	}
}

func TestSlogHandler_Levels(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, `"level":"debug"`},
		{slog.LevelInfo, `"level":"info"`},
		{slog.LevelWarn, `"level":"warn"`},
		{slog.LevelError, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			zl := zerolog.New(&buf).Level(zerolog.TraceLevel)
			logger := slog.New(NewSlogHandlerWithLogger(zl))

			logger.Log(context.Background(), tt.level, "msg")

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Expected %s in output, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestSlogHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	handler := NewSlogHandlerWithLogger(zl).WithAttrs([]slog.Attr{
		slog.String("supervisor", "root"),
	})
	logger := slog.New(handler)

	logger.Info("service started")

	out := buf.String()
	if !strings.Contains(out, `"supervisor":"root"`) {
		t.Errorf("Expected pre-configured attribute, got %q", out)
	}
}

func TestSlogHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	handler := NewSlogHandlerWithLogger(zl).WithGroup("suture")
	logger := slog.New(handler)

	logger.Info("backoff", slog.Int("failures", 3))

	out := buf.String()
	if !strings.Contains(out, `"suture.failures":3`) {
		t.Errorf("Expected grouped key, got %q", out)
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	zl := zerolog.New(nil).Level(zerolog.WarnLevel)
	handler := NewSlogHandlerWithLogger(zl)

	if handler.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Expected debug disabled at warn level")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("Expected error enabled at warn level")
	}
}
