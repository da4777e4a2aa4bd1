// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("Expected default level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Expected default format 'json', got %q", cfg.Format)
	}
	if cfg.Caller {
		t.Error("Expected caller disabled by default")
	}
	if !cfg.Timestamp {
		t.Error("Expected timestamp enabled by default")
	}
}

func TestInit_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("store", "trade").Msg("sweep complete")

	out := buf.String()
	if !strings.Contains(out, `"store":"trade"`) {
		t.Errorf("Expected structured field in output, got %q", out)
	}
	if !strings.Contains(out, `"message":"sweep complete"`) {
		t.Errorf("Expected message field in output, got %q", out)
	}
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("Expected level field in output, got %q", out)
	}
}

func TestInit_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("dropped")
	Info().Msg("also dropped")
	Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("Expected debug/info suppressed at warn level, got %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("Expected warn record emitted, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	log := WithComponent("ingest")
	log.Info().Msg("frame processed")

	out := buf.String()
	if !strings.Contains(out, `"component":"ingest"`) {
		t.Errorf("Expected component field in output, got %q", out)
	}
}

func TestSetLevelString(t *testing.T) {
	defer Init(DefaultConfig())

	SetLevelString("debug")
	if GetLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level, got %v", GetLevel())
	}

	SetLevelString("error")
	if GetLevel() != zerolog.ErrorLevel {
		t.Errorf("Expected error level, got %v", GetLevel())
	}

	if !IsLevelEnabled(zerolog.FatalLevel) {
		t.Error("Expected fatal enabled at error level")
	}
	if IsLevelEnabled(zerolog.InfoLevel) {
		t.Error("Expected info disabled at error level")
	}
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)

	logger.Info().Str("key", "value").Msg("test message")

	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("Expected field in test logger output, got %q", out)
	}
	if !strings.Contains(out, "test message") {
		t.Errorf("Expected message in test logger output, got %q", out)
	}
}

func TestErr(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Err(errTest).Msg("operation failed")

	out := buf.String()
	if !strings.Contains(out, `"error":"test error"`) {
		t.Errorf("Expected error field in output, got %q", out)
	}
}

var errTest = errString("test error")

type errString string

func (e errString) Error() string { return string(e) }
