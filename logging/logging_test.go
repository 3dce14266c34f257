package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewHandlerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(config.LoggingSettings{Level: "warn", JSON: true}, &buf))

	logger.Info("dropped")
	logger.Warn("stage finished", "stage", "tethys")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "stage finished" || rec["stage"] != "tethys" {
		t.Errorf("record = %v", rec)
	}
}

func TestNewHandlerText(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(config.LoggingSettings{Level: "debug"}, &buf))
	logger.Debug("noise ready", "size", 64)
	if !strings.Contains(buf.String(), "msg=\"noise ready\"") || !strings.Contains(buf.String(), "size=64") {
		t.Errorf("text output = %q", buf.String())
	}
}
