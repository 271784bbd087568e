package logutil

import (
	"log/slog"
	"testing"
)

func TestParseSlogLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tc := range cases {
		got, err := parseSlogLevel(tc.in)
		if err != nil {
			t.Fatalf("parseSlogLevel(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parseSlogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := parseSlogLevel("loud"); err == nil {
		t.Fatalf("parseSlogLevel(loud) expected error")
	}
}

func TestNewLoggerFromConfigRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	if _, err := newLoggerFromConfig(loggerConfig{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if logger, err := newLoggerFromConfig(loggerConfig{Format: "json", Level: "debug"}); err != nil || logger == nil {
		t.Fatalf("newLoggerFromConfig(json) logger=%v error = %v", logger, err)
	}
}
