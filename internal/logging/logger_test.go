package logging

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"payloadvault/internal/services"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.input); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsRunFields(t *testing.T) {
	var sink strings.Builder
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&sink, lvl))

	ctx := services.WithRunID(context.Background(), "run-42")
	ctx = services.WithMode(ctx, "txt2img")

	WithContext(ctx, logger).Info("captured payload")

	out := sink.String()
	if !strings.Contains(out, "run-42") {
		t.Fatalf("expected run id in output, got %q", out)
	}
	if !strings.Contains(out, "txt2img") {
		t.Fatalf("expected mode in output, got %q", out)
	}
}

func TestConsoleHandlerHoistsComponent(t *testing.T) {
	var sink strings.Builder
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&sink, lvl))

	NewComponentLogger(logger, "vault").Info("saved payload", String("filename", "payload_txt2img_20260101_000000.json"))

	out := sink.String()
	if !strings.Contains(out, "[vault]") {
		t.Fatalf("expected component header, got %q", out)
	}
	if !strings.Contains(out, "filename: payload_txt2img_20260101_000000.json") {
		t.Fatalf("expected field line, got %q", out)
	}
}
