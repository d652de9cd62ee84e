package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Leveler
	}{
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRunIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := RunIDFromContext(ctx); got != "" {
		t.Errorf("empty context yielded run id %q", got)
	}

	ctx, log := WithRunLogger(ctx, Noop(), "run-42")
	if log == nil {
		t.Fatalf("WithRunLogger returned nil logger")
	}
	if got := RunIDFromContext(ctx); got != "run-42" {
		t.Errorf("RunIDFromContext = %q, want run-42", got)
	}
}

func TestWithRunLoggerNilBase(t *testing.T) {
	_, log := WithRunLogger(context.Background(), nil, "run-1")
	if log == nil {
		t.Fatalf("nil base produced nil logger")
	}
	// Must not panic.
	log.Info(context.Background(), "noop")
}
