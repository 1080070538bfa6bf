package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/contactd/contactd/internal/config"
)

func TestNewLevelResolution(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	ctx := context.Background()
	for in, want := range cases {
		l := New(config.Logging{Level: in, Service: "test"})
		if !l.Enabled(ctx, want) {
			t.Errorf("level %q: expected %v to be enabled", in, want)
		}
		if l.Enabled(ctx, want-1) {
			t.Errorf("level %q: expected %v to be disabled", in, want-1)
		}
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if RequestID(ctx) != "" {
		t.Error("empty context should have no request id")
	}
	ctx = WithRequestID(ctx, "req-123")
	if got := RequestID(ctx); got != "req-123" {
		t.Errorf("RequestID = %q, want req-123", got)
	}
}
