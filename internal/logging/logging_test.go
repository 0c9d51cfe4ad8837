package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")

	ctx := ContextWithLogger(context.Background(), logger)
	FromContext(ctx).Info("hello", "k", "v")

	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("expected message in output, got %s", buf.String())
	}
}

func TestFromContextDefaultsWhenMissing(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Fatal("expected slog.Default when no logger is attached")
	}
}
