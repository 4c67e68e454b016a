package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"dubforge/internal/services"
)

func TestConsoleHandlerRendersComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	NewComponentLogger(logger, "ingest").Info("parsed file", slog.Int("lines", 3))

	out := buf.String()
	if !strings.Contains(out, "INFO ingest: parsed file") {
		t.Fatalf("unexpected console output: %q", out)
	}
	if !strings.Contains(out, "lines=3") {
		t.Fatalf("expected attrs in output: %q", out)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Info("msg", slog.String("key", "two words"))

	if !strings.Contains(buf.String(), `key="two words"`) {
		t.Fatalf("expected quoted value: %q", buf.String())
	}
}

func TestWithContextAddsIdentifiers(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	ctx := services.WithAssetID(context.Background(), 7)
	ctx = services.WithFormat(ctx, "unity-json")
	WithContext(ctx, logger).Info("ingest started")

	out := buf.String()
	if !strings.Contains(out, "asset_id=7") || !strings.Contains(out, "format=unity-json") {
		t.Fatalf("expected context fields in output: %q", out)
	}
}

func TestJSONHandlerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl, false))

	logger.Info("workspace opened")
	out := buf.String()
	if !strings.Contains(out, `"component":"app"`) {
		t.Fatalf("record without component should default to app: %q", out)
	}
	if !strings.Contains(out, `"msg":"workspace opened"`) || !strings.Contains(out, `"level":"info"`) {
		t.Fatalf("unexpected envelope keys: %q", out)
	}

	buf.Reset()
	NewComponentLogger(logger, "recording").Info("take recorded")
	out = buf.String()
	if !strings.Contains(out, `"component":"recording"`) {
		t.Fatalf("explicit component lost: %q", out)
	}
	if strings.Contains(out, `"component":"app"`) {
		t.Fatalf("default must not override an explicit component: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
