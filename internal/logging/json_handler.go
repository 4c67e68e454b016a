package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// jsonHandler emits one JSON object per record for the workspace's
// machine-readable log file. Ingest and recording analysis keys on
// ts/level/component, so records logged without a component are tagged
// "app", and timestamps keep nanosecond precision -- whole-second stamps
// would collapse adjacent batch-ingest events.
type jsonHandler struct {
	inner        slog.Handler
	hasComponent bool
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: replaceJSONAttr,
	}
	return &jsonHandler{inner: slog.NewJSONHandler(w, &opts)}
}

func (h *jsonHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *jsonHandler) Handle(ctx context.Context, record slog.Record) error {
	if !h.hasComponent && !recordHasComponent(record) {
		record.AddAttrs(slog.String(FieldComponent, "app"))
	}
	return h.inner.Handle(ctx, record)
}

func (h *jsonHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	has := h.hasComponent
	for _, attr := range attrs {
		if attr.Key == FieldComponent {
			has = true
		}
	}
	return &jsonHandler{inner: h.inner.WithAttrs(attrs), hasComponent: has}
}

func (h *jsonHandler) WithGroup(name string) slog.Handler {
	return &jsonHandler{inner: h.inner.WithGroup(name), hasComponent: h.hasComponent}
}

func recordHasComponent(record slog.Record) bool {
	found := false
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == FieldComponent {
			found = true
			return false
		}
		return true
	})
	return found
}

func replaceJSONAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339Nano))
		}
	case slog.LevelKey:
		attr.Key = "level"
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	case slog.MessageKey:
		attr.Key = "msg"
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return attr
}
