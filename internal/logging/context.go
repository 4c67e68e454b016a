package logging

import (
	"context"
	"log/slog"

	"dubforge/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldAssetID is the standardized structured logging key for source asset identifiers.
	FieldAssetID = "asset_id"
	// FieldLineID is the standardized structured logging key for translation line identifiers.
	FieldLineID = "line_id"
	// FieldFormat is the standardized structured logging key for export format identifiers.
	FieldFormat = "format"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := services.AssetIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldAssetID, id))
	}
	if id, ok := services.LineIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldLineID, id))
	}
	if format, ok := services.FormatFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFormat, format))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
