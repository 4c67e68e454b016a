package services

import "context"

type contextKey string

const (
	assetIDKey   contextKey = "asset_id"
	lineIDKey    contextKey = "line_id"
	formatKey    contextKey = "format"
	requestIDKey contextKey = "request_id"
)

// WithAssetID annotates context with the source asset identifier.
func WithAssetID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, assetIDKey, id)
}

// AssetIDFromContext extracts the source asset identifier if present.
func AssetIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(assetIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithLineID annotates context with the translation line identifier.
func WithLineID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, lineIDKey, id)
}

// LineIDFromContext extracts the translation line identifier if present.
func LineIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(lineIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithFormat annotates context with the export format identifier.
func WithFormat(ctx context.Context, format string) context.Context {
	if format == "" {
		return ctx
	}
	return context.WithValue(ctx, formatKey, format)
}

// FormatFromContext returns the export format identifier if present.
func FormatFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(formatKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
