package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRack is the standardized structured logging key for rack names.
	FieldRack = "rack"
	// FieldCategory is the standardized structured logging key for rack categories.
	FieldCategory = "category"
	// FieldAnalysisID is the standardized structured logging key for library analysis identifiers.
	FieldAnalysisID = "analysis_id"
	// FieldSourcePath is the standardized structured logging key for preset file paths.
	FieldSourcePath = "source_path"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

type contextKey string

const (
	analysisIDKey    contextKey = "analysis_id"
	correlationIDKey contextKey = "correlation_id"
)

// WithAnalysisID tags ctx with a library analysis identifier.
func WithAnalysisID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, analysisIDKey, strings.TrimSpace(id))
}

// WithCorrelationID tags ctx with a request or watcher session identifier.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, correlationIDKey, strings.TrimSpace(id))
}

// AnalysisIDFromContext returns the analysis identifier stored in ctx.
func AnalysisIDFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, analysisIDKey)
}

// CorrelationIDFromContext returns the correlation identifier stored in ctx.
func CorrelationIDFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, correlationIDKey)
}

func stringFromContext(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(key).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := AnalysisIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldAnalysisID, id))
	}
	if rid, ok := CorrelationIDFromContext(ctx); ok {
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
