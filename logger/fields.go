package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across depminer.
// Use these constants instead of raw strings.
const (
	// Identity and context
	FieldRunID     = "run_id"
	FieldComponent = "component"
	FieldAlgorithm = "algorithm"
	FieldDataset   = "dataset"

	// Discovery loop
	FieldRound       = "round"
	FieldPhase       = "phase"
	FieldLevel       = "level"
	FieldCandidates  = "candidates"
	FieldInvalid     = "invalid"
	FieldWitnesses   = "witnesses"
	FieldSuggestions = "suggestions"
	FieldThreshold   = "threshold"
	FieldAttribute   = "attribute"
	FieldWindow      = "window"
	FieldEfficiency  = "efficiency"
	FieldThreads     = "threads"

	// Relation shape
	FieldRows    = "rows"
	FieldColumns = "columns"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldPath  = "path"
)

// Context keys for propagating logging context
type contextKey string

const (
	runIDKey     contextKey = "logger_run_id"
	componentKey contextKey = "logger_component"
)

// WithRunID adds a discovery run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, FieldRunID, runID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns the global logger enriched with context fields.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	return WithContext(Logger, ctx)
}

// WithContext returns base enriched with the run_id/component carried by ctx.
func WithContext(base *zap.SugaredLogger, ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	sampler := hy.NewSampler(rel, hy.SamplerOptions{
//	    Logger: logger.ComponentLogger("hy.sampler"),
//	})
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
