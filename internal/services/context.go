package services

import "context"

type contextKey string

const (
	showIDContextKey contextKey = "linklib.show_id"
	runIDContextKey  contextKey = "linklib.run_id"
)

// WithShowID stamps a catalog show identifier onto the context.
func WithShowID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, showIDContextKey, id)
}

// ShowIDFromContext extracts a show identifier if present.
func ShowIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(showIDContextKey).(int64)
	return id, ok
}

// WithRunID stamps a build run identifier onto the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDContextKey, runID)
}

// RunIDFromContext extracts a build run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	runID, ok := ctx.Value(runIDContextKey).(string)
	return runID, ok && runID != ""
}
