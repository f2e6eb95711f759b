package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const fieldSyncRun = "sync_run"

type fieldsKey struct{}

// WithFields returns logger with fields attached when it implements
// interfaces.FieldsLogger and logger unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if with, ok := logger.(interfaces.FieldsLogger); ok {
		return with.WithFields(maps.Clone(fields))
	}
	return logger
}

// ContextWithFields annotates ctx with fields that loggers derived through
// WithContext attach to every entry. Later values win on key clashes.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// ContextFields returns a copy of the fields carried by ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).(map[string]any)
	if len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// WithSyncRun tags ctx with the identifier of one sync pass so the fetcher,
// store and navigation entries of that pass can be correlated.
func WithSyncRun(ctx context.Context, runID string) context.Context {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return ctx
	}
	return ContextWithFields(ctx, map[string]any{fieldSyncRun: runID})
}

// SyncRun returns the pass identifier carried by ctx, or "".
func SyncRun(ctx context.Context) string {
	run, _ := ContextFields(ctx)[fieldSyncRun].(string)
	return run
}
