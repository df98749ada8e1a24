package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

type runIDKey struct{}

// New builds a structured logger; format is "json" (default) or "text"
func New(level, format string, w io.Writer) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format: %q", format)
	}
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel accepts debug, info, warn and error
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %q", level)
}

// WithRunID stores the run id in ctx
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunID returns the run id stored in ctx, "" when absent
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// LogRunStart logs the beginning of a batch run
func LogRunStart(ctx context.Context, logger *slog.Logger, source string, records int) {
	logger.Info("Run started",
		"run_id", RunID(ctx),
		"source", source,
		"records", records,
	)
}

// LogStageComplete logs one finished pipeline stage
func LogStageComplete(ctx context.Context, logger *slog.Logger, stage string, duration time.Duration, attrs ...any) {
	attrs = append(attrs, "run_id", RunID(ctx), "stage", stage, "duration_ms", duration.Milliseconds())
	logger.Info("Stage completed", attrs...)
}

// LogRunComplete logs the end of a batch run
func LogRunComplete(ctx context.Context, logger *slog.Logger, duration time.Duration, attrs ...any) {
	attrs = append(attrs, "run_id", RunID(ctx), "duration_ms", duration.Milliseconds())
	logger.Info("Run completed", attrs...)
}

// LogRunError logs a run-level failure
func LogRunError(ctx context.Context, logger *slog.Logger, err error, msg string, attrs ...any) {
	attrs = append(attrs, "run_id", RunID(ctx), "error", err)
	logger.Error(msg, attrs...)
}
