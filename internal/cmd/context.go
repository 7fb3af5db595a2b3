package cmd

import (
	"context"
	"io"
	"log/slog"
)

type errorFormatKey struct{}

type loggerKey struct{}

// WithErrorFormat stores the error format in the context.
func WithErrorFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, errorFormatKey{}, format)
}

// ErrorFormatFromContext retrieves the error format from context.
func ErrorFormatFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(errorFormatKey{}).(string); ok {
		return v
	}
	return ""
}

func withLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

// loggerFromContext returns the command logger, or one that discards
// everything when none was set.
func loggerFromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if v, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && v != nil {
			return v
		}
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
