// Package contextutil carries the request-scoped logger through context.
package contextutil

import (
	"context"
	"log/slog"
)

type loggerCtxKey struct{}

// LoggerFromContext returns the logger stored by WithLogger, or slog.Default().
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// WithAttrs stores the context logger extended with args, so code further
// down the call chain logs them too.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	return WithLogger(ctx, LoggerFromContext(ctx).With(args...))
}

// LoggerKey returns the key loggers are stored under.
func LoggerKey() any {
	return loggerCtxKey{}
}
