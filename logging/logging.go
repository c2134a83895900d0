// Package logging provides module-scoped loggers for the rest of the codebase.
package logging

import (
	"context"

	"go.uber.org/zap"
)

// Logger is used where logging is needed.
type Logger = *zap.SugaredLogger

// LoggerFactory retrieves a named logger for a given module.
type LoggerFactory func(module string) Logger

// NullLogger discards all log messages.
//
//nolint:gochecknoglobals
var NullLogger = zap.NewNop().Sugar()

type contextKey string

const loggerKey contextKey = "logger"

// WithLogger returns a derived context with an associated logger factory.
func WithLogger(ctx context.Context, l LoggerFactory) context.Context {
	if l == nil {
		return ctx
	}

	return context.WithValue(ctx, loggerKey, l)
}

// Module returns a function that returns a logger for a given module when provided with a context.
func Module(module string) func(ctx context.Context) Logger {
	return func(ctx context.Context) Logger {
		if l, ok := ctx.Value(loggerKey).(LoggerFactory); ok && l != nil {
			return l(module)
		}

		return NullLogger
	}
}
