package main

import (
	"context"
	"io"
	"os"
	"testing"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
	"cdr.dev/slog/sloggers/slogtest"
)

var defaultLogger = slog.Make(sloghuman.Sink(os.Stderr)).Named("sketchpad")

type loggerKey struct{}

func loggerFrom(ctx context.Context) slog.Logger {
	if ctx == nil {
		return defaultLogger
	}
	l, ok := ctx.Value(loggerKey{}).(slog.Logger)
	if !ok {
		return defaultLogger
	}
	return l
}

func withLogger(ctx context.Context, l slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// withTestLogger attaches a slogtest logger that does not fail the test on
// error-level entries.
func withTestLogger(ctx context.Context, t testing.TB) context.Context {
	return withLogger(ctx, slogtest.Make(t, &slogtest.Options{IgnoreErrors: true}).Leveled(slog.LevelDebug))
}

// newFileLogger logs to w in human format; the TUI owns stderr.
func newFileLogger(w io.Writer, level string) slog.Logger {
	return slog.Make(sloghuman.Sink(w)).Named("sketchpad").Leveled(parseLevel(level))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func logDebug(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	loggerFrom(ctx).Debug(ctx, msg, fields...)
}

func logInfo(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	loggerFrom(ctx).Info(ctx, msg, fields...)
}

func logWarn(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	loggerFrom(ctx).Warn(ctx, msg, fields...)
}

func logError(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	loggerFrom(ctx).Error(ctx, msg, fields...)
}

func namedLogger(ctx context.Context, name string) context.Context {
	return withLogger(ctx, loggerFrom(ctx).Named(name))
}
