// Package logger provides structured logging functionality for the application
// using Go's standard library log/slog package, including helpers for carrying
// request-scoped loggers through a context.Context.
package logger
