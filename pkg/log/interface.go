// Package log provides the structured logging interface used across scicv.
//
// The interface is deliberately small and slog-shaped: a message followed by
// alternating key/value fields. The default implementation writes JSON (or
// console output) through zerolog; tests swap in a TestLogger.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ComponentKey, "crossvalidation",
//	    log.StrategyKey, "LeavePOut",
//	)
//	logger.Info("validation finished",
//	    log.FoldsKey, 6,
//	    log.ScoreKey, 0.93,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key/value pairs. Error may receive an error value as
// its first field, in which case it is recorded under the "error" key.
type Logger interface {
	// Debug logs detailed diagnostic information, e.g. per-fold progress.
	Debug(msg string, fields ...any)

	// Info logs general operational information.
	Info(msg string, fields ...any)

	// Warn logs conditions that do not stop the operation.
	Warn(msg string, fields ...any)

	// Error logs error conditions.
	//
	// Example:
	//   logger.Error("validation failed",
	//       err,
	//       log.StrategyKey, "KFold",
	//   )
	Error(msg string, fields ...any)

	// With returns a Logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be emitted.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates loggers; used for dependency injection in tests.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for loggers created by this provider.
	SetLevel(level Level)
}

// splitError peels a leading error value off an odd-length field list.
func splitError(fields []any) ([]any, error) {
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			return fields[1:], err
		}
	}
	return fields, nil
}
