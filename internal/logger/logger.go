// Package logger provides a simple wrapper around zap for structured logging.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance. It discards everything until Init
// is called, since the terminal belongs to the TUI.
var Logger = zap.NewNop().Sugar()

// Init builds a JSON production logger that writes to path.
func Init(path, level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.StacktraceKey = "stacktrace"

	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	Logger = l.Sugar()
	return nil
}

// Sync flushes buffered log entries.
func Sync() error {
	return Logger.Sync()
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Errorw(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Infow(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warnw(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debugw(msg, args...)
}
