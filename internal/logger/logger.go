package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelReport sits above Error so run summaries are written whatever the configured level
const LevelReport = slog.Level(12)

var ErrUnknownFormat = errors.New("logger: unknown format")

var (
	logger *slog.Logger
)

// Initialize sets up the logger with the provided configuration.
// The returned closer releases the log file, if one was opened.
func Initialize(config Config) (io.Closer, error) {
	level := parseLogLevel(config.Level)
	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}

	if config.ConsoleEnabled {
		h, err := newHandler(os.Stdout, config.ConsoleFormat, level)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, h)
	}

	if config.FileEnabled {
		if config.FilePath == "" {
			return nil, fmt.Errorf("logger: file logging enabled without a file path")
		}
		logFile := &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.FileMaxSizeMB,
			MaxBackups: config.FileMaxBackups,
			MaxAge:     config.FileMaxAgeDays,
		}
		h, err := newHandler(logFile, config.FileFormat, level)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, h)
		closer = logFile
	}

	switch len(handlers) {
	case 0:
		// Nothing configured; keep reports visible on stderr
		h, _ := newHandler(os.Stderr, "text", LevelReport)
		logger = slog.New(h)
	case 1:
		logger = slog.New(handlers[0])
	default:
		logger = slog.New(newMultiHandler(handlers...))
	}
	return closer, nil
}

// SetOutput sends all logging to a single writer. The map viewer uses it to
// keep log lines off the terminal it draws on.
func SetOutput(w io.Writer, format, level string) error {
	h, err := newHandler(w, format, parseLogLevel(level))
	if err != nil {
		return err
	}
	logger = slog.New(h)
	return nil
}

func newHandler(w io.Writer, format string, level slog.Level) (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: renameReportLevel,
	}
	switch format {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renameReportLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok && level == LevelReport {
			a.Value = slog.StringValue("REPORT")
		}
	}
	return a
}

// parseLogLevel converts a string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch level {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "INFO", "info":
		return slog.LevelInfo
	case "WARNING", "WARN", "warning", "warn":
		return slog.LevelWarn
	case "ERROR", "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...any) {
	Debug(fmt.Sprintf(format, args...))
}

// Info logs an info message
func Info(msg string, args ...any) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

// Infof logs a formatted info message
func Infof(format string, args ...any) {
	Info(fmt.Sprintf(format, args...))
}

// Warning logs a warning message
func Warning(msg string, args ...any) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// Warningf logs a formatted warning message
func Warningf(format string, args ...any) {
	Warning(fmt.Sprintf(format, args...))
}

// Error logs an error message
func Error(msg string, args ...any) {
	if logger != nil {
		logger.Error(msg, args...)
	}
}

// Errorf logs a formatted error message
func Errorf(format string, args ...any) {
	Error(fmt.Sprintf(format, args...))
}

// Report logs a run summary that bypasses level filtering
func Report(msg string, args ...any) {
	if logger != nil {
		logger.Log(context.Background(), LevelReport, msg, args...)
	}
}

// Reportf logs a formatted run summary
func Reportf(format string, args ...any) {
	Report(fmt.Sprintf(format, args...))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// multiHandler fans records out to several handlers
type multiHandler struct {
	handlers []slog.Handler
}

func newMultiHandler(handlers ...slog.Handler) *multiHandler {
	return &multiHandler{handlers: handlers}
}

// Enabled reports whether any handler takes records at the given level
func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes the record to every handler that wants it, even when one fails
func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			errs = append(errs, handler.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return newMultiHandler(handlers...)
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return newMultiHandler(handlers...)
}
