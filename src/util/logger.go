package util

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"tech-debt-manager/src/config"
)

// LogLevel represents logging level
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLogLevel converts a config level name to a LogLevel, defaulting to info
func ParseLogLevel(name string) LogLevel {
	switch name {
	case "debug":
		return LogLevelDebug
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger provides leveled printf-style logging on top of slog
type Logger struct {
	level         LogLevel
	handler       slog.Handler
	includeCaller bool
	closer        io.Closer
}

// NewLogger creates a new logger from config
func NewLogger(cfg config.LoggingConfig) *Logger {
	output := io.Writer(os.Stderr)
	var closer io.Closer
	if cfg.File != "" {
		if f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			output = f
			closer = f
		}
	}
	return newLogger(cfg, output, closer)
}

// NewLoggerWithWriter creates a logger that writes to w
func NewLoggerWithWriter(cfg config.LoggingConfig, w io.Writer) *Logger {
	return newLogger(cfg, w, nil)
}

func newLogger(cfg config.LoggingConfig, w io.Writer, closer io.Closer) *Logger {
	level := ParseLogLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level: level.slogLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey && !cfg.IncludeTimestamp {
				return slog.Attr{}
			}
			return a
		},
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		level:         level,
		handler:       handler,
		includeCaller: cfg.IncludeCaller,
		closer:        closer,
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LogLevelDebug, msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) {
	l.log(LogLevelInfo, msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LogLevelWarn, msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) {
	l.log(LogLevelError, msg, args...)
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if level < l.level {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	// skip runtime.Callers, log, the level method and the package-level wrapper
	var pc uintptr
	if l.includeCaller {
		var pcs [1]uintptr
		runtime.Callers(4, pcs[:])
		pc = pcs[0]
	}

	record := slog.NewRecord(time.Now(), level.slogLevel(), msg, pc)
	if l.includeCaller && pc != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
		record.AddAttrs(slog.String("caller", fmt.Sprintf("%s:%d", frame.File, frame.Line)))
	}
	_ = l.handler.Handle(context.Background(), record)
}

// GetLevel returns the current log level as a string
func (l *Logger) GetLevel() string {
	switch l.level {
	case LogLevelDebug:
		return "debug"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "info"
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = NewLogger(config.LoggingConfig{
		Level:            "info",
		IncludeTimestamp: true,
	})
)

// SetDefaultLogger updates the default logger with new configuration
func SetDefaultLogger(cfg config.LoggingConfig) {
	SetLogger(NewLogger(cfg))
}

// SetLogger replaces the default logger
func SetLogger(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// DefaultLogger returns the package-level default logger
func DefaultLogger() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Debug logs using the default logger
func Debug(msg string, args ...any) {
	DefaultLogger().Debug(msg, args...)
}

// Info logs using the default logger
func Info(msg string, args ...any) {
	DefaultLogger().Info(msg, args...)
}

// Warn logs using the default logger
func Warn(msg string, args ...any) {
	DefaultLogger().Warn(msg, args...)
}

// Error logs using the default logger
func Error(msg string, args ...any) {
	DefaultLogger().Error(msg, args...)
}
