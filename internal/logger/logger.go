// Package logger is the client's leveled logger. Levels follow prisma.conf
// (query, info, warn, error); output goes through zap.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel is one of the four client levels.
type LogLevel int

const (
	LogLevelQuery LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelQuery:
		return "query"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	}
	return "unknown"
}

// ParseLevels reads level names, ignoring unknown ones.
func ParseLevels(names []string) map[LogLevel]bool {
	levels := make(map[LogLevel]bool)
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "query":
			levels[LogLevelQuery] = true
		case "info":
			levels[LogLevelInfo] = true
		case "warn", "warning":
			levels[LogLevelWarn] = true
		case "error":
			levels[LogLevelError] = true
		}
	}
	return levels
}

// Logger filters by the enabled client levels and writes through zap.
// Queries are written at zap debug level with the statement as a field.
type Logger struct {
	levels map[LogLevel]bool
	zap    *zap.Logger
}

// New wraps an existing zap logger.
func New(levels []string, z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{levels: ParseLevels(levels), zap: z}
}

// NewLogger writes JSON lines to w.
func NewLogger(levels []string, w io.Writer) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), zapcore.DebugLevel)
	return New(levels, zap.New(core).Named("gigboard"))
}

// NewConsoleLogger writes human readable lines to w; used by the CLI.
func NewConsoleLogger(levels []string, w io.Writer) *Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zapcore.DebugLevel)
	return New(levels, zap.New(core))
}

// Enabled reports whether level is on.
func (l *Logger) Enabled(level LogLevel) bool {
	return l != nil && l.levels[level]
}

// Zap exposes the underlying logger.
func (l *Logger) Zap() *zap.Logger { return l.zap }

// WithLevels returns a copy using the given levels and the same sink.
func (l *Logger) WithLevels(levels []string) *Logger {
	return &Logger{levels: ParseLevels(levels), zap: l.zap}
}

// Query logs a statement with redacted arguments.
func (l *Logger) Query(query string, args []interface{}, duration time.Duration) {
	if !l.Enabled(LogLevelQuery) {
		return
	}
	l.zap.Debug("query",
		zap.String("query", query),
		zap.Strings("args", FormatArgs(args)),
		zap.Duration("duration", duration),
	)
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.Enabled(LogLevelInfo) {
		l.zap.Info(fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.Enabled(LogLevelWarn) {
		l.zap.Warn(fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.Enabled(LogLevelError) {
		l.zap.Error(fmt.Sprintf(format, args...))
	}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

var (
	mu            sync.RWMutex
	defaultLogger = NewLogger(nil, os.Stdout)
)

// SetDefaultLogger replaces the process wide logger.
func SetDefaultLogger(l *Logger) {
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

// GetDefaultLogger returns the process wide logger.
func GetDefaultLogger() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetLogLevels re-levels the default logger, keeping its sink.
func SetLogLevels(levels []string) {
	mu.Lock()
	defaultLogger = defaultLogger.WithLevels(levels)
	mu.Unlock()
}
