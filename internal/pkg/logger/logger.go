// Package logger provides structured logging for the SAI Redis shim.
//
// Uses zap with AtomicLevel for hot-reload support.
// JSON format for production, console for development.
//
// Every warning-or-above entry is also mirrored into a small in-memory
// tail (see LogEntry/RecentWarnings) so the diagnostic HTTP surface can
// answer "what has this process recently complained about" the same
// way it answers "what has recently crossed the wire" from the SAI
// trace ring buffer, without the caller needing to grep log output.
//
// Import Path (ADR-0016): github.com/sonic-net/sai-redis-go/internal/pkg/logger
package logger

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// global is the package-level logger instance.
	global      *zap.Logger
	atomicLevel zap.AtomicLevel
	once        sync.Once
	warnTail    = newRecentBuffer(200)
)

// LogEntry is one captured warning-or-above log line, as returned by
// RecentWarnings.
type LogEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// recentBuffer is a fixed-capacity FIFO of LogEntry, the logger's
// analogue of pipeline.RingBuffer but scoped to this package so
// internal/pkg/logger carries no dependency on internal/sai.
type recentBuffer struct {
	mu  sync.Mutex
	cap int
	buf []LogEntry
}

func newRecentBuffer(capacity int) *recentBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &recentBuffer{cap: capacity, buf: make([]LogEntry, 0, capacity)}
}

func (r *recentBuffer) add(e LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.buf) == r.cap {
		r.buf = r.buf[1:]
	}
	r.buf = append(r.buf, e)
}

func (r *recentBuffer) tail(n int) []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 || n > len(r.buf) {
		n = len(r.buf)
	}
	out := make([]LogEntry, n)
	copy(out, r.buf[len(r.buf)-n:])
	return out
}

// captureWarnings is installed as a zap.Hooks callback so every
// warning-or-above entry lands in warnTail regardless of encoder/sink
// configuration (json vs console).
func captureWarnings(e zapcore.Entry) error {
	if e.Level >= zapcore.WarnLevel {
		warnTail.add(LogEntry{
			Time:    e.Time.UTC().Format(time.RFC3339Nano),
			Level:   e.Level.String(),
			Message: e.Message,
		})
	}
	return nil
}

// RecentWarnings returns up to n of the most recently logged
// warning-or-above entries, oldest first — the diagnostic surface's log
// tail (GET /v1/logs).
func RecentWarnings(n int) []LogEntry {
	return warnTail.tail(n)
}

// Init initializes the global logger.
// level: debug, info, warn, error
// format: json or console
func Init(level, format string) error {
	var initErr error
	once.Do(func() {
		atomicLevel = zap.NewAtomicLevel()
		if err := atomicLevel.UnmarshalText([]byte(level)); err != nil {
			initErr = fmt.Errorf("parse log level %q: %w", level, err)
			return
		}

		var cfg zap.Config
		switch format {
		case "console":
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		default:
			cfg = zap.NewProductionConfig()
		}
		cfg.Level = atomicLevel

		logger, err := cfg.Build(zap.AddCallerSkip(1), zap.Hooks(captureWarnings))
		if err != nil {
			initErr = fmt.Errorf("build logger: %w", err)
			return
		}
		global = logger
	})
	return initErr
}

// SetLevel dynamically changes the log level (hot-reload support).
func SetLevel(level string) error {
	return atomicLevel.UnmarshalText([]byte(level))
}

// GetLevel returns the current log level.
func GetLevel() zapcore.Level {
	return atomicLevel.Level()
}

// L returns the global logger. Panics if Init has not been called.
func L() *zap.Logger {
	if global == nil {
		panic("logger.Init() must be called before logger.L()")
	}
	return global
}

// S returns the global sugared logger.
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// Debug logs a message at DebugLevel.
func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

// Info logs a message at InfoLevel.
func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

// Fatal logs a message at FatalLevel then calls os.Exit(1).
func Fatal(msg string, fields ...zap.Field) {
	L().Fatal(msg, fields...)
}

// With creates a child logger with additional fields.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// HTTPHandler returns an http.Handler that allows dynamic log level changes.
// Mount at /log/level for runtime hot-reload (zap AtomicLevel best practice).
//
// Usage:
//
//	GET  /log/level          → returns current level
//	PUT  /log/level -d '{"level":"debug"}' → changes level
func HTTPHandler() *zap.AtomicLevel {
	return &atomicLevel
}

// Sync flushes any buffered log entries.
func Sync() error {
	if global == nil {
		return nil
	}
	return global.Sync()
}
