package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	globalMu sync.RWMutex
	global   *zap.Logger
)

// setGlobal installs the global fallback logger (called by New).
func setGlobal(l *zap.Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
}

// getGlobal returns the global logger, or a nop logger if New was never
// called. Concurrency-safe.
func getGlobal() *zap.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if global == nil {
		return zap.NewNop()
	}
	return global
}

// SetGlobalLogger replaces the global fallback logger. The provided logger
// should carry AddCallerSkip(1) for correct caller locations from the
// package-level functions.
func SetGlobalLogger(l *zap.Logger) {
	setGlobal(l)
}

// Debug logs at debug level using the global logger.
func Debug(msg string, fields ...zap.Field) {
	getGlobal().Debug(msg, fields...)
}

// Info logs at info level using the global logger.
func Info(msg string, fields ...zap.Field) {
	getGlobal().Info(msg, fields...)
}

// Warn logs at warn level using the global logger.
func Warn(msg string, fields ...zap.Field) {
	getGlobal().Warn(msg, fields...)
}

// Error logs at error level using the global logger.
func Error(msg string, fields ...zap.Field) {
	getGlobal().Error(msg, fields...)
}
