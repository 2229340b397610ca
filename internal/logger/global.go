package logger

import (
	"os"
	"strings"
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalLogger = NewDefault()
)

func init() {
	Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure applies a level and format name to the global logger.
// Unrecognised or empty values leave the current setting in place.
func Configure(level, format string) {
	l := Global()
	if lvl, ok := ParseLevel(level); ok {
		l.SetLevel(lvl)
	}
	if f, ok := ParseFormat(format); ok {
		l.SetFormat(f)
	}
}

// ParseLevel parses a log level name such as "debug" or "WARNING"
func ParseLevel(level string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	case "FATAL":
		return FATAL, true
	default:
		return INFO, false
	}
}

// ParseFormat parses "json" or "text"
func ParseFormat(format string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, true
	case "text":
		return TextFormat, true
	default:
		return TextFormat, false
	}
}

// Global returns the process-wide logger
func Global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetGlobal replaces the process-wide logger
func SetGlobal(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Component returns a child of the global logger for the named component
func Component(name string) *Logger {
	return Global().WithComponent(name)
}

// Info logs an info message using the global logger
func Info(message string, fields ...Fields) {
	Global().Info(message, fields...)
}

// Warn logs a warning message using the global logger
func Warn(message string, fields ...Fields) {
	Global().Warn(message, fields...)
}

// Error logs an error message using the global logger
func Error(message string, err error, fields ...Fields) {
	Global().Error(message, err, fields...)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, fields ...Fields) {
	Global().Fatal(message, err, fields...)
}
