package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the severity level of a log message
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Format represents the output format for logs
type Format int

const (
	TextFormat Format = iota
	JSONFormat
)

// Fields carries structured key/value context for a log entry
type Fields map[string]interface{}

// Entry is a single structured log record
type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component,omitempty"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Logger writes leveled, structured entries to an io.Writer.
// Child loggers created with WithComponent share the parent's writer lock.
type Logger struct {
	mu        *sync.Mutex
	level     Level
	format    Format
	output    io.Writer
	component string
	exit      func(int)
}

// Config holds logger configuration
type Config struct {
	Level     Level
	Format    Format
	Output    io.Writer
	Component string
}

// New creates a new logger with the given configuration
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{
		mu:        &sync.Mutex{},
		level:     cfg.Level,
		format:    cfg.Format,
		output:    cfg.Output,
		component: cfg.Component,
		exit:      os.Exit,
	}
}

// NewDefault creates a text logger at INFO level writing to stderr
func NewDefault() *Logger {
	return New(Config{Level: INFO, Format: TextFormat})
}

// WithComponent returns a child logger tagged with the given component name
func (l *Logger) WithComponent(component string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	return &Logger{
		mu:        l.mu,
		level:     l.level,
		format:    l.format,
		output:    l.output,
		component: component,
		exit:      l.exit,
	}
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetFormat sets the log output format
func (l *Logger) SetFormat(format Format) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = format
}

// Enabled reports whether entries at level would be written
func (l *Logger) Enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Message:   message,
		Component: l.component,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	var line string
	if l.format == JSONFormat {
		b, mErr := json.Marshal(entry)
		if mErr != nil {
			b, _ = json.Marshal(Entry{
				Timestamp: entry.Timestamp,
				Level:     entry.Level,
				Message:   entry.Message,
				Component: entry.Component,
				Error:     fmt.Sprintf("unencodable fields: %v", mErr),
			})
		}
		line = string(b) + "\n"
	} else {
		line = formatText(entry)
	}

	_, _ = io.WriteString(l.output, line)

	if level == FATAL {
		l.exit(1)
	}
}

// formatText renders an entry as a single human-readable line.
// Field keys are sorted so output is stable.
func formatText(entry Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", entry.Timestamp, entry.Level)
	if entry.Component != "" {
		fmt.Fprintf(&b, " [%s]", entry.Component)
	}
	b.WriteString(" ")
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		}
		fmt.Fprintf(&b, " fields={%s}", strings.Join(parts, ", "))
	}

	if entry.Error != "" {
		fmt.Fprintf(&b, " error=%s", entry.Error)
	}
	b.WriteString("\n")
	return b.String()
}

func first(fields []Fields) Fields {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(DEBUG, message, first(fields), nil)
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...Fields) {
	l.log(INFO, message, first(fields), nil)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(WARN, message, first(fields), nil)
}

// Error logs an error message
func (l *Logger) Error(message string, err error, fields ...Fields) {
	l.log(ERROR, message, first(fields), err)
}

// Fatal logs a fatal message and exits the program
func (l *Logger) Fatal(message string, err error, fields ...Fields) {
	l.log(FATAL, message, first(fields), err)
}
