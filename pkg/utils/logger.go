package utils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// LogLevel represents the verbosity level of logging
type LogLevel int

const (
	ErrorLevel LogLevel = iota
	WarningLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

// slog has no trace level; trace records sit one step below debug
const slogLevelTrace = slog.LevelDebug - 4

// String returns a string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case ErrorLevel:
		return "ERROR"
	case WarningLevel:
		return "WARNING"
	case InfoLevel:
		return "INFO"
	case DebugLevel:
		return "DEBUG"
	case TraceLevel:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel converts a level name (case-insensitive) into a LogLevel
func ParseLogLevel(name string) (LogLevel, error) {
	switch strings.ToLower(name) {
	case "error":
		return ErrorLevel, nil
	case "warning", "warn":
		return WarningLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "debug":
		return DebugLevel, nil
	case "trace":
		return TraceLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level: %s", name)
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case ErrorLevel:
		return slog.LevelError
	case WarningLevel:
		return slog.LevelWarn
	case InfoLevel:
		return slog.LevelInfo
	case DebugLevel:
		return slog.LevelDebug
	default:
		return slogLevelTrace
	}
}

// LogFormat selects the record encoding
type LogFormat string

const (
	FormatAuto LogFormat = "auto" // text on a terminal, JSON otherwise
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// Logger is a leveled logger with indentation that emits slog records
type Logger struct {
	Level      LogLevel
	Prefix     string
	IndentSize int
	indent     int // Current indentation level
	format     LogFormat
	handler    *slog.Logger
	attrs      []interface{}
	closer     io.Closer // Log file owned by the logger, if any
}

// NewLogger creates a new logger writing text records to stderr
func NewLogger(level LogLevel) *Logger {
	return NewLoggerWithFormat(level, FormatText, os.Stderr)
}

// NewLoggerWithFormat creates a logger with an explicit format and output
func NewLoggerWithFormat(level LogLevel, format LogFormat, w io.Writer) *Logger {
	l := &Logger{
		Level:      level,
		IndentSize: 2,
		format:     format,
	}
	l.SetOutput(w)
	return l
}

// NewFileLogger creates a new logger that writes JSON records to a file
func NewFileLogger(level LogLevel, filename string) (*Logger, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	l := NewLoggerWithFormat(level, FormatJSON, file)
	l.closer = file
	return l, nil
}

// Close releases the log file opened by NewFileLogger. It is a no-op for
// loggers writing to a caller-supplied writer.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// SetOutput sets the output writer and rebuilds the record handler
func (l *Logger) SetOutput(w io.Writer) {
	opts := &slog.HandlerOptions{Level: slogLevelTrace}

	var h slog.Handler
	if resolveFormat(l.format, w) == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	l.handler = slog.New(h)
}

// resolveFormat picks text for terminals when the format is auto
func resolveFormat(format LogFormat, w io.Writer) LogFormat {
	if format != FormatAuto {
		return format
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return FormatText
	}
	return FormatJSON
}

// SetPrefix sets a prefix for all log messages
func (l *Logger) SetPrefix(prefix string) {
	l.Prefix = prefix
}

// With returns a copy of the logger that adds key/value attributes to every record
func (l *Logger) With(args ...interface{}) *Logger {
	c := *l
	c.attrs = append(append([]interface{}{}, l.attrs...), args...)
	return &c
}

// Indent increases the indentation level
func (l *Logger) Indent() {
	l.indent++
}

// Outdent decreases the indentation level
func (l *Logger) Outdent() {
	if l.indent > 0 {
		l.indent--
	}
}

// log logs a message at the specified level
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if l == nil || level > l.Level {
		return
	}

	var builder strings.Builder
	if l.Prefix != "" {
		builder.WriteString(l.Prefix)
		builder.WriteString(": ")
	}
	if l.indent > 0 {
		builder.WriteString(strings.Repeat(" ", l.indent*l.IndentSize))
	}
	builder.WriteString(fmt.Sprintf(format, args...))

	l.handler.Log(context.Background(), level.slogLevel(), builder.String(), l.attrs...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ErrorLevel, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log(WarningLevel, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

// Trace logs a trace message (highest verbosity)
func (l *Logger) Trace(format string, args ...interface{}) {
	l.log(TraceLevel, format, args...)
}

// Search logs progress of the swap repair search
func (l *Logger) Search(format string, args ...interface{}) {
	l.log(DebugLevel, "SEARCH: "+format, args...)
}

// Backtrack logs undone swaps
func (l *Logger) Backtrack(format string, args ...interface{}) {
	l.log(DebugLevel, "BACKTRACK: "+format, args...)
}

// Verify logs adder bit checks
func (l *Logger) Verify(format string, args ...interface{}) {
	l.log(TraceLevel, "VERIFY: "+format, args...)
}

// Evaluate logs network evaluations
func (l *Logger) Evaluate(format string, args ...interface{}) {
	l.log(TraceLevel, "EVALUATE: "+format, args...)
}

// Discard returns a logger that drops every record
func Discard() *Logger {
	return NewLoggerWithFormat(ErrorLevel, FormatText, io.Discard)
}
