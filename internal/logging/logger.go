package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Log levels accepted by NewLogger and NewWriterLogger. Matching is
// case-insensitive.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogFileName is the file NewLogger appends to inside its directory.
const LogFileName = "lightgit.log"

var slogLevels = map[string]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

// sink owns the log file shared by a logger and all of its children.
type sink struct {
	mu   sync.Mutex
	file *os.File
}

func (s *sink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	file := s.file
	s.file = nil
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// Logger writes JSON log lines with attributes inherited from its parents.
// It is safe for concurrent use.
type Logger struct {
	slog *slog.Logger
	sink *sink
}

// NewLogger creates a Logger appending to {dir}/lightgit.log, creating dir
// if needed. An empty dir logs to stderr. Unknown levels fall back to INFO.
func NewLogger(dir string, level string) (*Logger, error) {
	if dir == "" {
		return NewWriterLogger(os.Stderr, level), nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := NewWriterLogger(file, level)
	l.sink.file = file
	return l, nil
}

// NewWriterLogger creates a Logger writing to w. The caller keeps ownership
// of w; Close does not close it.
func NewWriterLogger(w io.Writer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slogLevels[ParseLevel(level)],
	})
	return &Logger{slog: slog.New(handler), sink: &sink{}}
}

// NopLogger returns a Logger that discards everything.
func NopLogger() *Logger {
	return NewWriterLogger(io.Discard, LevelError)
}

// ParseLevel normalises level to one of the Level constants, defaulting to
// LevelInfo.
func ParseLevel(level string) string {
	upper := strings.ToUpper(strings.TrimSpace(level))
	if _, ok := slogLevels[upper]; ok {
		return upper
	}
	return LevelInfo
}

// ValidLevels returns the accepted level names, most verbose first.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}

// WithComponent tags every entry with component=name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

// WithDirectory tags every entry with the directory being looked up.
func (l *Logger) WithDirectory(dir string) *Logger {
	return l.With("dir", dir)
}

// With returns a child Logger carrying the given key-value pairs. Pairs
// whose key is not a string are dropped, as is a trailing key without a
// value.
func (l *Logger) With(args ...any) *Logger {
	var attrs []any
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	if len(attrs) == 0 {
		return l
	}
	return &Logger{slog: l.slog.With(attrs...), sink: l.sink}
}

// Debug, Info, Warn and Error log msg with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

func (l *Logger) log(level slog.Level, msg string, args []any) {
	l.slog.Log(context.Background(), level, msg, args...)
}

// Close syncs and closes the log file opened by NewLogger. It is shared
// with child loggers, and calling it more than once is harmless.
func (l *Logger) Close() error {
	return l.sink.close()
}
