// Package logger is the leveled file logger shared by every quizr package.
// It is silent until a log file is configured so that it never corrupts the TUI.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel accepts the level names case-insensitively, plus "warning".
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return LevelWarn, nil
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

type Logger struct {
	mu    sync.Mutex
	level Level
	out   *log.Logger
	file  *os.File
}

// Default backs the package-level functions.
var Default = New()

// New returns a logger seeded from QUIZR_LOG_LEVEL and QUIZR_LOG_FILE.
// Without a file it discards everything.
func New() *Logger {
	l := &Logger{level: LevelInfo, out: log.New(io.Discard, "", log.LstdFlags)}
	if lvl, err := ParseLevel(os.Getenv("QUIZR_LOG_LEVEL")); err == nil {
		l.level = lvl
	}
	if path := os.Getenv("QUIZR_LOG_FILE"); path != "" {
		_ = l.openFile(path)
	}
	return l
}

// Configure applies the level and file from loaded configuration.
// Empty values leave the current setting in place.
func (l *Logger) Configure(level, file string) error {
	if level != "" {
		lvl, err := ParseLevel(level)
		if err != nil {
			return err
		}
		l.SetLevel(lvl)
	}
	if file != "" {
		return l.openFile(file)
	}
	return nil
}

func (l *Logger) openFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("log file %s: %w", path, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
	}
	l.file = f
	l.out.SetOutput(f)
	return nil
}

// Close releases the log file. Output is discarded afterwards.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.out.SetOutput(io.Discard)
	return err
}

func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	l.out.SetOutput(w)
	l.mu.Unlock()
}

func (l *Logger) Debug(format string, v ...any) { l.logf(LevelDebug, format, v...) }
func (l *Logger) Info(format string, v ...any)  { l.logf(LevelInfo, format, v...) }
func (l *Logger) Warn(format string, v ...any)  { l.logf(LevelWarn, format, v...) }
func (l *Logger) Error(format string, v ...any) { l.logf(LevelError, format, v...) }

func (l *Logger) logf(level Level, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level >= l.level {
		l.out.Printf("[%s] %s", level, fmt.Sprintf(format, v...))
	}
}

func Debug(format string, v ...any) { Default.Debug(format, v...) }
func Info(format string, v ...any)  { Default.Info(format, v...) }
func Warn(format string, v ...any)  { Default.Warn(format, v...) }
func Error(format string, v ...any) { Default.Error(format, v...) }

// Configure applies level and file settings to Default.
func Configure(level, file string) error { return Default.Configure(level, file) }

func Close() error { return Default.Close() }
