// Package logging provides a small leveled logger for the batch run. Lines go
// to stderr; when a log file is configured they are mirrored to a rotating
// file via lumberjack.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is the logging threshold. Messages below the configured level are dropped.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// ParseLevel converts a level name ("debug", "info", ...) to a Level.
// Unknown names default to info.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes timestamped leveled lines to one or more sinks.
type Logger struct {
	threshold Level
	sinks     []io.Writer
}

// New creates a Logger writing to stderr. When logFile is non-empty, lines are
// also appended to that file with rotation (10 MB, 3 backups).
func New(level Level, logFile string) *Logger {
	l := &Logger{
		threshold: level,
		sinks:     []io.Writer{os.Stderr},
	}
	if logFile != "" {
		l.sinks = append(l.sinks, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 3,
		})
	}
	return l
}

// NewWithWriter creates a Logger writing to the given writer only. Used in tests.
func NewWithWriter(level Level, w io.Writer) *Logger {
	return &Logger{threshold: level, sinks: []io.Writer{w}}
}

// Enabled reports whether messages at the given level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.threshold
}

func (l *Logger) logf(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	line := fmt.Sprintf("[%s] [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		levelNames[level],
		fmt.Sprintf(format, args...))
	for _, w := range l.sinks {
		io.WriteString(w, line)
	}
}

// Tracef logs at trace level.
func (l *Logger) Tracef(format string, args ...any) { l.logf(LevelTrace, format, args...) }

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.logf(LevelInfo, format, args...) }

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) { l.logf(LevelWarn, format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }
