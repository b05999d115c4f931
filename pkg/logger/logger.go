package logger

import (
	"fmt"
	"log"
	"sync"

	"github.com/fatih/color"
)

// Level represents the severity level of a log message.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	NoticeLevel
	ErrorLevel
)

// ParseLevel converts a level name into a Level, defaulting to info.
func ParseLevel(name string) Level {
	switch name {
	case "debug":
		return DebugLevel
	case "notice":
		return NoticeLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// chainColors assigns a stable color per chain so interleaved output from the
// source and destination listeners stays readable.
var chainColors = []color.Attribute{
	color.FgHiGreen,
	color.FgYellow,
	color.FgMagenta,
	color.FgHiBlue,
	color.FgRed,
	color.FgCyan,
}

// Logger is a simple interface for logging messages.
type Logger interface {
	// Info logs an informational message.
	Info(format string, args ...interface{})
	InfoWithChain(chainID int, format string, args ...interface{})

	// Error logs an error message.
	Error(format string, args ...interface{})
	ErrorWithChain(chainID int, format string, args ...interface{})

	// Debug logs a debug message.
	Debug(format string, args ...interface{})
	DebugWithChain(chainID int, format string, args ...interface{})

	// Notice logs a notice message.
	Notice(format string, args ...interface{})
	NoticeWithChain(chainID int, format string, args ...interface{})
}

// EmptyLogger is a simple implementation of the Logger interface that does nothing.
type EmptyLogger struct{}

var _ Logger = (*EmptyLogger)(nil)

func (l *EmptyLogger) Info(_ string, _ ...interface{})                   {}
func (l *EmptyLogger) InfoWithChain(_ int, _ string, _ ...interface{})   {}
func (l *EmptyLogger) Error(_ string, _ ...interface{})                  {}
func (l *EmptyLogger) ErrorWithChain(_ int, _ string, _ ...interface{})  {}
func (l *EmptyLogger) Debug(_ string, _ ...interface{})                  {}
func (l *EmptyLogger) DebugWithChain(_ int, _ string, _ ...interface{})  {}
func (l *EmptyLogger) Notice(_ string, _ ...interface{})                 {}
func (l *EmptyLogger) NoticeWithChain(_ int, _ string, _ ...interface{}) {}

// StdLogger is a standard implementation of the Logger interface that logs messages to the console.
type StdLogger struct {
	enableColoring bool
	level          Level
	mu             sync.Mutex
}

var _ Logger = (*StdLogger)(nil)

func NewStdLogger(enableColoring bool, level Level) *StdLogger {
	return &StdLogger{
		enableColoring: enableColoring,
		level:          level,
	}
}

// formatMessage formats the log message with the appropriate log level, chain prefix, and coloring if enabled.
func (l *StdLogger) formatMessage(level Level, chainID int, format string) string {
	var chainPrefix string
	if chainID != 0 {
		chainPrefix = fmt.Sprintf("[%d] ", chainID)
		if l.enableColoring {
			attr := chainColors[chainID%len(chainColors)]
			chainPrefix = color.New(attr).Sprint(chainPrefix)
		}
	}

	var levelStr string
	switch level {
	case DebugLevel:
		levelStr = "[DEBUG]  "
	case InfoLevel:
		levelStr = "[INFO]   "
	case NoticeLevel:
		levelStr = "[NOTICE] "
	case ErrorLevel:
		levelStr = "[ERROR]  "
	}

	return levelStr + chainPrefix + format
}

func (l *StdLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= InfoLevel {
		log.Printf(l.formatMessage(InfoLevel, 0, format), args...)
	}
}

func (l *StdLogger) InfoWithChain(chainID int, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= InfoLevel {
		log.Printf(l.formatMessage(InfoLevel, chainID, format), args...)
	}
}

func (l *StdLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= ErrorLevel {
		log.Printf(l.formatMessage(ErrorLevel, 0, format), args...)
	}
}

func (l *StdLogger) ErrorWithChain(chainID int, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= ErrorLevel {
		log.Printf(l.formatMessage(ErrorLevel, chainID, format), args...)
	}
}

func (l *StdLogger) Debug(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= DebugLevel {
		log.Printf(l.formatMessage(DebugLevel, 0, format), args...)
	}
}

func (l *StdLogger) DebugWithChain(chainID int, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= DebugLevel {
		log.Printf(l.formatMessage(DebugLevel, chainID, format), args...)
	}
}

func (l *StdLogger) Notice(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= NoticeLevel {
		log.Printf(l.formatMessage(NoticeLevel, 0, format), args...)
	}
}

func (l *StdLogger) NoticeWithChain(chainID int, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= NoticeLevel {
		log.Printf(l.formatMessage(NoticeLevel, chainID, format), args...)
	}
}
