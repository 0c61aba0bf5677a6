package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

var Logger *log.Logger

// Initialize sets up the global logger writing to stderr
func Initialize(logLevel string) {
	InitializeWithWriter(logLevel, os.Stderr)
}

// InitializeWithWriter sets up the global logger writing to w
func InitializeWithWriter(logLevel string, w io.Writer) {
	Logger = log.New(w)

	level := strings.ToLower(logLevel)
	Logger.SetLevel(ParseLevel(level))
	Logger.SetReportCaller(true)
	Logger.SetReportTimestamp(true)

	Logger.Debug("Logger initialized", "level", level)
}

// ParseLevel maps a textual level to a charm log level, defaulting to info
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Get returns the global logger instance
func Get() *log.Logger {
	if Logger == nil {
		Initialize("info")
	}
	return Logger
}

// WithContext creates a new logger with additional context fields
func WithContext(fields ...any) *log.Logger {
	return Get().With(fields...)
}

// Service creates a logger for a specific service
func Service(serviceName string) *log.Logger {
	return WithContext("service", serviceName)
}

// Database creates a logger for database operations
func Database() *log.Logger {
	return WithContext("component", "database")
}

// HTTP creates a logger for HTTP operations
func HTTP() *log.Logger {
	return WithContext("component", "http")
}

// Migration creates a logger for migration operations
func Migration() *log.Logger {
	return WithContext("component", "migration")
}

// Lifecycle creates a logger for the offer/interest lifecycle engine
func Lifecycle() *log.Logger {
	return WithContext("component", "lifecycle")
}

// Repository creates a logger for repository operations
func Repository(repoName string) *log.Logger {
	return WithContext("component", "repository", "repository", repoName)
}

// Handler creates a logger for HTTP handlers
func Handler(handlerName string) *log.Logger {
	return WithContext("component", "handler", "handler", handlerName)
}
