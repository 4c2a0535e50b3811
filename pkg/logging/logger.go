// Package logging configures zerolog for the lazy list loader and the record server.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs state transitions and cache lookups.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs page loads and server lifecycle.
	LevelInfo LogLevel = "info"

	// LevelWarn logs rejected requests, contract violations and cache fallbacks.
	LevelWarn LogLevel = "warn"

	// LevelError logs failed fetches only.
	LevelError LogLevel = "error"
)

// Component names attached to every log line as the "component" field.
const (
	ComponentLoader   = "lazylist-loader"
	ComponentResident = "lazylist-cache"
	ComponentViewport = "lazylist-viewport"
	ComponentList     = "lazylist"
	ComponentSource   = "record-source"
	ComponentCache    = "page-cache"
	ComponentServer   = "record-server"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty switches from JSON lines to console output.
	Pretty bool

	// Output defaults to os.Stderr when nil.
	Output io.Writer

	// Service, when set, is added to every line as the "service" field.
	Service string
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.TimeOnly}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	logger := ctx.Logger()

	log.Logger = logger
	return logger
}

// parseLevel converts LogLevel to zerolog.Level. Unknown values log at info.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(string(level))) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger derives a logger for component from the global logger.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// ForSource derives a component logger that also carries the page source name.
func ForSource(component, source string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Str("source", source).
		Logger()
}

// Log Level Guidelines:
//
// Debug: pagination internals
//   - Transition results (offset, loaded, has_more)
//   - Page cache hits and stores
//   - Guard rejections on scroll (expected while a page is in flight)
//
// Info: normal operation
//   - Page merged (rows, offset)
//   - Resident set loaded
//   - Server startup/shutdown
//
// Warn: degraded but working
//   - Oversized page truncated to the limit
//   - Retry attempts against the record service
//   - Cache errors (fallback to the service)
//
// Error: needs attention
//   - Fetch failed (after retries)
//   - Configuration errors
//
// Context Fields:
//   - component: one of the Component* constants
//   - source: page source name (object)
//   - limit, offset: the page window
//   - rows, loaded: merged and accumulated record counts
//   - error_class: client, server, network, decode
//   - key: page cache key
