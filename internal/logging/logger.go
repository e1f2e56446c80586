// Package logging builds the zerolog logger used by the chrest command and
// installs it as the global logger that library packages write to.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration.
type Config struct {
	Level  string    // debug, info, warn, error
	Format string    // console or json
	File   string    // also append to this file when set
	Out    io.Writer // console destination (default: stderr)
}

// DefaultConfig logs info and above to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "console",
	}
}

// VerboseConfig logs everything, including per-step model traces.
func VerboseConfig() *Config {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	return cfg
}

// Logger owns the zerolog logger and its optional log file.
type Logger struct {
	zlog zerolog.Logger
	file *os.File
	path string
}

// ParseLevel converts a level name. Unknown names map to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a logger from cfg without touching the global logger.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	var console io.Writer = out
	if cfg.Format != "json" {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	l := &Logger{}
	writers := []io.Writer{console}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		l.path = cfg.File
		writers = append(writers, file)
	}

	l.zlog = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("app", "chrest").
		Logger()
	return l, nil
}

// Setup creates a logger and installs it as zerolog's global logger.
func Setup(cfg *Config) (*Logger, error) {
	l, err := New(cfg)
	if err != nil {
		return nil, err
	}
	log.Logger = l.zlog
	zerolog.DefaultContextLogger = &l.zlog
	return l, nil
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zlog.With().Str("component", name).Logger()
}

// Zerolog returns the underlying logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

// Path returns the log file path, if any.
func (l *Logger) Path() string {
	return l.path
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
