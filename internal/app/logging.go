package app

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/scribe/internal/config"
)

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Level is a zerolog level name. Unknown names select info.
	Level string

	// Format is "console" or "json".
	Format string

	// Output is "stderr", "stdout", "discard" or a file path.
	Output string

	// NoColor disables colour in console output.
	NoColor bool
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:   "info",
		Format:  "console",
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// LoggerConfigFrom converts the log section of the editor configuration.
func LoggerConfigFrom(c config.LogConfig) LoggerConfig {
	cfg := DefaultLoggerConfig()
	if c.Level != "" {
		cfg.Level = c.Level
	}
	if c.Format != "" {
		cfg.Format = c.Format
	}
	if c.Output != "" {
		cfg.Output = c.Output
	}
	return cfg
}

// DefaultLogFile returns the log file used while the terminal is owned by
// the editor.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "scribe", "scribe.log")
}

// NewLogger creates a logger with the given configuration. The returned
// closer releases a log file and is never nil.
func NewLogger(cfg LoggerConfig) (zerolog.Logger, io.Closer, error) {
	out, closer, err := openOutput(cfg.Output)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var w io.Writer = out
	if strings.ToLower(cfg.Format) != "json" {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor || out != os.Stderr,
		}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger, closer, nil
}

// WithComponent returns a logger with the component field set.
func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

func openOutput(output string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, nopCloser{}, nil
	case "stdout":
		return os.Stdout, nopCloser{}, nil
	case "discard", "none":
		return io.Discard, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
