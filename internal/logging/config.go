package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/soltixdb/sfb/internal/config"
)

// NewFromConfig builds the process logger. Every entry carries the service name
// and environment. An unknown level falls back to info.
func NewFromConfig(cfg config.LoggingConfig, svc config.ServiceConfig) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output, err := openOutput(cfg.OutputPath)
	if err != nil {
		return nil, err
	}

	switch cfg.Format {
	case "console", "pretty":
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: consoleTimeFormat(cfg.TimeFormat)}
	default:
		zerolog.TimeFieldFormat = jsonTimeFormat(cfg.TimeFormat)
	}

	logger := NewWithWriter(output, level)
	if svc.Name != "" {
		logger = logger.With("service", svc.Name, "env", svc.Environment)
	}
	return logger, nil
}

func openOutput(path string) (io.Writer, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, nil
}

func consoleTimeFormat(format string) string {
	switch format {
	case "Unix":
		return time.UnixDate
	case "Kitchen":
		return time.Kitchen
	default:
		return time.RFC3339
	}
}

// jsonTimeFormat maps the configured name onto zerolog's timestamp encodings
func jsonTimeFormat(format string) string {
	switch format {
	case "Unix":
		return zerolog.TimeFormatUnix
	case "UnixMs":
		return zerolog.TimeFormatUnixMs
	default:
		return time.RFC3339
	}
}
