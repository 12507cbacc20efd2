package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lifeplan_agent/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger stays disabled until Init runs, so library code and tests stay quiet
var Logger = zerolog.Nop()

// Init configures the global logger from the log section of the config
func Init(cfg config.LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return fmt.Errorf("invalid log level '%s': %w", cfg.Level, err)
	}
	zerolog.SetGlobalLevel(level)

	switch strings.ToLower(cfg.TimeFormat) {
	case "unix":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	case "iso8601":
		zerolog.TimeFieldFormat = "2006-01-02T15:04:05.000Z07:00"
	default:
		zerolog.TimeFieldFormat = time.RFC3339
	}

	output, err := openOutput(cfg)
	if err != nil {
		return err
	}

	if strings.ToLower(cfg.Format) == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.TimeOnly,
		}
	}

	Logger = zerolog.New(output).With().
		Timestamp().
		Logger()

	// keep zerolog/log in sync for packages that use it directly
	log.Logger = Logger

	Logger.Debug().
		Str("level", cfg.Level).
		Str("format", cfg.Format).
		Str("output", cfg.Output).
		Msg("logger initialized")

	return nil
}

func openOutput(cfg config.LogConfig) (io.Writer, error) {
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		return os.Stderr, nil
	case "file":
		if dir := filepath.Dir(cfg.FilePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file '%s': %w", cfg.FilePath, err)
		}
		return file, nil
	default:
		return os.Stdout, nil
	}
}

// SetOutput swaps the writer, keeping JSON format. Used by tests and the REPL.
func SetOutput(w io.Writer) {
	Logger = zerolog.New(w).With().Timestamp().Logger()
	log.Logger = Logger
}

// Get returns the configured logger instance
func Get() *zerolog.Logger {
	return &Logger
}

func Info() *zerolog.Event {
	return Logger.Info()
}

func Debug() *zerolog.Event {
	return Logger.Debug()
}

func Warn() *zerolog.Event {
	return Logger.Warn()
}

func Error() *zerolog.Event {
	return Logger.Error()
}
