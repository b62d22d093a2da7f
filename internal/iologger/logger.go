// Package iologger provides slog-based logging initialization and configuration.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/flasky/pkg/config"
)

// LogFile is the name of the log file inside the log directory.
const LogFile = "flasky.log"

// logFile is the file opened by the last Init, closed on re-initialization.
var logFile *os.File

// Init initializes the global slog logger with the given configuration.
// With destination "file" records are appended to LogFile in logDir.
func Init(logDir string, cfg config.LogConfig) error {
	writer, err := output(logDir, cfg.Destination)
	if err != nil {
		return err
	}
	slog.SetDefault(New(writer, cfg))
	return nil
}

// New creates a logger that writes to w using format and level of cfg.
// Unknown formats fall back to JSON.
func New(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func output(logDir, destination string) (io.Writer, error) {
	switch destination {
	case "stdout":
		return os.Stdout, nil
	case "file":
		logPath := filepath.Join(logDir, LogFile)
		if logFile != nil {
			logFile.Close()
			logFile = nil
		}
		file, err := os.OpenFile(logPath,
			os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return nil, OpenLogFileError(logPath, err)
		}
		logFile = file
		return file, nil
	default:
		return os.Stderr, nil
	}
}

// ParseLevel converts string level to slog.Level.
// Invalid levels default to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
