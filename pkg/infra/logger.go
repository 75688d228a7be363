package infra

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/craftco/lightspeed-sync/internal/config"
)

// SetupLogger builds the process logger, mirroring output to stdout and a
// per-binary log file so cron runs keep a local trail.
func SetupLogger(cfg *config.Config, logFileName string) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var w io.Writer = os.Stdout
	if logFileName != "" {
		if logFile, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			w = io.MultiWriter(os.Stdout, logFile)
		}
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if strings.ToUpper(cfg.LogFormat) == "JSON" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
