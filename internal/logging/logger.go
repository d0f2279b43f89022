package logging

import (
	"log/slog"
	"os"
	"strings"

	"gorm.io/gorm"
)

// Setup points the default slog logger at stdout with JSON output.
// LOG_LEVEL picks the threshold (debug, info, warn, error); info when
// unset or unrecognized.
func Setup() {
	slog.SetDefault(slog.New(stdoutHandler()))
}

// AttachDatabase rewires the default logger to tee every record to
// stdout and, at ERROR and above, to the system_logs table. Called
// once the database is up; Setup alone covers boot-time logging. The
// returned handler must be stopped on shutdown to flush its batch.
func AttachDatabase(db *gorm.DB) *PGHandler {
	pg := NewPGHandler(db)
	slog.SetDefault(slog.New(&teeHandler{targets: []slog.Handler{stdoutHandler(), pg}}))
	return pg
}

func stdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level()})
}

func level() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
