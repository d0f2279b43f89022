package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	min     slog.Level
	records []slog.Record
	err     error
}

func (h *recordingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min
}

func (h *recordingHandler) Handle(_ context.Context, record slog.Record) error {
	h.records = append(h.records, record)
	return h.err
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestTeeHandlerRespectsPerTargetLevels(t *testing.T) {
	stdout := &recordingHandler{min: slog.LevelInfo}
	db := &recordingHandler{min: slog.LevelError}
	logger := slog.New(&teeHandler{targets: []slog.Handler{stdout, db}})

	logger.Info("routine")
	logger.Error("broken")

	require.Len(t, stdout.records, 2)
	require.Len(t, db.records, 1)
	assert.Equal(t, "broken", db.records[0].Message)
}

func TestTeeHandlerFailingTargetDoesNotSilenceOthers(t *testing.T) {
	failing := &recordingHandler{min: slog.LevelInfo, err: errors.New("db down")}
	healthy := &recordingHandler{min: slog.LevelInfo}
	tee := &teeHandler{targets: []slog.Handler{failing, healthy}}

	var record slog.Record
	record.Level = slog.LevelInfo
	record.Message = "still flowing"

	err := tee.Handle(context.Background(), record)
	assert.Error(t, err)
	require.Len(t, healthy.records, 1)
	assert.Equal(t, "still flowing", healthy.records[0].Message)
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		env  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Setenv("LOG_LEVEL", tt.env)
		assert.Equal(t, tt.want, level(), "LOG_LEVEL=%q", tt.env)
	}
}
