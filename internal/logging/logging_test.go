package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "json", "info"))

	logger.Debug("hidden")
	logger.Info("submission resolved", "mode", "signin", "token", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "exactly one JSON line is written")
	assert.Equal(t, "submission resolved", entry["msg"])
	assert.Equal(t, "signin", entry["mode"])
	assert.EqualValues(t, 3, entry["token"])
}

func TestNewHandler_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "text", "warn"))

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("stale resolution", "token", 4)
	assert.Contains(t, buf.String(), "stale resolution")
	assert.Contains(t, buf.String(), "token=4")
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, slogLevel(in), in)
	}
}
