package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", WithWriter(&buf)).With("session", "abc")

	logger.Info("measurement appended", "count", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "measurement appended", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "abc", record["session"])
	assert.Equal(t, float64(3), record["count"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", WithWriter(&buf))

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestContextRoundTrip(t *testing.T) {
	logger := Discard()
	ctx := logger.WithContext(context.Background())

	assert.Same(t, logger, FromContext(ctx, nil))

	fallback := Discard()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger

	assert.NotPanics(t, func() {
		logger.Info("ignored")
		_ = logger.With("k", "v")
		_ = logger.Slog()
	})
}

func TestAttachError(t *testing.T) {
	assert.Equal(t, []any{"k", 1}, AttachError(nil, "k", 1))
	assert.Equal(t, []any{"k", 1, "error", "boom"}, AttachError(errors.New("boom"), "k", 1))
}
