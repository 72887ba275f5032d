package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordgraph/internal/config"
)

func TestNewLogger_SetsDefault(t *testing.T) {
	logger := NewLogger(config.LogConfig{Level: "info", Format: "json"})
	require.NotNil(t, logger)
	assert.Same(t, logger.Handler(), slog.Default().Handler())
}

func TestNewLogger_Formats(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		newLogger(&buf, config.LogConfig{Level: "info", Format: "JSON"}).
			Info("graph built", slog.Int("nodes", 12))

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "graph built", line["msg"])
		assert.EqualValues(t, 12, line["nodes"])
		assert.NotContains(t, line, "source")
	})

	t.Run("text adds source", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		newLogger(&buf, config.LogConfig{Level: "debug", Format: "text"}).Debug("probe")
		assert.Contains(t, buf.String(), "source=")
		assert.Contains(t, buf.String(), "msg=probe")
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		" info ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "parseLevel(%q)", in)
	}
}

func TestNewLogger_SuppressesBelowLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "warn", Format: "text"})
	ctx := context.Background()

	logger.Log(ctx, slog.LevelInfo, "hidden")
	assert.Zero(t, buf.Len())

	logger.Log(ctx, slog.LevelWarn, "shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestBuildVersion(t *testing.T) {
	t.Parallel()

	got := BuildVersion()
	assert.Contains(t, got, Version)
	assert.Contains(t, got, Commit)
}
