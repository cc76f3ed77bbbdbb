package log

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

func TestInitWriter_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, slog.LevelInfo, "production")

	ctx := WithRequestID(context.Background(), "req-1")
	GetLogger().ErrorContext(ctx, "auth failed", errors.New("boom"), "email", "a@b.c")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "auth failed", rec["msg"])
	assert.Equal(t, "boom", rec["error"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "a@b.c", rec["email"])
}

func TestInitWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, slog.LevelWarn, "development")

	GetLogger().Info("hidden")
	assert.Empty(t, buf.String())

	GetLogger().With("component", "test").Warn("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "component=test")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
