package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCaptureLogger(buf *bytes.Buffer, fields ...string) *slog.Logger {
	return slog.New(newLogHandler(buf, logOptions{service: "seedotp", level: slog.LevelDebug, redact: fields}))
}

func TestRedactHandler_ConfiguredKeys(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newCaptureLogger(&buf, "seed", " Code ", "")

	logger.InfoContext(context.Background(), "msg",
		"seed", "3132",
		"code", "287082",
		"body", `{"encrypted":"abc","code":"123456"}`,
		slog.Group("req", slog.String("seed", "ff")),
		"other", "visible",
	)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "***", got["seed"])
	assert.Equal(t, "***", got["code"])
	assert.Equal(t, "visible", got["other"])
	assert.Equal(t, "seedotp", got["service"])
	assert.JSONEq(t, `{"encrypted":"abc","code":"***"}`, got["body"].(string))
	assert.Equal(t, map[string]any{"seed": "***"}, got["req"])
}

func TestRedactHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newCaptureLogger(&buf, "authorization").With(
		"headers", map[string]string{"Authorization": "Bearer x", "Accept": "*/*"},
	)

	logger.Info("msg", "raw", []byte(`[{"authorization":"y"}]`))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string]any{"Authorization": "***", "Accept": "*/*"}, got["headers"])
	assert.JSONEq(t, `[{"authorization":"***"}]`, got["raw"].(string))
}

func TestNewLogHandler_Shape(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&buf, logOptions{service: "seedotp", level: slog.LevelWarn}))

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "WARN", got["severity"])
	assert.Contains(t, got, "ts")
	assert.Contains(t, got["file"], "internal/pkg/instrument/logging_test.go:")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
}

func TestContextHandler_AddsCorrelationID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newCaptureLogger(&buf)

	ctx := SetCorrelationID(context.Background(), "cid-1")
	logger.InfoContext(ctx, "msg")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "cid-1", got["_cID"])
	assert.Equal(t, "cid-1", GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestNewNoop(t *testing.T) {
	t.Parallel()

	ins := NewNoop()
	_, span := ins.Tracer("t").Start(context.Background(), "span")
	span.End()

	_, err := ins.Meter("m").Int64Counter("c")
	require.NoError(t, err)
	assert.NoError(t, ins.Shutdown(context.Background()))
}
