package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestEnsureTraceID_KeepsExisting(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc")
	ctx2, id := EnsureTraceID(ctx)
	assert.Equal(t, "abc", id)
	assert.Equal(t, "abc", GetTraceID(ctx2))
}

func TestEnsureTraceID_GeneratesULID(t *testing.T) {
	ctx, id := EnsureTraceID(context.Background())
	require.Len(t, id, 26)
	assert.Equal(t, id, GetTraceID(ctx))

	_, other := EnsureTraceID(context.Background())
	assert.NotEqual(t, id, other)
}

func TestFromContext_AddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug")

	FromContext(WithTraceID(context.Background(), "trace-1"), l).Info("hello")
	assert.Contains(t, buf.String(), "trace-1")
	assert.Contains(t, buf.String(), "hello")
}
