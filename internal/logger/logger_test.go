package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  slog.Level
		known bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, known := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.known, known, tt.in)
	}
}

func TestInitLoggerWithWriter(t *testing.T) {
	prev := L
	t.Cleanup(func() {
		L = prev
		slog.SetDefault(prev)
	})

	var buf bytes.Buffer
	InitLoggerWithWriter("warn", &buf)

	L.Info("dropped")
	L.Warn("kept", "file", "payment1.TSYSO")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "payment1.TSYSO", rec["file"])
}

func TestFromContext(t *testing.T) {
	assert.Same(t, L, FromContext(context.Background()))

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := ToContext(context.Background(), custom)
	assert.Same(t, custom, FromContext(ctx))
}
