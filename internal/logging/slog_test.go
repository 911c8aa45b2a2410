package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLogger_ForwardsLevelsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.Debug(context.Background(), "cache warm")
	l.With("component", "session").Info(context.Background(), "session established", "user", "u1")

	out := buf.String()
	require.Contains(t, out, "level=DEBUG")
	require.Contains(t, out, "cache warm")
	require.Contains(t, out, "session established")
	require.Contains(t, out, "component=session")
	require.Contains(t, out, "user=u1")
}

func TestNewSlogLogger_NilFallsBackToDefault(t *testing.T) {
	l := NewSlogLogger(nil)
	require.NotNil(t, l)
	l.Debug(context.Background(), "safe to call")
}
