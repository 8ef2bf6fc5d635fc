package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLogger(t *testing.T) {
	ctx := context.Background()

	l1 := Ctx(ctx)
	require.NotNil(t, l1, "Ctx returned nil instead of default logger")
	assert.Equal(t, defaultLogger, l1, "Ctx should return defaultLogger")

	customLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	require.NotEqual(t, defaultLogger, customLogger)

	ctxWithLogger := With(ctx, customLogger)
	assert.Equal(t, customLogger, Ctx(ctxWithLogger), "Ctx should return customLogger")
}

func TestWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	ctx := With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx = WithAttrs(ctx, slog.String("label", "abc"))

	Ctx(ctx).InfoContext(ctx, "simulated")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "simulated", line["msg"])
	assert.Equal(t, "abc", line["label"])
}

func TestConfigureFromFlags(t *testing.T) {
	defer SetDefaultLogLevel(slog.LevelInfo)
	level, err := ConfigureFromFlags()
	require.NoError(t, err)
	assert.Equal(t, level, defaultLogLevel.Level())
}
