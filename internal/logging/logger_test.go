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

func TestNew_FansOutToExtraWriters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelInfo, &buf)

	logger.Debug("hidden")
	logger.Info("run halted", "error", errors.New("boom"), "steps", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "run halted", rec["msg"])
	assert.Equal(t, "boom", rec["err"])
	assert.NotContains(t, rec, "error")
	assert.EqualValues(t, 3, rec["steps"])
}

func TestNew_SkipsNilWriters(t *testing.T) {
	logger := New(slog.LevelWarn, nil)
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestNewNop(t *testing.T) {
	NewNop().Error("discarded")
}
