package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	level, err = parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level)

	_, err = parseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "engine.log")

	log, err := New(file, "info")
	require.NoError(t, err)

	log.Info("GetAvailability: resource=%d", 7)
	log.Debug("this line is filtered out")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "GetAvailability: resource=7")
	assert.NotContains(t, string(data), "filtered out")
}
