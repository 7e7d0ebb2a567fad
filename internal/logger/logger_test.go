package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf, FileConfig{})

	log.Info("dropped")
	log.Warn("subsector spans sectors", zap.Int("subsector", 4))
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "subsector spans sectors")
	assert.Contains(t, out, `"subsector": 4`)
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wadmesh.log")
	log := New("debug", nil, DefaultFileConfig(path))

	log.Debug("reading level", zap.String("level", "E1M1"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"debug"`)
	assert.Contains(t, string(data), `"msg":"reading level"`)
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("x.log")
	assert.Equal(t, "x.log", cfg.Path)
	assert.Positive(t, cfg.MaxSizeMB)
	assert.True(t, cfg.Compress)
}
