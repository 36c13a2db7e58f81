package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewDefault(t *testing.T) {
	log := NewDefault()
	require.NotNil(t, log)
	assert.NotNil(t, log.SugaredLogger)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbwipe.log")
	log := New(Settings{Level: "debug", Format: "json", Output: path})

	log.WithDialect("mysql").WithTable("users").Infof("cleared %d rows", 12)
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "cleared 12 rows", entry["msg"])
	assert.Equal(t, "mysql", entry["dialect"])
	assert.Equal(t, "users", entry["table"])
}

func TestNew_LevelFiltersEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbwipe.log")
	log := New(Settings{Level: "error", Format: "json", Output: path})

	log.Debug("suppressed")
	log.Info("suppressed")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}
