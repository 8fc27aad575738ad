// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/uidriver/internal/config"
)

func TestInitialize(t *testing.T) {
	t.Run("console logger with colors", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)
		var buf bytes.Buffer

		Initialize(config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "uidriver",
			Colors:      config.ColorConfig{Info: "green"},
		}, Writer(&buf))
		GetLogger().Named("poller").Info("Wait timed out.")
		Sync()

		out := buf.String()
		assert.Contains(t, out, ansiColors["green"]+"INFO"+ansiReset)
		assert.Contains(t, out, "uidriver.poller.")
		assert.Contains(t, out, "Wait timed out.")
	})

	t.Run("unknown color leaves the level plain", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)
		var buf bytes.Buffer

		Initialize(config.LoggerConfig{Level: "info", Format: "console", Colors: config.ColorConfig{Warn: "mauve"}}, Writer(&buf))
		GetLogger().Warn("careful")

		assert.Contains(t, buf.String(), "WARN")
		assert.NotContains(t, buf.String(), ansiReset)
	})

	t.Run("json logger", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)
		var buf bytes.Buffer

		Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "uidriver"}, Writer(&buf))
		GetLogger().Warn("Scroll failed.", zap.String("direction", "down"))
		GetLogger().Debug("filtered out by level")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "exactly one JSON line is expected")
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "uidriver", entry["logger"])
		assert.Equal(t, "Scroll failed.", entry["msg"])
		assert.Equal(t, "down", entry["direction"])
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)
		var buf bytes.Buffer

		Initialize(config.LoggerConfig{Level: "chatty", Format: "json"}, Writer(&buf))
		GetLogger().Debug("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("rotated log file", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)
		path := filepath.Join(t.TempDir(), "uidriver.log")

		Initialize(config.LoggerConfig{Level: "debug", Format: "console", LogFile: path, MaxSize: 1}, Writer(&bytes.Buffer{}))
		GetLogger().Error("Gesture aborted.")
		Sync()

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(content), &entry), "the file sink is always JSON")
		assert.Equal(t, "Gesture aborted.", entry["msg"])
	})

	t.Run("only the first call wins", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)
		var first, second bytes.Buffer

		Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "first"}, Writer(&first))
		l1 := GetLogger()
		Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "second"}, Writer(&second))
		l2 := GetLogger()

		assert.Same(t, l1, l2)
		l2.Info("hello")
		assert.Contains(t, first.String(), `"logger":"first"`)
		assert.Empty(t, second.String())
	})
}

func TestGetLogger_Fallback(t *testing.T) {
	ResetForTest()
	assert.NotNil(t, GetLogger())
	assert.Nil(t, globalLogger.Load(), "the fallback is not installed globally")
}
