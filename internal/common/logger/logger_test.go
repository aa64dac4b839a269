package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestBuild_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.log")

	l, err := Build(Options{Level: "info", Format: "json", Output: path, Service: "field-verification", Version: "1.0.0"})
	require.NoError(t, err)

	NewZapAdapter(l).WithFields(map[string]interface{}{"taskType": "recover-plate"}).
		Info("processing job", map[string]interface{}{"jobKey": 42, "cause": errors.New("none")})
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"processing job"`)
	assert.Contains(t, string(data), `"taskType":"recover-plate"`)
	assert.Contains(t, string(data), `"service":"field-verification"`)
	assert.Contains(t, string(data), `"cause":"none"`)
}

func TestBuild_DebugFilteredAtInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.log")

	l, err := Build(Options{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	l.Debug("hidden")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
}

func TestNoOpAndTestLoggers(t *testing.T) {
	NewNoOpLogger().WithError(errors.New("x")).Warn("ignored", nil)
	NewTestLogger(t).With(map[string]interface{}{"k": "v"}).Debug("visible in -v", nil)
}
