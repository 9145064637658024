package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, 10*time.Second, s.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, s.Server.WriteTimeout)
	assert.Equal(t, []string{"*"}, s.Server.CORSOrigins)
	assert.Equal(t, "info", s.Log.Level)
	assert.True(t, s.Metrics.Enabled)
	assert.Equal(t, "/metrics", s.Metrics.Path)
	assert.Equal(t, "balanced", s.DefaultPreset)
}

func TestLoadSettings_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firecalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
  write_timeout: 1m
log:
  level: debug
  format: console
default_preset: aggressive
`), 0o644))

	t.Setenv("FIRECALC_SERVER_ADDR", ":7070")
	t.Setenv("FIRECALC_METRICS_ENABLED", "false")

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", s.Server.Addr, "environment wins over the file")
	assert.Equal(t, time.Minute, s.Server.WriteTimeout)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "console", s.Log.Format)
	assert.False(t, s.Metrics.Enabled)
	assert.Equal(t, "aggressive", s.DefaultPreset)
}

func TestLoadSettings_Invalid(t *testing.T) {
	t.Setenv("FIRECALC_LOG_LEVEL", "loud")
	t.Setenv("FIRECALC_DEFAULT_PRESET", "yolo")

	_, err := LoadSettings("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "default_preset")
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read settings file")
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())

	s.Server.Addr = ""
	s.Server.ReadTimeout = 0
	s.Metrics.Path = "metrics"
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.addr is required")
	assert.Contains(t, err.Error(), "server.read_timeout")
	assert.Contains(t, err.Error(), "metrics.path")
}
