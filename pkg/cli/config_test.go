package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAppConfig(t *testing.T) {
	config := DefaultAppConfig()

	require.NoError(t, config.Validate())
	assert.Equal(t, 900*time.Millisecond, config.Delay())
	assert.Equal(t, 30*time.Second, config.Timeout())
	assert.NotEmpty(t, config.Topics)
	assert.NotEmpty(t, config.Counts)
}

func TestWriteAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, WriteDefaultAppConfig(path))

	config, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfig(), config)
}

func TestLoadAppConfigFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: http://example.com\n"), 0644))

	config, err := LoadAppConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://example.com", config.Endpoint)
	assert.Equal(t, 900, config.DelayMS)
	assert.Equal(t, DefaultAppConfig().Topics, config.Topics)
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	_, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadAppConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: [broken\n"), 0644))

	_, err := LoadAppConfig(path)
	assert.Error(t, err)
}

func TestAppConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{name: "empty endpoint", mutate: func(c *AppConfig) { c.Endpoint = "" }},
		{name: "negative delay", mutate: func(c *AppConfig) { c.DelayMS = -1 }},
		{name: "zero timeout", mutate: func(c *AppConfig) { c.TimeoutSeconds = 0 }},
		{name: "no topics", mutate: func(c *AppConfig) { c.Topics = nil }},
		{name: "no counts", mutate: func(c *AppConfig) { c.Counts = nil }},
		{name: "bad count", mutate: func(c *AppConfig) { c.Counts = []int{0} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultAppConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestGetConfigDirPriority(t *testing.T) {
	t.Setenv("QUOTEDASH_CONFIG_DIR", "/tmp/quotedash-test")
	assert.Equal(t, "/tmp/quotedash-test", GetConfigDir())
	assert.Equal(t, filepath.Join("/tmp/quotedash-test", "config.yaml"), GetAppConfigPath())
	assert.Equal(t, filepath.Join("/tmp/quotedash-test", "quotedash.db"), GetDatabasePath())
}
