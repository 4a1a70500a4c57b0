package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poly1603/ldesign-engine-sub006/internal/domain/plugin"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "ldesign", cfg.Name)
	assert.Equal(t, plugin.DefaultMaxPlugins, cfg.MaxPlugins)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Name = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive capacity", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxPlugins = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown log level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LogLevel = "loud"
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("valid file with defaults for missing fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "engine.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
name = "myapp"
max_plugins = 16
log_json = true
`), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "myapp", cfg.Name)
		assert.Equal(t, 16, cfg.MaxPlugins)
		assert.True(t, cfg.LogJSON)
		assert.Equal(t, "0.1.0", cfg.Version)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "engine.toml")
		require.NoError(t, os.WriteFile(path, []byte("name = ["), 0o644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "engine.toml")
		require.NoError(t, os.WriteFile(path, []byte(`max_plugins = -1`), 0o644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}
