package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfigFile(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Returns defaults without a file", func(t *testing.T) {
		settings, err := Load("")
		assert.NoError(t, err)
		assert.Equal(t, "dev", settings.Env)
		assert.True(t, settings.Debug)
		assert.Equal(t, "127.0.0.1:8000", settings.ListenAddr())
		assert.Equal(t, 1000, settings.LogBufferMax)
		assert.Equal(t, "drop_oldest", settings.LogBufferPolicy)
		assert.Equal(t, 120, settings.RateLimitPerMinute)
		assert.True(t, settings.RedactionEnabled)
	})

	t.Run("File values override defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
env: prod
port: 9000
log_buffer_max: 500
log_buffer_policy: block
`)
		settings, err := Load(path)
		assert.NoError(t, err)
		assert.Equal(t, "prod", settings.Env)
		assert.True(t, settings.IsProduction())
		assert.Equal(t, 9000, settings.Port)
		assert.Equal(t, 500, settings.LogBufferMax)
		assert.Equal(t, "block", settings.LogBufferPolicy)
		// Untouched keys keep their defaults.
		assert.Equal(t, "127.0.0.1", settings.Host)
	})

	t.Run("Environment overrides file values", func(t *testing.T) {
		path := writeConfigFile(t, "port: 9000\n")
		t.Setenv("JARVIS_PORT", "9100")
		t.Setenv("JARVIS_REDACTION_ENABLED", "false")

		settings, err := Load(path)
		assert.NoError(t, err)
		assert.Equal(t, 9100, settings.Port)
		assert.False(t, settings.RedactionEnabled)
	})

	t.Run("Rejects a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("Rejects malformed YAML", func(t *testing.T) {
		path := writeConfigFile(t, "port: [not an int\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("Rejects a non-positive buffer size", func(t *testing.T) {
		path := writeConfigFile(t, "log_buffer_max: 0\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "log_buffer_max")
	})

	t.Run("Rejects an unknown buffer policy", func(t *testing.T) {
		path := writeConfigFile(t, "log_buffer_policy: drop_everything\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "log_buffer_policy")
	})
}
