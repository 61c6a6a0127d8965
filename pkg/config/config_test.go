// File: pkg/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, 30*time.Second, cfg.Wait.ExplicitWait)
	assert.Equal(t, 500*time.Millisecond, cfg.Wait.PollInterval)
	assert.Equal(t, 1.25, cfg.Wait.BackoffFactor)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "basepage", cfg.Logger.ServiceName)
	assert.Empty(t, cfg.Logger.LogFile)
}

func TestSetDefaultsOnExistingViper(t *testing.T) {
	v := viper.New()
	v.Set("wait.explicit_wait", "5s")
	SetDefaults(v)

	// Explicit values must survive default installation.
	assert.Equal(t, "5s", v.GetString("wait.explicit_wait"))
	assert.Equal(t, 1.25, v.GetFloat64("wait.backoff_factor"))
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.Wait.ExplicitWait)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "basepage.yaml")
		content := []byte("wait:\n  explicit_wait: 12s\n  poll_interval: 250ms\nlogger:\n  level: debug\n")
		require.NoError(t, os.WriteFile(path, content, 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 12*time.Second, cfg.Wait.ExplicitWait)
		assert.Equal(t, 250*time.Millisecond, cfg.Wait.PollInterval)
		assert.Equal(t, "debug", cfg.Logger.Level)
		// Untouched keys keep their defaults.
		assert.Equal(t, 1.25, cfg.Wait.BackoffFactor)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})

	t.Run("environment overrides file and defaults", func(t *testing.T) {
		t.Setenv("BASEPAGE_WAIT_EXPLICIT_WAIT", "3s")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 3*time.Second, cfg.Wait.ExplicitWait)
	})
}

func TestValidate(t *testing.T) {
	t.Run("hazardous zeroes are normalized", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 500*time.Millisecond, cfg.Wait.PollInterval)
		assert.Equal(t, 1.25, cfg.Wait.BackoffFactor)
	})

	t.Run("negative explicit wait is rejected", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Wait.ExplicitWait = -time.Second
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be negative")
	})

	t.Run("zero explicit wait is allowed", func(t *testing.T) {
		// Zero means "probe once", which is a supported mode, not a mistake.
		cfg := NewDefaultConfig()
		cfg.Wait.ExplicitWait = 0
		assert.NoError(t, cfg.Validate())
	})
}
