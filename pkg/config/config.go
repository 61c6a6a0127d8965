// File: pkg/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the library-wide tunables: the wait engine's timing knobs
// and the logger settings test harnesses hand to observability.NewLogger.
type Config struct {
	Wait   WaitConfig   `mapstructure:"wait" yaml:"wait"`
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
}

// WaitConfig tunes the polling engine defaults used by page objects.
type WaitConfig struct {
	// ExplicitWait bounds element lookups when a call gives no timeout.
	ExplicitWait time.Duration `mapstructure:"explicit_wait" yaml:"explicit_wait"`
	// PollInterval is the initial pause between poll attempts.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	// BackoffFactor multiplies the poll interval after every attempt.
	BackoffFactor float64 `mapstructure:"backoff_factor" yaml:"backoff_factor"`
}

// LoggerConfig mirrors the knobs understood by pkg/observability.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`

	// LogFile enables a rotated JSON file core when non-empty.
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults installs the library defaults on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("wait.explicit_wait", "30s")
	v.SetDefault("wait.poll_interval", "500ms")
	v.SetDefault("wait.backoff_factor", 1.25)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "basepage")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
}

// NewDefaultConfig returns a config populated with defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with our own defaults; fail loudly if it does.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads configuration from an optional file plus BASEPAGE_* environment
// variables layered over the defaults. An empty path means defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("BASEPAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes hazardous values instead of failing where a safe
// default exists, and rejects only the genuinely unusable ones.
func (c *Config) Validate() error {
	defaults := NewDefaultConfig()

	// A zero poll interval would turn every wait into a busy loop.
	if c.Wait.PollInterval <= 0 {
		c.Wait.PollInterval = defaults.Wait.PollInterval
	}
	if c.Wait.BackoffFactor <= 0 {
		c.Wait.BackoffFactor = defaults.Wait.BackoffFactor
	}
	if c.Wait.ExplicitWait < 0 {
		return fmt.Errorf("wait.explicit_wait must not be negative, got %s", c.Wait.ExplicitWait)
	}
	return nil
}
