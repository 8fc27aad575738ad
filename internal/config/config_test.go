// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "uidriver", cfg.Logger().ServiceName)
	assert.Equal(t, "green", cfg.Logger().Colors.Info)

	// The facade defaults must match the documented policy exactly.
	d := cfg.Driver()
	assert.Equal(t, 3000*time.Millisecond, d.ElementTimeout)
	assert.Equal(t, 8000*time.Millisecond, d.VanishTimeout)
	assert.Equal(t, 8000*time.Millisecond, d.TextVanishTimeout)
	assert.Equal(t, 10000*time.Millisecond, d.EqualTimeout)
	assert.Equal(t, 1000*time.Millisecond, d.VanishProbe)
	assert.Equal(t, 500*time.Millisecond, d.PollInterval)
	assert.True(t, d.ScrollOnWait)
	assert.True(t, d.ScrollOnVanish)
	assert.False(t, d.ScrollOnText)
	assert.True(t, d.OnlyVisible)

	assert.Equal(t, 20, cfg.Gesture().DragSteps)
	assert.Equal(t, 10*time.Millisecond, cfg.Gesture().MoveDelay)
	assert.Equal(t, 50*time.Millisecond, cfg.Gesture().TapHold)

	assert.True(t, cfg.Browser().Headless)
	assert.Equal(t, "about:blank", cfg.Browser().StartURL)
	assert.Equal(t, 10*time.Second, cfg.Browser().OperationTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestSetters(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SetBrowserHeadless(false)
	cfg.SetBrowserStartURL("http://localhost:8080")
	cfg.SetDriverPollInterval(250 * time.Millisecond)

	assert.False(t, cfg.Browser().Headless)
	assert.Equal(t, "http://localhost:8080", cfg.Browser().StartURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Driver().PollInterval)
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"zero poll interval", func(c *Config) { c.DriverCfg.PollInterval = 0 }, "poll_interval must be a positive duration"},
		{"negative vanish timeout", func(c *Config) { c.DriverCfg.VanishTimeout = -time.Second }, "vanish_timeout must not be negative"},
		{"zero drag steps", func(c *Config) { c.GestureCfg.DragSteps = 0 }, "drag_steps must be at least 1"},
		{"negative move delay", func(c *Config) { c.GestureCfg.MoveDelay = -1 }, "gesture delays must not be negative"},
		{"empty viewport", func(c *Config) { c.BrowserCfg.ViewportWidth = 0 }, "viewport dimensions must be positive"},
		{"zero operation timeout", func(c *Config) { c.BrowserCfg.OperationTimeout = 0 }, "operation_timeout must be a positive duration"},
		{"rate without burst", func(c *Config) {
			c.BrowserCfg.DispatchRate = 60
			c.BrowserCfg.DispatchBurst = 0
		}, "dispatch_burst must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
driver:
  poll_interval: 250ms
  element_timeout: 5s
gesture:
  drag_steps: 40
browser:
  headless: false
  start_url: "http://127.0.0.1:9000/app"
  args: ["lang=en-US", "disable-extensions"]
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, 250*time.Millisecond, cfg.Driver().PollInterval)
		assert.Equal(t, 5*time.Second, cfg.Driver().ElementTimeout)
		assert.Equal(t, 8*time.Second, cfg.Driver().VanishTimeout, "defaults fill the gaps")
		assert.Equal(t, 40, cfg.Gesture().DragSteps)
		assert.False(t, cfg.Browser().Headless)
		assert.Equal(t, []string{"lang=en-US", "disable-extensions"}, cfg.Browser().Args)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("driver.poll_interval", "0s")

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "poll_interval must be a positive duration")
	})

	t.Run("Environment Variable Binding", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		t.Setenv("UIDRIVER_CHROME_PATH", "/opt/chrome/chrome")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "/opt/chrome/chrome", cfg.Browser().ExecPath)
	})
}
