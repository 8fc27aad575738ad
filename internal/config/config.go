// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Driver() DriverConfig
	Gesture() GestureConfig
	Browser() BrowserConfig

	// Browser Setters
	SetBrowserHeadless(bool)
	SetBrowserStartURL(string)

	// Driver Setters
	SetDriverPollInterval(d time.Duration)
}

// Config holds the entire application configuration. Sections are exported
// so viper can decode into them; callers go through the Interface getters.
type Config struct {
	LoggerCfg  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	DriverCfg  DriverConfig  `mapstructure:"driver" yaml:"driver"`
	GestureCfg GestureConfig `mapstructure:"gesture" yaml:"gesture"`
	BrowserCfg BrowserConfig `mapstructure:"browser" yaml:"browser"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig   { return c.LoggerCfg }
func (c *Config) Driver() DriverConfig   { return c.DriverCfg }
func (c *Config) Gesture() GestureConfig { return c.GestureCfg }
func (c *Config) Browser() BrowserConfig { return c.BrowserCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetBrowserHeadless(b bool)   { c.BrowserCfg.Headless = b }
func (c *Config) SetBrowserStartURL(u string) { c.BrowserCfg.StartURL = u }
func (c *Config) SetDriverPollInterval(d time.Duration) {
	c.DriverCfg.PollInterval = d
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// DriverConfig holds the wait policy of the automation facade.
type DriverConfig struct {
	// PollInterval is the fixed sleep between two evaluations of a wait.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`

	ElementTimeout    time.Duration `mapstructure:"element_timeout" yaml:"element_timeout"`
	VanishTimeout     time.Duration `mapstructure:"vanish_timeout" yaml:"vanish_timeout"`
	TextVanishTimeout time.Duration `mapstructure:"text_vanish_timeout" yaml:"text_vanish_timeout"`
	EqualTimeout      time.Duration `mapstructure:"equal_timeout" yaml:"equal_timeout"`
	// VanishProbe bounds the inner presence check of a vanish wait.
	VanishProbe time.Duration `mapstructure:"vanish_probe" yaml:"vanish_probe"`

	ScrollOnWait   bool `mapstructure:"scroll_on_wait" yaml:"scroll_on_wait"`
	ScrollOnVanish bool `mapstructure:"scroll_on_vanish" yaml:"scroll_on_vanish"`
	ScrollOnText   bool `mapstructure:"scroll_on_text" yaml:"scroll_on_text"`
	OnlyVisible    bool `mapstructure:"only_visible" yaml:"only_visible"`
}

// BrowserConfig holds settings for the Chrome instance backing the CDP provider.
type BrowserConfig struct {
	Headless bool     `mapstructure:"headless" yaml:"headless"`
	ExecPath string   `mapstructure:"exec_path" yaml:"exec_path"`
	Args     []string `mapstructure:"args" yaml:"args"`
	StartURL string   `mapstructure:"start_url" yaml:"start_url"`

	ViewportWidth  int  `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight int  `mapstructure:"viewport_height" yaml:"viewport_height"`
	EmulateTouch   bool `mapstructure:"emulate_touch" yaml:"emulate_touch"`

	// OperationTimeout bounds every single CDP round trip.
	OperationTimeout time.Duration `mapstructure:"operation_timeout" yaml:"operation_timeout"`
	// DispatchRate caps pointer frames per second; zero or less disables the limit.
	DispatchRate  float64 `mapstructure:"dispatch_rate" yaml:"dispatch_rate"`
	DispatchBurst int     `mapstructure:"dispatch_burst" yaml:"dispatch_burst"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "uidriver")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Driver --
	v.SetDefault("driver.poll_interval", "500ms")
	v.SetDefault("driver.element_timeout", "3000ms")
	v.SetDefault("driver.vanish_timeout", "8000ms")
	v.SetDefault("driver.text_vanish_timeout", "8000ms")
	v.SetDefault("driver.equal_timeout", "10000ms")
	v.SetDefault("driver.vanish_probe", "1000ms")
	v.SetDefault("driver.scroll_on_wait", true)
	v.SetDefault("driver.scroll_on_vanish", true)
	v.SetDefault("driver.scroll_on_text", false)
	v.SetDefault("driver.only_visible", true)

	// -- Gesture --
	setGestureDefaults(v)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.start_url", "about:blank")
	v.SetDefault("browser.viewport_width", 412)
	v.SetDefault("browser.viewport_height", 915)
	v.SetDefault("browser.emulate_touch", true)
	v.SetDefault("browser.operation_timeout", "10s")
	v.SetDefault("browser.dispatch_rate", 0)
	v.SetDefault("browser.dispatch_burst", 1)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	v.BindEnv("browser.exec_path", "UIDRIVER_CHROME_PATH")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.DriverCfg.Validate(); err != nil {
		return fmt.Errorf("driver configuration invalid: %w", err)
	}
	if err := c.GestureCfg.Validate(); err != nil {
		return fmt.Errorf("gesture configuration invalid: %w", err)
	}
	if err := c.BrowserCfg.Validate(); err != nil {
		return fmt.Errorf("browser configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the wait policy.
func (d *DriverConfig) Validate() error {
	if d.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be a positive duration")
	}
	for name, v := range map[string]time.Duration{
		"element_timeout":     d.ElementTimeout,
		"vanish_timeout":      d.VanishTimeout,
		"text_vanish_timeout": d.TextVanishTimeout,
		"equal_timeout":       d.EqualTimeout,
		"vanish_probe":        d.VanishProbe,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// Validate checks the browser settings.
func (b *BrowserConfig) Validate() error {
	if b.ViewportWidth <= 0 || b.ViewportHeight <= 0 {
		return fmt.Errorf("viewport dimensions must be positive")
	}
	if b.OperationTimeout <= 0 {
		return fmt.Errorf("operation_timeout must be a positive duration")
	}
	if b.DispatchRate > 0 && b.DispatchBurst < 1 {
		return fmt.Errorf("dispatch_burst must be at least 1 when dispatch_rate is set")
	}
	return nil
}
