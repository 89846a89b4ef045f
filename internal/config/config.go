// Package config loads the end-to-end suite configuration and holds the
// static viewport and credential tables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultBaseURL is the origin the Hackathon Ideas Hub dev server listens on.
	DefaultBaseURL = "http://localhost:5173"

	// AntiAutomationArg stops Chromium from advertising navigator.webdriver.
	AntiAutomationArg = "--disable-blink-features=AutomationControlled"

	envPrefix = "E2E"
)

var (
	cached  *Config
	loadErr error
	once    sync.Once
)

// Config represents the suite configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" yaml:"app"`
	Browser     BrowserConfig     `mapstructure:"browser" yaml:"browser"`
	Wait        WaitConfig        `mapstructure:"wait" yaml:"wait"`
	Screenshots ScreenshotsConfig `mapstructure:"screenshots" yaml:"screenshots"`
	Soft        SoftConfig        `mapstructure:"soft" yaml:"soft"`
	Profiles    []string          `mapstructure:"profiles" yaml:"profiles"`
	SkipBrowser bool              `mapstructure:"skip_browser" yaml:"skip_browser"`
}

type AppConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

type BrowserConfig struct {
	Headless bool          `mapstructure:"headless" yaml:"headless"`
	SlowMo   time.Duration `mapstructure:"slow_mo" yaml:"slow_mo"`
	// ImplicitWait bounds how long element lookups retry before failing.
	ImplicitWait time.Duration `mapstructure:"implicit_wait" yaml:"implicit_wait"`
	LaunchArgs   []string      `mapstructure:"launch_args" yaml:"launch_args"`
	Install      bool          `mapstructure:"install" yaml:"install"`
}

type WaitConfig struct {
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

type ScreenshotsConfig struct {
	Dir       string `mapstructure:"dir" yaml:"dir"`
	OnFailure bool   `mapstructure:"on_failure" yaml:"on_failure"`
	FullPage  bool   `mapstructure:"full_page" yaml:"full_page"`
}

type SoftConfig struct {
	// Strict promotes soft findings to test failures.
	Strict     bool   `mapstructure:"strict" yaml:"strict"`
	ReportFile string `mapstructure:"report_file" yaml:"report_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.base_url", DefaultBaseURL)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.slow_mo", 0)
	v.SetDefault("browser.implicit_wait", 3*time.Second)
	v.SetDefault("browser.launch_args", []string{AntiAutomationArg})
	v.SetDefault("browser.install", false)
	v.SetDefault("wait.timeout", 5*time.Second)
	v.SetDefault("wait.poll_interval", 100*time.Millisecond)
	v.SetDefault("screenshots.dir", "screenshots")
	v.SetDefault("screenshots.on_failure", true)
	v.SetDefault("screenshots.full_page", false)
	v.SetDefault("soft.strict", false)
	v.SetDefault("soft.report_file", "soft-findings.yaml")
	v.SetDefault("profiles", []string{})
	v.SetDefault("skip_browser", false)
}

// legacyEnv keeps the plain variable names older runner scripts export.
var legacyEnv = map[string]string{
	"app.base_url":           "BASE_URL",
	"browser.headless":       "HEADLESS",
	"browser.slow_mo":        "SLOW_MO",
	"screenshots.on_failure": "SCREENSHOTS",
	"skip_browser":           "SKIP_BROWSER",
}

// Load reads defaults, an optional e2e.yaml and the environment. An empty
// configPath searches the working directory for e2e.yaml; a non-empty one
// must exist.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("e2e")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", legacy, err)
		}
	}

	// A bare number for slow_mo is milliseconds, as the legacy SLOW_MO was.
	if ms, err := strconv.Atoi(v.GetString("browser.slow_mo")); err == nil {
		v.Set("browser.slow_mo", time.Duration(ms)*time.Millisecond)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.App.BaseURL = strings.TrimRight(cfg.App.BaseURL, "/")

	if cfg.Screenshots.Dir != "" && !filepath.IsAbs(cfg.Screenshots.Dir) {
		abs, err := filepath.Abs(cfg.Screenshots.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve screenshots dir: %w", err)
		}
		cfg.Screenshots.Dir = abs
	}

	if err := NewValidator(cfg).Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get loads the configuration once per process from the working directory.
func Get() (*Config, error) {
	once.Do(func() {
		cached, loadErr = Load("")
	})
	return cached, loadErr
}

// loadDotEnv loads KEY=VALUE lines from path if present. Variables already
// in the environment take precedence.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// URL joins a route onto the base URL.
func (c *Config) URL(route string) string {
	if route == "" {
		return c.App.BaseURL
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return c.App.BaseURL + route
}

// SelectedProfiles returns the catalog entries named in Profiles, in
// catalog order, or the whole catalog when none are named.
func (c *Config) SelectedProfiles() ([]Viewport, error) {
	return Select(c.Profiles...)
}

// ScreenshotPath returns where a screenshot file of the given name lives.
func (c *ScreenshotsConfig) Path(name string) string {
	return filepath.Join(c.Dir, name)
}

// ReportPath returns the absolute location of the soft findings report.
func (c *Config) ReportPath() string {
	if c.Soft.ReportFile == "" || filepath.IsAbs(c.Soft.ReportFile) {
		return c.Soft.ReportFile
	}
	return c.Screenshots.Path(c.Soft.ReportFile)
}
