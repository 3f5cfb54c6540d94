// Package config loads and saves the user's countdown settings from
// ~/.countdown/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/countdown/internal/errors"
	"github.com/felixgeelhaar/countdown/internal/hooks"
	"github.com/felixgeelhaar/countdown/internal/telemetry"
)

// HomeEnv overrides the ~/.countdown directory
const HomeEnv = "COUNTDOWN_HOME"

// Config is the full on-disk configuration
type Config struct {
	Notification NotificationConfig `yaml:"notification" json:"notification"`
	Logging      LoggingConfig      `yaml:"logging" json:"logging"`
	History      HistoryConfig      `yaml:"history" json:"history"`
	Metrics      MetricsConfig      `yaml:"metrics" json:"metrics"`
	Telemetry    telemetry.Config   `yaml:"telemetry" json:"telemetry"`
	UI           UIConfig           `yaml:"ui" json:"ui"`
	Hooks        []hooks.HookConfig `yaml:"hooks,omitempty" json:"hooks,omitempty"`
}

// NotificationConfig controls the built-in desktop notification
type NotificationConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	AppName   string `yaml:"app_name" json:"app_name"`
	Summary   string `yaml:"summary" json:"summary"`
	Sound     string `yaml:"sound" json:"sound"`
	TimeoutMs int    `yaml:"timeout_ms" json:"timeout_ms"`
	Urgency   string `yaml:"urgency" json:"urgency"`
}

// LoggingConfig controls the log file
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// HistoryConfig controls the session history database
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	Limit   int    `yaml:"limit" json:"limit"`
}

// MetricsConfig controls the Prometheus endpoint. An empty address
// disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// UIConfig holds terminal preferences
type UIConfig struct {
	AltScreen     bool   `yaml:"alt_screen" json:"alt_screen"`
	NoColor       bool   `yaml:"no_color" json:"no_color"`
	ExitOnTimeout bool   `yaml:"exit_on_timeout" json:"exit_on_timeout"`
	DefaultTitle  string `yaml:"default_title" json:"default_title"`
}

// Default returns the configuration written on first run
func Default() *Config {
	return &Config{
		Notification: NotificationConfig{
			Enabled:   true,
			AppName:   hooks.DefaultAppName,
			Summary:   hooks.DefaultSummary,
			Sound:     hooks.DefaultSound,
			TimeoutMs: 0,
			Urgency:   "critical",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "~/.countdown/logs/countdown.log",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "~/.countdown/history.db",
			Limit:   20,
		},
		Telemetry: telemetry.DefaultConfig(),
		UI: UIConfig{
			DefaultTitle: "Timer",
		},
	}
}

// Dir returns the countdown home directory
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".countdown"), nil
}

// Path returns the default config file location
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Load reads the config from the default location
func Load() (*Config, string, error) {
	path, err := Path()
	if err != nil {
		return nil, "", errors.NewConfigLoadError("~/.countdown/config.yaml", err)
	}
	cfg, err := LoadFrom(path)
	return cfg, path, err
}

// LoadFrom reads the config at path. A missing file is created with
// defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, errors.NewFileReadError(path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigLoadError(path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to write config: %s", path), err)
	}
	return nil
}

// Validate checks values that YAML typing cannot
func (c *Config) Validate() error {
	switch c.Notification.Urgency {
	case "low", "normal", "critical":
	default:
		return errors.NewConfigInvalidError("notification.urgency", c.Notification.Urgency, nil)
	}
	if c.Notification.TimeoutMs < 0 {
		return errors.NewConfigInvalidError("notification.timeout_ms", strconv.Itoa(c.Notification.TimeoutMs), nil)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.NewConfigInvalidError("logging.level", c.Logging.Level, nil)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return errors.NewConfigInvalidError("logging.format", c.Logging.Format, nil)
	}
	if c.History.Limit < 0 {
		return errors.NewConfigInvalidError("history.limit", strconv.Itoa(c.History.Limit), nil)
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return errors.NewConfigInvalidError("telemetry.sample_rate", formatFloat(c.Telemetry.SampleRate), nil)
	}
	for _, h := range c.Hooks {
		if h.FailureMode != "" && !hooks.IsValidFailureMode(h.FailureMode) {
			return errors.NewConfigInvalidError("hooks."+h.Name+".failureMode", h.FailureMode, nil)
		}
	}
	return nil
}

// HookConfigs returns the configured hooks, preceded by the built-in
// desktop notification when it is enabled
func (c *Config) HookConfigs() []hooks.HookConfig {
	out := make([]hooks.HookConfig, 0, len(c.Hooks)+1)
	if c.Notification.Enabled {
		out = append(out, hooks.HookConfig{
			Name:    "desktop",
			Type:    "desktop",
			Enabled: true,
			Events:  []hooks.EventType{hooks.EventCountdownTimeout},
			Config: map[string]interface{}{
				"appName":   c.Notification.AppName,
				"summary":   c.Notification.Summary,
				"sound":     c.Notification.Sound,
				"timeoutMs": c.Notification.TimeoutMs,
				"urgency":   c.Notification.Urgency,
			},
			FailureMode: "warn",
		})
	}
	return append(out, c.Hooks...)
}

// Keys lists every key accepted by Get and Set
func Keys() []string {
	return []string{
		"notification.enabled", "notification.app_name", "notification.summary",
		"notification.sound", "notification.timeout_ms", "notification.urgency",
		"logging.level", "logging.format", "logging.file",
		"history.enabled", "history.path", "history.limit",
		"metrics.addr",
		"telemetry.enabled", "telemetry.endpoint", "telemetry.insecure",
		"telemetry.sample_rate", "telemetry.environment",
		"ui.alt_screen", "ui.no_color", "ui.exit_on_timeout", "ui.default_title",
	}
}

// Get returns the value at a dot-separated key
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "notification.enabled":
		return strconv.FormatBool(c.Notification.Enabled), nil
	case "notification.app_name":
		return c.Notification.AppName, nil
	case "notification.summary":
		return c.Notification.Summary, nil
	case "notification.sound":
		return c.Notification.Sound, nil
	case "notification.timeout_ms":
		return strconv.Itoa(c.Notification.TimeoutMs), nil
	case "notification.urgency":
		return c.Notification.Urgency, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.file":
		return c.Logging.File, nil
	case "history.enabled":
		return strconv.FormatBool(c.History.Enabled), nil
	case "history.path":
		return c.History.Path, nil
	case "history.limit":
		return strconv.Itoa(c.History.Limit), nil
	case "metrics.addr":
		return c.Metrics.Addr, nil
	case "telemetry.enabled":
		return strconv.FormatBool(c.Telemetry.Enabled), nil
	case "telemetry.endpoint":
		return c.Telemetry.Endpoint, nil
	case "telemetry.insecure":
		return strconv.FormatBool(c.Telemetry.Insecure), nil
	case "telemetry.sample_rate":
		return formatFloat(c.Telemetry.SampleRate), nil
	case "telemetry.environment":
		return c.Telemetry.Environment, nil
	case "ui.alt_screen":
		return strconv.FormatBool(c.UI.AltScreen), nil
	case "ui.no_color":
		return strconv.FormatBool(c.UI.NoColor), nil
	case "ui.exit_on_timeout":
		return strconv.FormatBool(c.UI.ExitOnTimeout), nil
	case "ui.default_title":
		return c.UI.DefaultTitle, nil
	default:
		return "", errors.NewConfigKeyError(key)
	}
}

// Set assigns value at a dot-separated key and re-validates the config.
// On error the config is left unchanged.
func (c *Config) Set(key, value string) error {
	next := *c
	if err := next.set(key, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func (c *Config) set(key, value string) error {
	var err error
	switch key {
	case "notification.enabled":
		c.Notification.Enabled, err = parseBool(key, value)
	case "notification.app_name":
		c.Notification.AppName = value
	case "notification.summary":
		c.Notification.Summary = value
	case "notification.sound":
		c.Notification.Sound = value
	case "notification.timeout_ms":
		c.Notification.TimeoutMs, err = parseInt(key, value)
	case "notification.urgency":
		c.Notification.Urgency = strings.ToLower(value)
	case "logging.level":
		c.Logging.Level = strings.ToLower(value)
	case "logging.format":
		c.Logging.Format = strings.ToLower(value)
	case "logging.file":
		c.Logging.File = value
	case "history.enabled":
		c.History.Enabled, err = parseBool(key, value)
	case "history.path":
		c.History.Path = value
	case "history.limit":
		c.History.Limit, err = parseInt(key, value)
	case "metrics.addr":
		c.Metrics.Addr = value
	case "telemetry.enabled":
		c.Telemetry.Enabled, err = parseBool(key, value)
	case "telemetry.endpoint":
		c.Telemetry.Endpoint = value
	case "telemetry.insecure":
		c.Telemetry.Insecure, err = parseBool(key, value)
	case "telemetry.sample_rate":
		c.Telemetry.SampleRate, err = parseFloat(key, value)
	case "telemetry.environment":
		c.Telemetry.Environment = value
	case "ui.alt_screen":
		c.UI.AltScreen, err = parseBool(key, value)
	case "ui.no_color":
		c.UI.NoColor, err = parseBool(key, value)
	case "ui.exit_on_timeout":
		c.UI.ExitOnTimeout, err = parseBool(key, value)
	case "ui.default_title":
		c.UI.DefaultTitle = value
	default:
		return errors.NewConfigKeyError(key)
	}
	return err
}

func parseBool(key, s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, errors.NewConfigInvalidError(key, s, fmt.Errorf("expected a boolean"))
}

func parseInt(key, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewConfigInvalidError(key, s, err)
	}
	return n, nil
}

func parseFloat(key, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.NewConfigInvalidError(key, s, err)
	}
	return f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
