package health

import (
	"context"
	"os"
	"os/exec"

	"github.com/felixgeelhaar/countdown/internal/hooks"
	"github.com/felixgeelhaar/countdown/internal/notify"
	"github.com/felixgeelhaar/countdown/internal/store"
)

// NotifierChecker looks for the desktop notification program on PATH.
// A missing notifier only degrades: the countdown still runs.
type NotifierChecker struct {
	goos     string
	lookPath func(string) (string, error)
}

// NewNotifierChecker checks the notifier used on goos
func NewNotifierChecker(goos string) *NotifierChecker {
	return &NotifierChecker{goos: goos, lookPath: exec.LookPath}
}

// Name returns the name of this health check.
func (c *NotifierChecker) Name() string {
	return "desktop-notifier"
}

// Check verifies the notifier program can be found
func (c *NotifierChecker) Check(ctx context.Context) *Result {
	name, err := notify.CommandFor(c.goos)
	if err != nil {
		return Degraded("desktop notifications are not available on this platform").
			WithDetail("platform", c.goos)
	}

	path, err := c.lookPath(name)
	if err != nil {
		r := Degraded(name+" not found in PATH").WithDetail("error", err.Error())
		if name == "notify-send" {
			r.WithDetail("suggestion", "Install libnotify (e.g. apt install libnotify-bin)")
		}
		return r
	}

	return Healthy(name + " is available").WithDetail("path", path)
}

// ConfigChecker reports whether the config file loads and validates
type ConfigChecker struct {
	path string
	load func() error
}

// NewConfigChecker wraps load, which reads and validates the config at path
func NewConfigChecker(path string, load func() error) *ConfigChecker {
	return &ConfigChecker{path: path, load: load}
}

// Name returns the name of this health check.
func (c *ConfigChecker) Name() string {
	return "config"
}

// Check runs the loader
func (c *ConfigChecker) Check(ctx context.Context) *Result {
	if err := c.load(); err != nil {
		return Unhealthy("configuration is invalid").
			WithDetail("path", c.path).
			WithDetail("error", err.Error())
	}
	return Healthy("configuration loaded").WithDetail("path", c.path)
}

// HistoryChecker opens the history database and reads its totals
type HistoryChecker struct {
	path    string
	enabled bool
}

// NewHistoryChecker checks the database at path. A disabled history is
// reported as healthy without touching the file.
func NewHistoryChecker(path string, enabled bool) *HistoryChecker {
	return &HistoryChecker{path: path, enabled: enabled}
}

// Name returns the name of this health check.
func (c *HistoryChecker) Name() string {
	return "history"
}

// Check opens the store and reads the session count. A database that does
// not exist yet is left uncreated.
func (c *HistoryChecker) Check(ctx context.Context) *Result {
	if !c.enabled {
		return Healthy("history is disabled")
	}

	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		return Healthy("no history yet").WithDetail("path", c.path)
	} else if err != nil {
		return Unhealthy("history database cannot be accessed").
			WithDetail("path", c.path).
			WithDetail("error", err.Error())
	}

	st, err := store.Open(c.path)
	if err != nil {
		return Unhealthy("history database cannot be opened").
			WithDetail("path", c.path).
			WithDetail("error", err.Error())
	}
	defer st.Close()

	stats, err := st.Stats(ctx)
	if err != nil {
		return Unhealthy("history database cannot be read").
			WithDetail("path", c.path).
			WithDetail("error", err.Error())
	}

	return Healthy("history database is readable").
		WithDetail("path", c.path).
		WithDetail("sessions", stats.Sessions)
}

// HooksChecker builds every configured hook
type HooksChecker struct {
	configs []hooks.HookConfig
}

// NewHooksChecker checks configs
func NewHooksChecker(configs []hooks.HookConfig) *HooksChecker {
	return &HooksChecker{configs: configs}
}

// Name returns the name of this health check.
func (c *HooksChecker) Name() string {
	return "hooks"
}

// Check registers every hook in a throwaway registry
func (c *HooksChecker) Check(ctx context.Context) *Result {
	registry, err := hooks.NewDefaultRegistry(c.configs)
	if err != nil {
		return Unhealthy("a hook is misconfigured").WithDetail("error", err.Error())
	}

	r := Healthy("hooks are configured")
	for _, event := range hooks.AllEventTypes {
		r.WithDetail(string(event), len(registry.GetHooks(event)))
	}
	return r
}
