package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/felixgeelhaar/countdown/internal/notify"
)

// Event data keys set by the session
const (
	DataTitle     = "title"
	DataSummary   = "summary"
	DataElapsed   = "elapsed"
	DataRemaining = "remaining"
	DataDuration  = "duration"
	DataTimedOut  = "timed_out"
)

// Desktop notification defaults
const (
	DefaultAppName = "Timer"
	DefaultSummary = "Time is over"
	DefaultSound   = "Glass"
)

// DesktopNotifier sends a desktop notification
type DesktopNotifier interface {
	Send(ctx context.Context, note notify.Notification) error
}

// DesktopHook shows a desktop notification whose body is the session summary
type DesktopHook struct {
	name       string
	eventTypes []EventType
	enabled    bool
	notifier   DesktopNotifier
	template   notify.Notification
}

// NewDesktopHook creates a desktop hook for the running platform
func NewDesktopHook(config *HookConfig) (Hook, error) {
	return NewDesktopHookWithNotifier(config, notify.New())
}

// NewDesktopHookWithNotifier creates a desktop hook that sends through n
func NewDesktopHookWithNotifier(config *HookConfig, n DesktopNotifier) (Hook, error) {
	if n == nil {
		return nil, fmt.Errorf("notifier required")
	}

	events := config.Events
	if len(events) == 0 {
		events = []EventType{EventCountdownTimeout}
	}

	template := notify.Notification{
		AppName: configString(config.Config, "appName", DefaultAppName),
		Summary: configString(config.Config, "summary", DefaultSummary),
		Sound:   configString(config.Config, "sound", DefaultSound),
		Urgency: notify.ParseUrgency(configString(config.Config, "urgency", "critical")),
	}
	template.TimeoutMs = configInt(config.Config, "timeoutMs", 0)
	if template.TimeoutMs < 0 {
		return nil, fmt.Errorf("timeoutMs must not be negative")
	}

	return &DesktopHook{
		name:       config.Name,
		eventTypes: events,
		enabled:    config.Enabled,
		notifier:   n,
		template:   template,
	}, nil
}

func (h *DesktopHook) Name() string            { return h.name }
func (h *DesktopHook) EventTypes() []EventType { return h.eventTypes }
func (h *DesktopHook) Enabled() bool           { return h.enabled }

func (h *DesktopHook) Execute(ctx context.Context, event *Event) error {
	note := h.template
	note.Body = event.GetString(DataSummary)
	if note.Body == "" {
		note.Body = event.GetString(DataTitle)
	}
	return h.notifier.Send(ctx, note)
}

// ScriptHook executes a shell script
type ScriptHook struct {
	name       string
	eventTypes []EventType
	enabled    bool
	scriptPath string
	args       []string
	shell      string
}

// NewScriptHook creates a new script hook
func NewScriptHook(config *HookConfig) (Hook, error) {
	scriptPath := configString(config.Config, "script", "")
	if scriptPath == "" {
		return nil, fmt.Errorf("script path required")
	}

	hook := &ScriptHook{
		name:       config.Name,
		eventTypes: config.Events,
		enabled:    config.Enabled,
		scriptPath: scriptPath,
		shell:      configString(config.Config, "shell", "/bin/sh"),
	}

	if argsList, ok := config.Config["args"].([]interface{}); ok {
		for _, arg := range argsList {
			if argStr, ok := arg.(string); ok {
				hook.args = append(hook.args, argStr)
			}
		}
	}

	return hook, nil
}

func (h *ScriptHook) Name() string            { return h.name }
func (h *ScriptHook) EventTypes() []EventType { return h.eventTypes }
func (h *ScriptHook) Enabled() bool           { return h.enabled }

func (h *ScriptHook) Execute(ctx context.Context, event *Event) error {
	args := append([]string{h.scriptPath}, h.args...)
	cmd := exec.CommandContext(ctx, h.shell, args...)
	cmd.Env = append(os.Environ(), scriptEnv(event)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("script failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// scriptEnv exposes the event as HOOK_* variables in a stable order
func scriptEnv(event *Event) []string {
	env := []string{
		fmt.Sprintf("HOOK_EVENT_TYPE=%s", event.Type),
		fmt.Sprintf("HOOK_SESSION_ID=%s", event.SessionID),
	}

	keys := make([]string, 0, len(event.Data))
	for key := range event.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		env = append(env, fmt.Sprintf("HOOK_%s=%v", strings.ToUpper(key), event.Data[key]))
	}
	return env
}

// WebhookHook sends HTTP POST requests
type WebhookHook struct {
	name       string
	eventTypes []EventType
	enabled    bool
	url        string
	headers    map[string]string
	client     *http.Client
}

// NewWebhookHook creates a new webhook hook
func NewWebhookHook(config *HookConfig) (Hook, error) {
	url := configString(config.Config, "url", "")
	if url == "" {
		return nil, fmt.Errorf("webhook URL required")
	}

	hook := &WebhookHook{
		name:       config.Name,
		eventTypes: config.Events,
		enabled:    config.Enabled,
		url:        url,
		headers:    make(map[string]string),
		client:     &http.Client{Timeout: config.Timeout},
	}

	if headersMap, ok := config.Config["headers"].(map[string]interface{}); ok {
		for key, value := range headersMap {
			if valStr, ok := value.(string); ok {
				hook.headers[key] = valStr
			}
		}
	}

	return hook, nil
}

func (h *WebhookHook) Name() string            { return h.name }
func (h *WebhookHook) EventTypes() []EventType { return h.eventTypes }
func (h *WebhookHook) Enabled() bool           { return h.enabled }

func (h *WebhookHook) Execute(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return postJSON(ctx, h.client, h.url, payload, h.headers)
}

// SlackHook sends notifications to a Slack incoming webhook
type SlackHook struct {
	name       string
	eventTypes []EventType
	enabled    bool
	webhookURL string
	channel    string
	username   string
	iconEmoji  string
	client     *http.Client
}

// NewSlackHook creates a new Slack hook
func NewSlackHook(config *HookConfig) (Hook, error) {
	webhookURL := configString(config.Config, "webhookUrl", "")
	if webhookURL == "" {
		return nil, fmt.Errorf("slack webhook URL required")
	}

	return &SlackHook{
		name:       config.Name,
		eventTypes: config.Events,
		enabled:    config.Enabled,
		webhookURL: webhookURL,
		channel:    configString(config.Config, "channel", ""),
		username:   configString(config.Config, "username", "countdown"),
		iconEmoji:  configString(config.Config, "iconEmoji", ":alarm_clock:"),
		client:     &http.Client{Timeout: config.Timeout},
	}, nil
}

func (h *SlackHook) Name() string            { return h.name }
func (h *SlackHook) EventTypes() []EventType { return h.eventTypes }
func (h *SlackHook) Enabled() bool           { return h.enabled }

func (h *SlackHook) Execute(ctx context.Context, event *Event) error {
	payload := map[string]interface{}{
		"text":       h.formatMessage(event),
		"username":   h.username,
		"icon_emoji": h.iconEmoji,
	}
	if h.channel != "" {
		payload["channel"] = h.channel
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}
	return postJSON(ctx, h.client, h.webhookURL, body, nil)
}

func (h *SlackHook) formatMessage(event *Event) string {
	title := event.GetString(DataTitle)

	switch event.Type {
	case EventCountdownStart:
		return fmt.Sprintf("⏳ %s started: %s", title, event.GetString(DataDuration))

	case EventCountdownTimeout:
		return fmt.Sprintf("⏰ %s: time is over\n%s", title, event.GetString(DataSummary))

	case EventCountdownFinish:
		if event.GetBool(DataTimedOut) {
			return fmt.Sprintf("✅ %s finished after %s (%s overtime)", title,
				event.GetString(DataElapsed), strings.TrimPrefix(event.GetString(DataRemaining), "-"))
		}
		return fmt.Sprintf("⏹️ %s stopped with %s left", title, event.GetString(DataRemaining))

	default:
		return fmt.Sprintf("Event: %s for session %s", event.Type, event.SessionID)
	}
}

func postJSON(ctx context.Context, client *http.Client, url string, payload []byte, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	return nil
}

func configString(cfg map[string]interface{}, key, fallback string) string {
	if s, ok := cfg[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func configInt(cfg map[string]interface{}, key string, fallback int) int {
	switch v := cfg[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

// RegisterBuiltinHooks registers all built-in hook factories
func RegisterBuiltinHooks(registry *Registry) {
	registry.RegisterFactory("desktop", NewDesktopHook)
	registry.RegisterFactory("script", NewScriptHook)
	registry.RegisterFactory("webhook", NewWebhookHook)
	registry.RegisterFactory("slack", NewSlackHook)
}
