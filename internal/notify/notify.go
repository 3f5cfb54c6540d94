// Package notify delivers desktop notifications through the platform's
// native command-line tools.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// Urgency follows the freedesktop notification levels.
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyCritical:
		return "critical"
	default:
		return "normal"
	}
}

// ParseUrgency maps a config string to an Urgency, defaulting to normal.
func ParseUrgency(s string) Urgency {
	switch strings.ToLower(s) {
	case "low":
		return UrgencyLow
	case "critical":
		return UrgencyCritical
	default:
		return UrgencyNormal
	}
}

// Notification is a single desktop notification.
type Notification struct {
	AppName string
	Summary string
	Body    string
	// Sound is a platform sound name ("Glass" on macOS). Empty means silent.
	Sound string
	// TimeoutMs is how long the notification stays up; 0 keeps it until
	// the user dismisses it.
	TimeoutMs int
	Urgency   Urgency
}

// Runner executes an external command. Tests substitute a recorder.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w (output: %s)", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Notifier sends notifications for one operating system.
type Notifier struct {
	goos   string
	runner Runner
}

// New returns a Notifier for the running platform.
func New() *Notifier {
	return NewWithRunner(runtime.GOOS, ExecRunner{})
}

// NewWithRunner returns a Notifier for goos that executes through runner.
func NewWithRunner(goos string, runner Runner) *Notifier {
	return &Notifier{goos: goos, runner: runner}
}

// Send shows n on the desktop.
func (n *Notifier) Send(ctx context.Context, note Notification) error {
	name, args, err := n.command(note)
	if err != nil {
		return err
	}
	if err := n.runner.Run(ctx, name, args...); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// CommandFor returns the program Send runs on goos
func CommandFor(goos string) (string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "notify-send", nil
	case "darwin":
		return "osascript", nil
	case "windows":
		return "powershell", nil
	default:
		return "", fmt.Errorf("notifications not supported on %s", goos)
	}
}

func (n *Notifier) command(note Notification) (string, []string, error) {
	name, err := CommandFor(n.goos)
	if err != nil {
		return "", nil, err
	}
	switch name {
	case "osascript":
		return name, []string{"-e", appleScript(note)}, nil
	case "powershell":
		return name, []string{"-NoProfile", "-Command", powershellScript(note)}, nil
	default:
		return name, linuxArgs(note), nil
	}
}

func linuxArgs(note Notification) []string {
	args := []string{
		"--urgency=" + note.Urgency.String(),
		"--expire-time=" + strconv.Itoa(note.TimeoutMs),
	}
	if note.AppName != "" {
		args = append(args, "--app-name="+note.AppName)
	}
	if note.Sound != "" {
		args = append(args, "--hint=string:sound-name:"+note.Sound)
	}
	return append(args, note.Summary, note.Body)
}

func appleScript(note Notification) string {
	title := note.AppName
	if title == "" {
		title = note.Summary
	}

	var b strings.Builder
	fmt.Fprintf(&b, `display notification "%s" with title "%s"`, appleScriptEscape(note.Body), appleScriptEscape(title))
	if note.AppName != "" && note.Summary != "" {
		fmt.Fprintf(&b, ` subtitle "%s"`, appleScriptEscape(note.Summary))
	}
	if note.Sound != "" {
		fmt.Fprintf(&b, ` sound name "%s"`, appleScriptEscape(note.Sound))
	}
	return b.String()
}

func powershellScript(note Notification) string {
	// ShowBalloonTip needs a positive timeout; the icon lingers until disposed.
	timeout := note.TimeoutMs
	if timeout <= 0 {
		timeout = 10000
	}
	return fmt.Sprintf(`
Add-Type -AssemblyName System.Windows.Forms
$notify = New-Object System.Windows.Forms.NotifyIcon
$notify.Icon = [System.Drawing.SystemIcons]::Information
$notify.Visible = $true
$notify.ShowBalloonTip(%d, "%s", "%s", [System.Windows.Forms.ToolTipIcon]::None)
Start-Sleep -s 5
$notify.Visible = $false
$notify.Dispose()
`, timeout, powershellEscape(note.Summary), powershellEscape(note.Body))
}

// appleScriptEscape escapes for an AppleScript string literal, where
// backslash is itself an escape character.
var appleScriptEscape = strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace

// powershellEscape escapes for a double-quoted PowerShell string, which
// uses the backtick as its escape and expands $variables.
var powershellEscape = strings.NewReplacer("`", "``", `"`, "`\"", "$", "`$").Replace
