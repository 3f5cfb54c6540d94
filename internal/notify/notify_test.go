package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	name string
	args []string
	err  error
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) error {
	r.name = name
	r.args = args
	return r.err
}

func timeUp() Notification {
	return Notification{
		AppName: "Timer",
		Summary: "Time is over",
		Body:    "Total time: 0 Hour 25 Minutes 0 Seconds",
		Sound:   "Glass",
		Urgency: UrgencyCritical,
	}
}

func TestSendLinux(t *testing.T) {
	runner := &recordingRunner{}
	err := NewWithRunner("linux", runner).Send(context.Background(), timeUp())
	require.NoError(t, err)

	assert.Equal(t, "notify-send", runner.name)
	assert.Contains(t, runner.args, "--urgency=critical")
	assert.Contains(t, runner.args, "--expire-time=0")
	assert.Contains(t, runner.args, "--app-name=Timer")
	assert.Contains(t, runner.args, "--hint=string:sound-name:Glass")
	assert.Equal(t, []string{"Time is over", "Total time: 0 Hour 25 Minutes 0 Seconds"}, runner.args[len(runner.args)-2:])
}

func TestSendDarwin(t *testing.T) {
	runner := &recordingRunner{}
	note := timeUp()
	note.Body = `say "hi"`

	require.NoError(t, NewWithRunner("darwin", runner).Send(context.Background(), note))

	assert.Equal(t, "osascript", runner.name)
	require.Len(t, runner.args, 2)
	assert.Equal(t, "-e", runner.args[0])
	assert.Contains(t, runner.args[1], `display notification "say \"hi\"" with title "Timer"`)
	assert.Contains(t, runner.args[1], `subtitle "Time is over"`)
	assert.Contains(t, runner.args[1], `sound name "Glass"`)
}

func TestSendWindows(t *testing.T) {
	runner := &recordingRunner{}
	require.NoError(t, NewWithRunner("windows", runner).Send(context.Background(), timeUp()))

	assert.Equal(t, "powershell", runner.name)
	assert.Contains(t, runner.args[len(runner.args)-1], "ShowBalloonTip(10000")
}

func TestSendDarwinEscapesBackslash(t *testing.T) {
	runner := &recordingRunner{}
	note := timeUp()
	note.AppName = `Timer\`
	note.Body = `C:\tmp "x"`

	require.NoError(t, NewWithRunner("darwin", runner).Send(context.Background(), note))

	require.Len(t, runner.args, 2)
	assert.Contains(t, runner.args[1], `display notification "C:\\tmp \"x\"" with title "Timer\\"`)
}

func TestSendWindowsEscapesQuotes(t *testing.T) {
	runner := &recordingRunner{}
	note := timeUp()
	note.Body = `cost $5 "now"`

	require.NoError(t, NewWithRunner("windows", runner).Send(context.Background(), note))

	assert.Contains(t, runner.args[len(runner.args)-1], "\"cost `$5 `\"now`\"\"")
}

func TestSendUnsupportedPlatform(t *testing.T) {
	runner := &recordingRunner{}
	err := NewWithRunner("plan9", runner).Send(context.Background(), timeUp())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan9")
	assert.Empty(t, runner.name, "nothing should run on unsupported platforms")
}

func TestSendPropagatesRunnerError(t *testing.T) {
	runner := &recordingRunner{err: errors.New("notify-send: not found")}
	err := NewWithRunner("linux", runner).Send(context.Background(), timeUp())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestParseUrgency(t *testing.T) {
	assert.Equal(t, UrgencyLow, ParseUrgency("LOW"))
	assert.Equal(t, UrgencyCritical, ParseUrgency("critical"))
	assert.Equal(t, UrgencyNormal, ParseUrgency(""))
	assert.Equal(t, "normal", UrgencyNormal.String())
}

func TestCommandFor(t *testing.T) {
	name, err := CommandFor("freebsd")
	require.NoError(t, err)
	assert.Equal(t, "notify-send", name)

	_, err = CommandFor("js")
	assert.Error(t, err)
}
