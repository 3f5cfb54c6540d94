package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/countdown/internal/hooks"
	"github.com/felixgeelhaar/countdown/internal/session"
)

// Options controls the countdown screen
type Options struct {
	// Notify runs the timeout hooks when the countdown runs out
	Notify bool
	// ExitOnTimeout quits once the timeout hooks have finished
	ExitOnTimeout bool
	// NoColor renders without colors
	NoColor bool
	// AltScreen takes over the whole terminal
	AltScreen bool
	// Interval between ticks; zero means one second
	Interval time.Duration
}

// Model represents the TUI application state
type Model struct {
	ctx     context.Context
	session *session.Session
	opts    Options

	// UI state
	width    int
	height   int
	showHelp bool
	quitting bool

	// Hook state
	notifying bool
	lastError string

	keys   KeyMap
	help   help.Model
	styles Styles
}

// Styles contains lipgloss styles for the TUI
type Styles struct {
	Title    lipgloss.Style
	Clock    lipgloss.Style
	Overtime lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Muted    lipgloss.Style
	Border   lipgloss.Style
	Help     lipgloss.Style
}

// TickMsg advances the countdown by one second
type TickMsg time.Time

// NotifyResultMsg carries the outcome of the timeout hooks
type NotifyResultMsg struct {
	Results []hooks.ExecutionResult
}

// NewModel creates a new TUI model for s
func NewModel(ctx context.Context, s *session.Session, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	styles := DefaultStyles()
	if opts.NoColor {
		styles = PlainStyles()
	}
	return Model{
		ctx:     ctx,
		session: s,
		opts:    opts,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		styles:  styles,
	}
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")). // Purple
			MarginBottom(1),
		Clock: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Overtime: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Status: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")), // Yellow
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
	}
}

// PlainStyles keeps layout but drops every color
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:    plain.Bold(true).MarginBottom(1),
		Clock:    plain.Bold(true),
		Overtime: plain.Bold(true),
		Status:   plain,
		Error:    plain,
		Success:  plain,
		Warning:  plain,
		Muted:    plain,
		Border:   plain.Border(lipgloss.NormalBorder()).Padding(1, 2),
		Help:     plain.MarginTop(1),
	}
}

// Init starts the tick loop (required by Bubble Tea)
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if m.quitting {
			return m, nil
		}
		fired := m.session.Tick()
		cmds := []tea.Cmd{m.tick()}
		if fired {
			switch {
			case m.opts.Notify:
				m.notifying = true
				cmds = append(cmds, m.notify())
			case m.opts.ExitOnTimeout:
				m.quitting = true
				return m, tea.Quit
			}
		}
		return m, tea.Batch(cmds...)

	case NotifyResultMsg:
		m.notifying = false
		for _, r := range msg.Results {
			if !r.Success {
				m.lastError = r.HookName + ": " + r.Error
			}
		}
		if m.opts.ExitOnTimeout {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.session.TogglePause()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}

	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) notify() tea.Cmd {
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		return NotifyResultMsg{Results: s.Notify(ctx)}
	}
}

// Quitting reports whether the user asked to leave
func (m Model) Quitting() bool {
	return m.quitting
}

// Run shows the countdown until the user quits or ctx is cancelled
func Run(ctx context.Context, s *session.Session, opts Options) error {
	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(NewModel(ctx, s, opts), programOpts...)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
