package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/countdown/internal/session"
)

const barWidth = 40

// View renders the TUI (required by Bubble Tea)
func (m Model) View() string {
	snap := m.session.Snapshot()
	if m.quitting {
		return m.renderComplete(snap)
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("⏳ " + m.session.Title()))
	b.WriteString("\n")

	clock := m.styles.Clock
	if snap.TimedOut {
		clock = m.styles.Overtime
	}
	body := clock.Render(snap.Remaining) + "\n\n" +
		m.renderProgressBar(snap.Progress) + "\n\n" +
		m.styles.Muted.Render(snap.TotalDuration)
	b.WriteString(m.styles.Border.Render(body))
	b.WriteString("\n\n")

	b.WriteString(m.renderStatus(snap))
	b.WriteString("\n")

	if m.lastError != "" {
		errorBox := m.styles.Border.
			BorderForeground(lipgloss.Color("196")).
			Render(m.styles.Error.Render("❌ Hook failed: ") + m.lastError)
		b.WriteString("\n")
		b.WriteString(errorBox)
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelpLine())
	return b.String()
}

// renderStatus renders the one-line state of the countdown
func (m Model) renderStatus(snap session.Snapshot) string {
	switch {
	case snap.Paused:
		return m.styles.Warning.Render("⏸ Paused")
	case snap.TimedOut && m.notifying:
		return m.styles.Error.Render("⏰ Time is over") + m.styles.Muted.Render(" (notifying…)")
	case snap.TimedOut:
		return m.styles.Error.Render("⏰ Time is over") + m.styles.Muted.Render(" "+snap.Summary)
	default:
		return m.styles.Status.Render("▶ Running")
	}
}

// renderProgressBar renders an ASCII progress bar
func (m Model) renderProgressBar(progress float64) string {
	filled := int(progress * float64(barWidth))

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < barWidth; i++ {
		if i < filled {
			bar.WriteString("█")
		} else {
			bar.WriteString("░")
		}
	}
	bar.WriteString("]")

	return m.styles.Status.Render(bar.String()) + m.styles.Muted.Render(fmt.Sprintf(" %3.0f%%", progress*100))
}

// renderComplete renders the final frame left on screen after quitting
func (m Model) renderComplete(snap session.Snapshot) string {
	return fmt.Sprintf("%s  %s\n%s\n",
		m.styles.Title.UnsetMarginBottom().Render(m.session.Title()),
		m.styles.Muted.Render(snap.TotalDuration),
		m.styles.Muted.Render(snap.Summary),
	)
}

// renderHelpLine renders the help line at the bottom
func (m Model) renderHelpLine() string {
	return m.styles.Help.Render(m.help.View(m.keys))
}
