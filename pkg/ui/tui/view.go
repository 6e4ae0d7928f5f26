package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const header = `青空文庫 ─ AOZORA BUNKO CATALOG SCRAPER`

// View renders the entire TUI
func (m *Model) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	width := m.width - 4
	sections := []string{
		headerStyle.Width(m.width).Render(header),
		m.renderJobPanel(width),
		m.renderLogsPanel(width),
	}

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("p pause • q quit • ? help"))
	}

	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

// renderJobPanel renders the progress of the job
func (m *Model) renderJobPanel(width int) string {
	title := titleStyle.Render(" " + m.title + " ")

	phase := phaseStyle(m.phase).Render(m.phase.String())
	if m.phase == PhaseRunning {
		phase = m.spinner.View() + " " + phase
		if m.pauseRequested {
			phase += " " + warningStyle.Render("⏸  PAUSING")
		}
	}

	bar := m.bar
	bar.Width = width - 12
	if bar.Width < 10 {
		bar.Width = 10
	}

	now := time.Now()
	lines := []string{
		phase,
		bar.ViewAs(m.percent()),
		stat("Status:", m.status) + "  " + targetStyle.Render(m.target),
		stat("Visited:", fmt.Sprintf("%d / %d", m.success+m.fail, m.total)),
		fmt.Sprintf("%s %s  %s %s",
			statsLabelStyle.Render("Success:"), successStyle.Render(fmt.Sprintf("%d", m.success)),
			statsLabelStyle.Render("Fail:"), errorStyle.Render(fmt.Sprintf("%d", m.fail)),
		),
		stat("Elapsed:", formatDuration(now.Sub(m.startTime))),
		stat("ETA:", formatDuration(m.eta(now))),
	}
	if m.err != nil {
		lines = append(lines, errorStyle.Render(m.err.Error()))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")),
	)
}

func stat(label, value string) string {
	return fmt.Sprintf("%s %s", statsLabelStyle.Render(label), statsValueStyle.Render(value))
}

// renderLogsPanel renders the logs panel
func (m *Model) renderLogsPanel(width int) string {
	title := titleStyle.Render(" LOG ")

	start := len(m.logMessages) - 10
	if start < 0 {
		start = 0
	}

	var logs []string
	for _, log := range m.logMessages[start:] {
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))

		msg := log.Message
		if limit := width - 25; limit > 3 && len([]rune(msg)) > limit {
			msg = string([]rune(msg)[:limit-3]) + "..."
		}
		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, logMessageStyle.Render(msg)))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(dimWhite).Render("No logs yet...")
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderHelp renders the help panel
func (m *Model) renderHelp() string {
	help := `
  Keys:
    p/P      - Pause: stop after the current leaf and save what was read
    q/Q      - Pause and leave the monitor
    ?        - Toggle this help
    ctrl+l   - Clear the log

  Status:
    ` + successStyle.Render("COMPLETED") + ` - every page was visited
    ` + warningStyle.Render("STOPPED") + `   - paused, partial results saved
    ` + errorStyle.Render("FAILED") + `    - nothing further was saved
`
	return panelStyle.Width(m.width).Render(help)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
