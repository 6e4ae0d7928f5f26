package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Indigo and paper palette
	aiBlue      = lipgloss.Color("#2E4A8B")
	skyBlue     = lipgloss.Color("#7FB2F0")
	sakura      = lipgloss.Color("#F2A7C3")
	matchaGreen = lipgloss.Color("#8DBF6A")
	kinYellow   = lipgloss.Color("#E8C547")
	akaOrange   = lipgloss.Color("#E8743B")
	shuRed      = lipgloss.Color("#D9333F")
	inkBg       = lipgloss.Color("#14182B")
	inkBg2      = lipgloss.Color("#1F2440")
	dimWhite    = lipgloss.Color("#B0B0B0")

	baseStyle = lipgloss.NewStyle().
			Background(inkBg).
			Foreground(dimWhite)

	headerStyle = lipgloss.NewStyle().
			Foreground(skyBlue).
			Bold(true).
			Padding(1, 0).
			Align(lipgloss.Center)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(aiBlue).
			Background(inkBg2).
			Padding(1, 2)

	statsLabelStyle = lipgloss.NewStyle().
			Foreground(skyBlue).
			Bold(true)

	statsValueStyle = lipgloss.NewStyle().
			Foreground(kinYellow)

	successStyle = lipgloss.NewStyle().
			Foreground(matchaGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(shuRed).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(akaOrange).
			Bold(true)

	targetStyle = lipgloss.NewStyle().
			Foreground(sakura).
			Bold(true)

	logTimestampStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))

	logMessageStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0, 0, 2)

	titleStyle = lipgloss.NewStyle().
			Background(aiBlue).
			Foreground(inkBg).
			Bold(true).
			Padding(0, 1)
)

// levelColor returns the color of a log level
func levelColor(level string) lipgloss.Color {
	switch level {
	case "ERROR":
		return shuRed
	case "WARN":
		return akaOrange
	case "SUCCESS":
		return matchaGreen
	case "INFO":
		return skyBlue
	}
	return dimWhite
}

// phaseStyle returns the style of a job phase label
func phaseStyle(p Phase) lipgloss.Style {
	switch p {
	case PhaseCompleted:
		return successStyle
	case PhaseStopped:
		return warningStyle
	case PhaseFailed:
		return errorStyle
	}
	return statsValueStyle
}
