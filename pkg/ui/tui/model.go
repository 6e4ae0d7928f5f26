package tui

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	rprogress "aozorascraper/pkg/progress"
)

// Phase of the watched job
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseCompleted
	PhaseStopped
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseCompleted:
		return "COMPLETED"
	case PhaseStopped:
		return "STOPPED"
	case PhaseFailed:
		return "FAILED"
	}
	return "RUNNING"
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// Model is the state of the run monitor
type Model struct {
	spinner spinner.Model
	bar     progress.Model

	title   string
	total   int
	success int
	fail    int
	status  string
	target  string
	phase   Phase
	err     error

	onPause        func()
	pauseRequested bool
	startTime      time.Time

	width          int
	height         int
	showHelp       bool
	logMessages    []LogMessage
	maxLogMessages int

	mu sync.RWMutex
}

// NewModel creates a monitor for one job. onPause is called once when the
// user asks the job to stop.
func NewModel(title string, onPause func()) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(skyBlue)

	bar := progress.New(progress.WithGradient(string(aiBlue), string(skyBlue)))
	bar.Width = 40

	return &Model{
		spinner:        s,
		bar:            bar,
		title:          title,
		onPause:        onPause,
		startTime:      time.Now(),
		maxLogMessages: 50,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// Apply folds one run event into the model
func (m *Model) Apply(e rprogress.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch e.Kind {
	case rprogress.KindTotal:
		m.total = e.Total
	case rprogress.KindStatus:
		m.status, m.target = e.Status, e.Target
	case rprogress.KindCounts:
		m.success, m.fail = e.Success, e.Fail
	case rprogress.KindCompleted:
		m.phase = PhaseCompleted
	case rprogress.KindStopped:
		m.phase = PhaseStopped
	case rprogress.KindFailed:
		m.phase, m.err = PhaseFailed, e.Err
	}
}

// RequestPause asks the job to stop. Only the first call reaches onPause.
func (m *Model) RequestPause() {
	m.mu.Lock()
	if m.pauseRequested || m.phase != PhaseRunning {
		m.mu.Unlock()
		return
	}
	m.pauseRequested = true
	onPause := m.onPause
	m.mu.Unlock()

	if onPause != nil {
		onPause()
	}
	m.AddLogMessage("WARN", "Pause requested, stopping after the current leaf")
}

// IsPaused reports whether a pause was requested
func (m *Model) IsPaused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pauseRequested
}

// Phase returns the phase of the job
func (m *Model) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// Counts returns the visited leaf counters
func (m *Model) Counts() (success, fail, total int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.success, m.fail, m.total
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   levelColor(level),
	})

	// Keep only the last N messages
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// Percent is the visited share of the expected leaves, between 0 and 1
func (m *Model) Percent() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.percent()
}

func (m *Model) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	p := float64(m.success+m.fail) / float64(m.total)
	if p > 1 {
		p = 1
	}
	return p
}

// eta estimates the remaining time from the average leaf duration. Short
// pages end early, so this is an upper bound.
func (m *Model) eta(now time.Time) time.Duration {
	done := m.success + m.fail
	if done == 0 || m.total <= done {
		return 0
	}
	per := now.Sub(m.startTime) / time.Duration(done)
	return per * time.Duration(m.total-done)
}
