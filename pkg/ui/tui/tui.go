package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	rprogress "aozorascraper/pkg/progress"
)

// TUI represents the terminal user interface
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a monitor titled title. onPause is called when the user
// presses p or q while the job runs.
func NewTUI(title string, onPause func(), opts ...tea.ProgramOption) *TUI {
	model := NewModel(title, onPause)
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)

	return &TUI{
		program: tea.NewProgram(model, opts...),
		model:   model,
	}
}

// Start runs the TUI until the job ends or the user quits
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// Stop stops the TUI gracefully
func (t *TUI) Stop() {
	t.program.Quit()
}

// Send sends a message to the TUI
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

// Follow forwards the events of ch to the program until a terminal event
// arrives. It returns immediately.
func (t *TUI) Follow(ch *rprogress.Channel) {
	go func() {
		for {
			select {
			case e := <-ch.Events():
				t.Send(EventMsg(e))
			case e := <-ch.Done():
				// flush the backlog so the final counts are shown
			drain:
				for {
					select {
					case u := <-ch.Events():
						t.Send(EventMsg(u))
					default:
						break drain
					}
				}
				t.Send(EventMsg(e))
				return
			}
		}
	}()
}

// Log sends a log message to the TUI
func (t *TUI) Log(level, format string, args ...interface{}) {
	t.Send(SendLog(level, fmt.Sprintf(format, args...)))
}

// LogInfo logs an info message
func (t *TUI) LogInfo(format string, args ...interface{}) {
	t.Log("INFO", format, args...)
}

// LogSuccess logs a success message
func (t *TUI) LogSuccess(format string, args ...interface{}) {
	t.Log("SUCCESS", format, args...)
}

// LogWarning logs a warning message
func (t *TUI) LogWarning(format string, args ...interface{}) {
	t.Log("WARN", format, args...)
}

// LogError logs an error message
func (t *TUI) LogError(format string, args ...interface{}) {
	t.Log("ERROR", format, args...)
}

// IsPaused returns whether a pause was requested
func (t *TUI) IsPaused() bool {
	return t.model.IsPaused()
}
