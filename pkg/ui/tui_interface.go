package ui

import "aozorascraper/pkg/progress"

// TUI is an interface for interactive run monitors
type TUI interface {
	Start() error
	Stop()
	Follow(ch *progress.Channel)
	LogInfo(format string, args ...interface{})
	LogSuccess(format string, args ...interface{})
	LogWarning(format string, args ...interface{})
	LogError(format string, args ...interface{})
	IsPaused() bool
}
