package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// StatusTracker keeps the leaf counters of one job
type StatusTracker struct {
	Total     int
	Success   int
	Fail      int
	StartTime time.Time
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		StartTime: time.Now(),
	}
}

// Visited returns the number of visited leaves
func (st *StatusTracker) Visited() int {
	return st.Success + st.Fail
}

// Fraction is the visited share of the expected leaves, between 0 and 1
func (st *StatusTracker) Fraction() float64 {
	if st.Total <= 0 {
		return 0
	}
	f := float64(st.Visited()) / float64(st.Total)
	if f > 1 {
		f = 1
	}
	return f
}

// Bar returns a progress bar of the given width
func (st *StatusTracker) Bar(width int) string {
	filled := int(st.Fraction() * float64(width))
	return strings.Repeat(ProgressBar, filled) + strings.Repeat(ProgressEmpty, width-filled)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// Rate returns the average number of leaves per minute
func (st *StatusTracker) Rate(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(st.Visited()) / elapsed.Minutes()
}

// ETA estimates the remaining time; zero when unknown
func (st *StatusTracker) ETA(elapsed time.Duration) time.Duration {
	done := st.Visited()
	if done == 0 || st.Total <= done {
		return 0
	}
	return elapsed / time.Duration(done) * time.Duration(st.Total-done)
}

// Summary returns the final counters of a job
func (st *StatusTracker) Summary() string {
	return fmt.Sprintf("%d succeeded, %d failed in %s",
		st.Success, st.Fail, formatDuration(st.GetElapsedTime()))
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
