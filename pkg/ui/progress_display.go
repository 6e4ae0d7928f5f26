package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressDisplay renders a one-line progress view for non-interactive
// terminals. It implements progress.Reporter.
type ProgressDisplay struct {
	mu      sync.Mutex
	out     io.Writer
	title   string
	tracker *StatusTracker
	status  string
	target  string
	now     func() time.Time
	done    bool
}

// NewProgressDisplay creates a display writing to out
func NewProgressDisplay(out io.Writer, title string) *ProgressDisplay {
	return &ProgressDisplay{
		out:     out,
		title:   title,
		tracker: NewStatusTracker(),
		now:     time.Now,
	}
}

func (p *ProgressDisplay) Total(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tracker.Total = n
}

func (p *ProgressDisplay) Status(status, target string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status, p.target = status, target
}

func (p *ProgressDisplay) Counts(success, fail int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tracker.Success, p.tracker.Fail = success, fail
	p.printProgress()
}

func (p *ProgressDisplay) Completed() { p.finish(Green("✓ completed")) }
func (p *ProgressDisplay) Stopped()   { p.finish(Yellow("⏸ stopped")) }

func (p *ProgressDisplay) Failed(err error) {
	p.finish(Red(fmt.Sprintf("✗ failed: %v", err)))
}

// Tracker returns a copy of the counters
func (p *ProgressDisplay) Tracker() StatusTracker {
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.tracker
}

func (p *ProgressDisplay) finish(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	p.done = true
	p.printProgress()
	fmt.Fprintf(p.out, "\n%s %s\n", label, Dim(p.tracker.Summary()))
}

// printProgress prints the progress line
func (p *ProgressDisplay) printProgress() {
	if p.done && p.tracker.Visited() == 0 {
		return
	}
	elapsed := p.now().Sub(p.tracker.StartTime)

	line := fmt.Sprintf("%s [%s] %d/%d • %.1f/min • eta %s",
		Cyan(p.title),
		p.tracker.Bar(20),
		p.tracker.Visited(),
		p.tracker.Total,
		p.tracker.Rate(elapsed),
		formatDuration(p.tracker.ETA(elapsed)),
	)
	if p.status != "" {
		line += fmt.Sprintf(" • %s %s", p.target, p.status)
	}
	if p.tracker.Fail > 0 {
		line += fmt.Sprintf(" • %s", Red(fmt.Sprintf("%d failed", p.tracker.Fail)))
	}

	fmt.Fprintf(p.out, "\r%s\r%s", strings.Repeat(" ", 120), line)
}
