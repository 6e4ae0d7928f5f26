// Package progress carries run status from the scrape engine to whatever is
// watching it. Reporters never block the engine.
package progress

import (
	"sync"
	"sync/atomic"
)

// Kind names a progress event
type Kind string

const (
	KindTotal     Kind = "total"
	KindStatus    Kind = "statusUpdate"
	KindCounts    Kind = "update"
	KindCompleted Kind = "completed"
	KindStopped   Kind = "stopped"
	KindFailed    Kind = "failed"
)

// Terminal reports whether k ends a job
func (k Kind) Terminal() bool {
	return k == KindCompleted || k == KindStopped || k == KindFailed
}

// Event is one transient notification. Only the fields of its Kind are set.
type Event struct {
	Kind    Kind
	Total   int
	Status  string
	Target  string
	Success int
	Fail    int
	Err     error
}

// Reporter receives run events. Implementations must return promptly.
type Reporter interface {
	Total(n int)
	Status(status, target string)
	Counts(success, fail int)
	Completed()
	Stopped()
	Failed(err error)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Total(int)             {}
func (Nop) Status(string, string) {}
func (Nop) Counts(int, int)       {}
func (Nop) Completed()            {}
func (Nop) Stopped()              {}
func (Nop) Failed(error)          {}

// Channel publishes events on a buffered channel. Status and count events
// are dropped when the buffer is full; a stale snapshot is acceptable to the
// watcher. Terminal events use their own channel so they are never lost
// behind a backlog of updates.
type Channel struct {
	events   chan Event
	terminal chan Event
	dropped  atomic.Int64
}

// NewChannel returns a Channel reporter with the given update buffer.
func NewChannel(buffer int) *Channel {
	if buffer < 1 {
		buffer = 1
	}
	return &Channel{
		events:   make(chan Event, buffer),
		terminal: make(chan Event, 8),
	}
}

// Events returns the update stream.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Done returns the stream of terminal events.
func (c *Channel) Done() <-chan Event {
	return c.terminal
}

// Dropped returns how many updates were discarded
func (c *Channel) Dropped() int64 {
	return c.dropped.Load()
}

func (c *Channel) send(ch chan Event, e Event) {
	select {
	case ch <- e:
	default:
		c.dropped.Add(1)
	}
}

func (c *Channel) Total(n int) { c.send(c.events, Event{Kind: KindTotal, Total: n}) }

func (c *Channel) Status(status, target string) {
	c.send(c.events, Event{Kind: KindStatus, Status: status, Target: target})
}

func (c *Channel) Counts(success, fail int) {
	c.send(c.events, Event{Kind: KindCounts, Success: success, Fail: fail})
}

func (c *Channel) Completed()       { c.send(c.terminal, Event{Kind: KindCompleted}) }
func (c *Channel) Stopped()         { c.send(c.terminal, Event{Kind: KindStopped}) }
func (c *Channel) Failed(err error) { c.send(c.terminal, Event{Kind: KindFailed, Err: err}) }

// Recorder keeps every event in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) Total(n int) { r.add(Event{Kind: KindTotal, Total: n}) }

func (r *Recorder) Status(status, target string) {
	r.add(Event{Kind: KindStatus, Status: status, Target: target})
}

func (r *Recorder) Counts(success, fail int) {
	r.add(Event{Kind: KindCounts, Success: success, Fail: fail})
}

func (r *Recorder) Completed()       { r.add(Event{Kind: KindCompleted}) }
func (r *Recorder) Stopped()         { r.add(Event{Kind: KindStopped}) }
func (r *Recorder) Failed(err error) { r.add(Event{Kind: KindFailed, Err: err}) }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Of returns the recorded events of one kind.
func (r *Recorder) Of(k Kind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the most recent event of kind k.
func (r *Recorder) Last(k Kind) (Event, bool) {
	evs := r.Of(k)
	if len(evs) == 0 {
		return Event{}, false
	}
	return evs[len(evs)-1], true
}

// Multi fans events out to several reporters in order.
type Multi []Reporter

func (m Multi) Total(n int) {
	for _, r := range m {
		r.Total(n)
	}
}

func (m Multi) Status(status, target string) {
	for _, r := range m {
		r.Status(status, target)
	}
}

func (m Multi) Counts(success, fail int) {
	for _, r := range m {
		r.Counts(success, fail)
	}
}

func (m Multi) Completed() {
	for _, r := range m {
		r.Completed()
	}
}

func (m Multi) Stopped() {
	for _, r := range m {
		r.Stopped()
	}
}

func (m Multi) Failed(err error) {
	for _, r := range m {
		r.Failed(err)
	}
}
