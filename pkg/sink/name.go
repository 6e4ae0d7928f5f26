package sink

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"aozorascraper/pkg/records"
)

const stampLayout = "20060102150405.000"

// Clock issues strictly increasing timestamps for artifact names, even when
// two flushes happen within the same millisecond.
type Clock struct {
	now  func() time.Time
	mu   sync.Mutex
	last time.Time
}

// NewClock returns a Clock reading now.
func NewClock(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Stamp returns the next timestamp.
func (c *Clock) Stamp() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().Truncate(time.Millisecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Millisecond)
	}
	c.last = t
	return t
}

// Name builds "<mode>_<timestamp>_<label>.csv".
func (c *Clock) Name(mode records.Mode, label string) string {
	stamp := strings.Replace(c.Stamp().Format(stampLayout), ".", "", 1)
	label = sanitize(label)
	if label == "" {
		return fmt.Sprintf("%s_%s.csv", mode, stamp)
	}
	return fmt.Sprintf("%s_%s_%s.csv", mode, stamp, label)
}

func sanitize(label string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(label))
}
