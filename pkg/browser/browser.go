// Package browser is the facade the scrape engine uses to drive one headless
// browser tab. Every primitive has a single failure mode so callers can
// contain errors at the right level.
package browser

import (
	"context"
	"time"
)

// Session is one browser tab. It is owned by a single job and is not safe
// for concurrent use.
type Session interface {
	// Navigate loads url and waits for the load event.
	Navigate(ctx context.Context, url string) error
	// Exists reports whether locator matches an element. It never fails.
	Exists(ctx context.Context, locator string) bool
	// ReadProperty returns a DOM property of the first match of locator.
	// A missing element yields "" and no error.
	ReadProperty(ctx context.Context, locator, property string) (string, error)
	// Click clicks the first match of locator and waits for the resulting
	// navigation to settle.
	Click(ctx context.Context, locator string) error
	// TriggerDownload clicks a download link and waits for the download
	// to begin.
	TriggerDownload(ctx context.Context, locator string) error
	// GoBack returns to the previous document.
	GoBack(ctx context.Context) error
	// Wait pauses unconditionally.
	Wait(ctx context.Context, d time.Duration) error
	// WaitForSelector waits up to timeout for locator to appear.
	WaitForSelector(ctx context.Context, locator string, timeout time.Duration) error
	// Close releases the tab and the browser. It is idempotent.
	Close() error
}

// Launcher opens sessions. A failure is always a launch error.
type Launcher interface {
	Open(ctx context.Context) (Session, error)
}

// Properties read by the scrape engine
const (
	PropertyText = "innerText"
	PropertyHTML = "innerHTML"
	PropertyHref = "href"
)

// Sleep waits for d or until ctx is done. Implementations of Session use it
// for Wait.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
