// Package cancel holds the cooperative pause flag polled by a running scrape.
package cancel

import (
	"sync/atomic"

	errs "aozorascraper/pkg/errors"
)

// Controller is a single run flag. The zero value is ready to use.
type Controller struct {
	cancelled atomic.Bool
}

// New returns a controller that is not cancelled
func New() *Controller {
	return &Controller{}
}

// RequestCancel asks the running job to stop at its next loop boundary.
func (c *Controller) RequestCancel() {
	c.cancelled.Store(true)
}

// IsCancelled reports whether a stop was requested
func (c *Controller) IsCancelled() bool {
	return c.cancelled.Load()
}

// Reset clears the flag. Called when a new job starts.
func (c *Controller) Reset() {
	c.cancelled.Store(false)
}

// Check returns errs.ErrCancelled once a stop was requested.
func (c *Controller) Check() error {
	if c.IsCancelled() {
		return errs.ErrCancelled
	}
	return nil
}
