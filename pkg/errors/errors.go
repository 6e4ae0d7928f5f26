package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies a failure by the scope it is allowed to reach
type ErrorType string

const (
	ErrorTypeLaunch      ErrorType = "launch"
	ErrorTypeNavigation  ErrorType = "navigation"
	ErrorTypeInteraction ErrorType = "interaction"
	ErrorTypeFlush       ErrorType = "flush"
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeUnknown     ErrorType = "unknown"
)

var (
	// ErrCancelled unwinds a running job after a pause request. It is a
	// control-flow signal, not a failure.
	ErrCancelled = errors.New("scrape cancelled")

	// ErrBusy is returned when a run is requested while another job is running.
	ErrBusy = errors.New("a scrape job is already running")

	// ErrAlreadyFlushed is returned by a sink that has already written its artifact.
	ErrAlreadyFlushed = errors.New("record buffer already flushed")
)

// Error is a typed failure raised by the browser facade or the record sink
type Error struct {
	Type   ErrorType
	Op     string
	Target string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Type, e.Op)
	if e.Target != "" {
		msg += " " + e.Target
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Launch wraps a failure to start the browser.
func Launch(op string, err error) error {
	return &Error{Type: ErrorTypeLaunch, Op: op, Err: err}
}

// Navigation wraps a failure to load url.
func Navigation(url string, err error) error {
	return &Error{Type: ErrorTypeNavigation, Op: "navigate", Target: url, Err: err}
}

// Interaction wraps a failure to act on locator.
func Interaction(op, locator string, err error) error {
	return &Error{Type: ErrorTypeInteraction, Op: op, Target: locator, Err: err}
}

// Flush wraps a failure to persist an artifact at path.
func Flush(path string, err error) error {
	return &Error{Type: ErrorTypeFlush, Op: "flush", Target: path, Err: err}
}

// Config wraps an invalid configuration or command payload.
func Config(op string, err error) error {
	return &Error{Type: ErrorTypeConfig, Op: op, Err: err}
}

// TypeOf returns the ErrorType of the first typed error in err's chain
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err carries the given type
func IsType(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// IsFatal reports whether an error must end the job instead of being
// contained at the page or leaf that raised it
func IsFatal(err error) bool {
	if err == nil || errors.Is(err, ErrCancelled) {
		return false
	}
	switch TypeOf(err) {
	case ErrorTypeNavigation, ErrorTypeInteraction:
		return false
	default:
		return true
	}
}
