package event

import (
	"errors"
	"fmt"
)

// ErrEmptyEventName is returned when an event name is empty.
var ErrEmptyEventName = errors.New("event name must not be empty")

// ErrNilListener is returned when a nil listener is attached.
var ErrNilListener = errors.New("listener must not be nil")

// ErrNilAggregate is returned when a nil aggregate is attached.
var ErrNilAggregate = errors.New("aggregate must not be nil")

// ListenerError wraps a failure raised by a listener during a trigger
// round. The round is aborted and the error is returned to the trigger
// caller; the dispatch engine never swallows or retries listener failures.
type ListenerError struct {
	EventName string // Event being dispatched
	Priority  int    // Priority of the failing listener
	Err       error  // The listener's error, unchanged
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return fmt.Sprintf("event %s: listener (priority %d) failed: %v", e.EventName, e.Priority, e.Err)
}

// Unwrap returns the listener's original error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}
