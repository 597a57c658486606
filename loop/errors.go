package loop

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotRegistered is returned when a loop in process mode, or a timeout
// wrapper, is given a work function that was not built with [Register].
// Worker processes can only find work by registered name; bare closures
// cannot cross the process boundary.
var ErrNotRegistered = errors.New("work function not registered for process execution")

// SubmitError reports a task unit that could not be handed to a worker
// process because its task or environment value is not transferable by
// value. It is raised when the unit is submitted, never after completion.
type SubmitError struct {
	Index int
	Err   error
}

// Error includes the task index, or omits it for failures that precede
// any task (Index < 0, e.g. an untransferable broadcast environment).
func (e *SubmitError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("submit: %v", e.Err)
	}
	return fmt.Sprintf("submit task %d: %v", e.Index, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// TimeoutError is returned by a [WithTimeout] wrapper after its worker
// process has been killed for exceeding the deadline.
type TimeoutError struct {
	Message  string
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("call timed out after %v", e.Duration)
	}
	return fmt.Sprintf("call timed out after %v: %s", e.Duration, e.Message)
}

// Timeout reports that this error is a timeout, following the convention
// of [net.Error].
func (e *TimeoutError) Timeout() bool { return true }
