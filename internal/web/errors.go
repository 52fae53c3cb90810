package web

import (
	"fmt"
	"time"
)

// SessionClosedError occurs when dispatching to a torn-down session.
type SessionClosedError struct {
	SessionID string
}

func (e *SessionClosedError) Error() string {
	return fmt.Sprintf("session '%s' is closed", e.SessionID)
}

// QueueFullError occurs when a session's outbound buffer is exhausted,
// normally because no browser is draining it.
type QueueFullError struct {
	SessionID string
	Capacity  int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("session '%s' outbound queue full (capacity %d)", e.SessionID, e.Capacity)
}

// EvalTimeoutError occurs when the browser does not post an evaluation
// result within the session's timeout.
type EvalTimeoutError struct {
	SessionID string
	CallID    string
	Duration  time.Duration
}

func (e *EvalTimeoutError) Error() string {
	return fmt.Sprintf("session '%s': evaluation %s timed out after %v", e.SessionID, e.CallID, e.Duration)
}

// EvalRejectedError occurs when the browser-side evaluation threw.
type EvalRejectedError struct {
	SessionID string
	CallID    string
	Reason    string
}

func (e *EvalRejectedError) Error() string {
	return fmt.Sprintf("session '%s': evaluation %s rejected: %s", e.SessionID, e.CallID, e.Reason)
}
