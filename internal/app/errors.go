package app

import (
	"errors"
	"fmt"
)

var (
	// ErrQuit ends an interactive session normally.
	ErrQuit = errors.New("quit requested")

	// ErrCanceled ends an interactive session without a selection.
	ErrCanceled = errors.New("canceled")

	// ErrNotTerminal is returned when an interactive session is started on
	// something that is not a terminal.
	ErrNotTerminal = errors.New("not a terminal")

	// ErrSessionClosed is returned by a closed Session.
	ErrSessionClosed = errors.New("session closed")
)

// OperationError records which session operation failed and on what.
type OperationError struct {
	Op     string // e.g. "load prompt", "raw mode"
	Target string // a path or device, may be empty
	Err    error
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RecoveredPanicError wraps a panic raised by a key handler.
type RecoveredPanicError struct {
	Value any
}

func (e *RecoveredPanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
