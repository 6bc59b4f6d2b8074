package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the event loop is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNotAnEditorCommand is shown for unknown command lines.
	ErrNotAnEditorCommand = errors.New("E492: Not an editor command")
)

// InitError reports a component that failed during startup.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// RecoveredPanicError wraps a panic value as an error.
type RecoveredPanicError struct {
	Value any
	Stack string
}

func (e *RecoveredPanicError) Error() string {
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}
