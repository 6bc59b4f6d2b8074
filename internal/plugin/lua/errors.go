package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrBusy is returned when a handler runs while another is running.
	ErrBusy = errors.New("lua handler already running")
)

// ChunkError reports a failure compiling or running a named chunk.
type ChunkError struct {
	Name string
	Err  error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("lua %s: %v", e.Name, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
