package config

import (
	"errors"
	"fmt"

	"github.com/dshills/vimkeys/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownMode indicates a map entry with unknown modes or command.
	ErrUnknownMode = errors.New("unknown mapping mode")

	// ErrInvalidMapping indicates a map entry that cannot become a mapping.
	ErrInvalidMapping = errors.New("invalid mapping")

	// ErrValidationFailed indicates a setting outside its allowed values.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNoHandlers indicates a Lua mapping loaded without a compiler.
	ErrNoHandlers = errors.New("no handler compiler for lua mapping")
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError

// ValidationError describes a setting with a bad value.
type ValidationError struct {
	// Path is the setting path, e.g. "settings.timeoutlen".
	Path    string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Is implements error matching for ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// MappingError locates a bad map entry in its file.
type MappingError struct {
	Path string
	// Index is the position of the entry in the file, from zero.
	Index int
	From  string
	Err   error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s: map entry %d (%q): %v", e.Path, e.Index, e.From, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}
