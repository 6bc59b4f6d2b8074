// Package loader decodes mapping files into Go values.
//
// The format follows the file extension: .toml, or .yaml and .yml.
// Unknown keys are errors in both formats, and every decode failure is a
// *ParseError carrying the position when the format reports one.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format is a configuration file syntax.
type Format uint8

const (
	FormatTOML Format = iota + 1
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf returns the format of path by its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Loader reads and decodes configuration files.
type Loader struct {
	fs FileSystem
}

// New creates a loader reading from the OS file system.
func New() *Loader {
	return &Loader{fs: DefaultFS()}
}

// NewWithFS creates a loader with a custom file system.
func NewWithFS(fsys FileSystem) *Loader {
	return &Loader{fs: fsys}
}

// Load decodes the file at path into v. It reports false, and leaves v
// alone, when the file does not exist.
func (l *Loader) Load(path string, v any) (bool, error) {
	format, err := FormatOf(path)
	if err != nil {
		return false, err
	}
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return true, Decode(format, path, data, v)
}

// Decode decodes data in the given format into v. Source names the data
// in errors.
func Decode(format Format, source string, data []byte, v any) error {
	switch format {
	case FormatTOML:
		return decodeTOML(source, data, v)
	case FormatYAML:
		return decodeYAML(source, data, v)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Column is the column number where the error occurred (if available).
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
