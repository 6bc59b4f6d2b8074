package config

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/vimkeys/internal/config/loader"
	"github.com/dshills/vimkeys/internal/input"
	"github.com/dshills/vimkeys/internal/input/register"
)

// Clipboard providers selectable by the clipboard setting.
const (
	ClipboardMemory = "memory"
	ClipboardSystem = "system"
)

// Settings are the input options of a configuration file. Nil fields
// keep the dispatcher defaults.
type Settings struct {
	MaxMapDepth *int `toml:"maxmapdepth" yaml:"maxmapdepth"`

	// TimeoutLen is in milliseconds.
	TimeoutLen *int  `toml:"timeoutlen" yaml:"timeoutlen"`
	Timeout    *bool `toml:"timeout" yaml:"timeout"`
	ShowCmd    *bool `toml:"showcmd" yaml:"showcmd"`

	// Clipboard is "memory" (default) or "system".
	Clipboard string `toml:"clipboard" yaml:"clipboard"`

	// LogLevel is a logrus level name.
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// File is the content of one configuration file.
type File struct {
	// Path is where the file was loaded from.
	Path string `toml:"-" yaml:"-"`

	Settings Settings  `toml:"settings" yaml:"settings"`
	Maps     []MapSpec `toml:"map" yaml:"map"`
}

// Load reads and validates the file at path. A missing file yields an
// empty configuration.
func Load(path string) (*File, error) {
	return LoadWithLoader(loader.New(), path)
}

// LoadWithLoader is Load reading through l.
func LoadWithLoader(l *loader.Loader, path string) (*File, error) {
	f := &File{Path: path}
	if _, err := l.Load(path, f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Parse decodes and validates data in the given format.
func Parse(format loader.Format, source string, data []byte) (*File, error) {
	f := &File{Path: source}
	if err := loader.Decode(format, source, data, f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks settings ranges and that every map entry names its
// modes and keys correctly. Lua sources are not compiled here.
func (f *File) Validate() error {
	s := f.Settings
	if s.MaxMapDepth != nil && *s.MaxMapDepth < 1 {
		return &ValidationError{Path: "settings.maxmapdepth", Message: "must be at least 1", Value: *s.MaxMapDepth}
	}
	if s.TimeoutLen != nil && *s.TimeoutLen < 0 {
		return &ValidationError{Path: "settings.timeoutlen", Message: "must not be negative", Value: *s.TimeoutLen}
	}
	switch s.Clipboard {
	case "", ClipboardMemory, ClipboardSystem:
	default:
		return &ValidationError{Path: "settings.clipboard", Message: `must be "memory" or "system"`, Value: s.Clipboard}
	}
	if s.LogLevel != "" {
		if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
			return &ValidationError{Path: "settings.log_level", Message: err.Error(), Value: s.LogLevel}
		}
	}

	for i := range f.Maps {
		if _, err := f.Maps[i].resolve(); err != nil {
			return &MappingError{Path: f.Path, Index: i, From: f.Maps[i].From, Err: err}
		}
	}
	return nil
}

// InputConfig returns the dispatcher configuration, starting from
// input.DefaultConfig.
func (f *File) InputConfig() input.Config {
	cfg := input.DefaultConfig()
	s := f.Settings
	if s.MaxMapDepth != nil {
		cfg.MaxMapDepth = *s.MaxMapDepth
	}
	if s.TimeoutLen != nil {
		cfg.TimeoutLen = time.Duration(*s.TimeoutLen) * time.Millisecond
	}
	if s.Timeout != nil {
		cfg.Timeout = *s.Timeout
	}
	if s.ShowCmd != nil {
		cfg.ShowCmd = *s.ShowCmd
	}
	return cfg
}

// ClipboardProvider returns the provider for the + and * registers. The
// system clipboard falls back to memory when no clipboard tool exists.
func (f *File) ClipboardProvider() register.ClipboardProvider {
	if f.Settings.Clipboard == ClipboardSystem && register.SystemClipboardAvailable() {
		return register.SystemClipboard{}
	}
	return &register.MemoryClipboard{}
}

// LogLevel returns the configured level, or fallback when unset.
func (f *File) LogLevel(fallback logrus.Level) logrus.Level {
	if f.Settings.LogLevel == "" {
		return fallback
	}
	lvl, err := logrus.ParseLevel(f.Settings.LogLevel)
	if err != nil {
		return fallback
	}
	return lvl
}
