package config

import (
	"fmt"
	"sort"

	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mapping"
	"github.com/dshills/vimkeys/internal/input/mode"
)

// DefaultGroup owns map entries that name no owner.
const DefaultGroup = "config"

// MapSpec is one [[map]] entry as written in a file.
type MapSpec struct {
	// Cmd is a :map family command such as "nnoremap" or "map!".
	Cmd string `toml:"cmd" yaml:"cmd"`

	// Modes are mode letters ("nvo", "i") used when Cmd is empty.
	Modes   string `toml:"modes" yaml:"modes"`
	NoRemap bool   `toml:"noremap" yaml:"noremap"`

	From string `toml:"from" yaml:"from"`
	To   string `toml:"to" yaml:"to"`

	// Lua is a chunk run instead of To keys.
	Lua string `toml:"lua" yaml:"lua"`

	Description string `toml:"description" yaml:"description"`

	// Owner groups entries; each group is replaced as a unit on reload.
	Owner string `toml:"owner" yaml:"owner"`
}

// HandlerCompiler turns Lua sources into mapping handlers.
type HandlerCompiler interface {
	Compile(name, source string) (mapping.Handler, error)
}

type resolved struct {
	modes     mode.MappingModes
	recursive bool
	from      key.Sequence
	to        key.Sequence
}

func (m *MapSpec) resolve() (resolved, error) {
	var r resolved
	var err error

	switch {
	case m.Cmd != "":
		r.modes, r.recursive, err = mode.ParseMapCommand(m.Cmd)
		if err != nil {
			return r, fmt.Errorf("%w: %v", ErrUnknownMode, err)
		}
	case m.Modes != "":
		r.modes, err = mode.ParseModeLetters(m.Modes)
		if err != nil {
			return r, fmt.Errorf("%w: %v", ErrUnknownMode, err)
		}
		r.recursive = !m.NoRemap
	default:
		r.modes, r.recursive = mode.NVOModes, !m.NoRemap
	}
	if r.modes == mode.NoModes {
		return r, fmt.Errorf("%w: empty mode set", ErrUnknownMode)
	}

	if m.From == "" {
		return r, fmt.Errorf("%w: missing from", ErrInvalidMapping)
	}
	if (m.To == "") == (m.Lua == "") {
		return r, fmt.Errorf("%w: needs exactly one of to and lua", ErrInvalidMapping)
	}
	if r.from, err = key.ParseSequence(m.From); err != nil {
		return r, fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}
	if m.To != "" {
		if r.to, err = key.ParseSequence(m.To); err != nil {
			return r, fmt.Errorf("%w: %w", ErrInvalidMapping, err)
		}
	}
	return r, nil
}

// Group returns the owner group of the entry.
func (m *MapSpec) Group() string {
	if m.Owner == "" {
		return DefaultGroup
	}
	return m.Owner
}

// Entries converts the file's map entries into mapping entries grouped by
// owner group. Lua entries need a compiler; c may be nil when there are
// none. Owners are left for the caller to assign.
func (f *File) Entries(c HandlerCompiler) (map[string][]mapping.Entry, error) {
	groups := make(map[string][]mapping.Entry)
	for i := range f.Maps {
		spec := &f.Maps[i]
		r, err := spec.resolve()
		if err != nil {
			return nil, &MappingError{Path: f.Path, Index: i, From: spec.From, Err: err}
		}

		e := mapping.Entry{
			From:        r.from,
			To:          r.to,
			Recursive:   r.recursive,
			Modes:       r.modes,
			Description: spec.Description,
		}
		if spec.Lua != "" {
			if c == nil {
				return nil, &MappingError{Path: f.Path, Index: i, From: spec.From, Err: ErrNoHandlers}
			}
			name := fmt.Sprintf("%s#%d", f.Path, i)
			h, err := c.Compile(name, spec.Lua)
			if err != nil {
				return nil, &MappingError{Path: f.Path, Index: i, From: spec.From, Err: err}
			}
			e.Handler = h
			e.HandlerName = "lua"
			if spec.Description != "" {
				e.HandlerName = "lua: " + spec.Description
			}
		}
		groups[spec.Group()] = append(groups[spec.Group()], e)
	}
	return groups, nil
}

// Groups returns the owner groups used by the file, sorted.
func (f *File) Groups() []string {
	seen := make(map[string]bool)
	var out []string
	for i := range f.Maps {
		g := f.Maps[i].Group()
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}
