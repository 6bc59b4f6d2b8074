package mapping

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mode"
)

// Owner identifies who registered a mapping, so that a config file or a
// plugin can later remove exactly its own entries.
type Owner struct {
	ID   uuid.UUID
	Name string
}

// NewOwner returns an owner with a fresh identity.
func NewOwner(name string) Owner {
	return Owner{ID: uuid.New(), Name: name}
}

// UserOwner owns mappings typed interactively.
var UserOwner = Owner{ID: uuid.Nil, Name: "user"}

func (o Owner) String() string {
	if o.Name != "" {
		return o.Name
	}
	return o.ID.String()
}

// Env is what a handler mapping may do to the input context running it.
type Env interface {
	// Feed dispatches keys as if typed, with or without remapping.
	Feed(keys key.Sequence, remap bool)

	// ShowMessage displays text to the user.
	ShowMessage(text string)

	// Mode returns the current mode.
	Mode() mode.Mode
}

// Handler is a mapping target implemented in code instead of keys.
type Handler func(env Env) error

// Entry is one mapping: From keys behave as To keys, or run Handler.
// Exactly one of To and Handler is set.
type Entry struct {
	From key.Sequence
	To   key.Sequence

	Handler Handler

	// HandlerName describes Handler in listings.
	HandlerName string

	// Recursive entries have their To keys mapped again (map, not noremap).
	Recursive bool

	Owner Owner
	Modes mode.MappingModes

	Description string
}

func (e *Entry) validate() error {
	if len(e.From) == 0 {
		return fmt.Errorf("%w: empty key sequence", ErrInvalidEntry)
	}
	if e.Modes == mode.NoModes {
		return fmt.Errorf("%w: %s has no modes", ErrInvalidEntry, e.From)
	}
	if (len(e.To) == 0) == (e.Handler == nil) {
		return fmt.Errorf("%w: %s needs exactly one of keys or handler", ErrInvalidEntry, e.From)
	}
	return nil
}

// Target returns the right-hand side as shown by :map.
func (e *Entry) Target() string {
	if e.Handler != nil {
		if e.HandlerName != "" {
			return "<handler:" + e.HandlerName + ">"
		}
		return "<handler>"
	}
	return e.To.String()
}

// String formats the entry like a :map listing line.
func (e *Entry) String() string {
	star := " "
	if !e.Recursive {
		star = "*"
	}
	return fmt.Sprintf("%-4s %-12s %s %s", e.Modes, e.From, star, e.Target())
}
