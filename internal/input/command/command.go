package command

import (
	"fmt"
	"strings"

	"github.com/dshills/vimkeys/internal/input/key"
)

// Command is a fully typed command ready for an executor. It is built once
// by Builder.Build and must not be modified afterwards.
type Command struct {
	// RawCount is the count typed by the user; 0 means none was typed.
	RawCount int

	// Action is the matched action. Nil only for register parts.
	Action *Action

	// Type is copied from the action.
	Type Type

	// Flags is copied from the action.
	Flags Flags

	// Argument is the trailing argument, nil when the action takes none.
	Argument *Argument

	// Register is the register selected with '"', 0 for the default.
	Register rune

	// Keys are the keys typed for this command.
	Keys key.Sequence
}

// Count returns the effective count, at least 1.
func (c *Command) Count() int {
	if c.RawCount < 1 {
		return 1
	}
	return c.RawCount
}

// Motion returns the motion argument, or nil.
func (c *Command) Motion() *Command {
	if c.Argument == nil || c.Argument.Kind != ArgMotion {
		return nil
	}
	return c.Argument.Motion
}

// String returns a compact description such as "3 operator.delete(motion.word)".
func (c *Command) String() string {
	var b strings.Builder
	if c.Register != 0 {
		fmt.Fprintf(&b, "\"%c ", c.Register)
	}
	if c.RawCount > 0 {
		fmt.Fprintf(&b, "%d ", c.RawCount)
	}
	if c.Action != nil {
		b.WriteString(c.Action.ID)
	} else {
		b.WriteString(c.Type.String())
	}
	if c.Argument != nil {
		b.WriteString("(" + c.Argument.String() + ")")
	}
	return b.String()
}

// Argument is the trailing argument of a command. It holds exactly one of
// a motion, a character or a command-line string, as told by Kind. Use
// MotionArgument, CharArgument or ExStringArgument to build one.
type Argument struct {
	Kind ArgumentType

	// Motion is set for ArgMotion.
	Motion *Command

	// Char is set for ArgCharacter.
	Char rune

	// Text is set for ArgExString.
	Text string
}

// MotionArgument wraps a motion command.
func MotionArgument(motion *Command) *Argument {
	return &Argument{Kind: ArgMotion, Motion: motion}
}

// CharArgument wraps a character.
func CharArgument(r rune) *Argument {
	return &Argument{Kind: ArgCharacter, Char: r}
}

// ExStringArgument wraps a command-line string.
func ExStringArgument(text string) *Argument {
	return &Argument{Kind: ArgExString, Text: text}
}

// String returns the argument in a readable form.
func (a *Argument) String() string {
	switch a.Kind {
	case ArgMotion:
		if a.Motion == nil {
			return "<nil>"
		}
		return a.Motion.String()
	case ArgCharacter, ArgDigraph:
		return fmt.Sprintf("%q", a.Char)
	case ArgExString:
		return fmt.Sprintf("%q", a.Text)
	}
	return ""
}
