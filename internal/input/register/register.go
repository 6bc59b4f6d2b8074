package register

import (
	"unicode"

	"github.com/dshills/vimkeys/internal/input/key"
)

// Kind categorizes registers by behavior.
type Kind uint8

const (
	// Named is a named register (a-z, A-Z appends).
	Named Kind = iota

	// Numbered is the delete history (1-9).
	Numbered

	// Unnamed is the default register (").
	Unnamed

	// SmallDelete is the small delete register (-).
	SmallDelete

	// BlackHole discards what is written to it (_).
	BlackHole

	// LastInserted holds the last inserted text (.).
	LastInserted

	// FileName holds the current file name (%).
	FileName

	// Alternate holds the alternate file name (#).
	Alternate

	// Command holds the last command line (:).
	Command

	// Search holds the last search pattern (/).
	Search

	// Expression is the expression register (=).
	Expression

	// Clipboard is the system clipboard (+).
	Clipboard

	// Selection is the primary selection (*).
	Selection

	// LastYank holds the last yank (0).
	LastYank
)

// Register is one named storage slot.
type Register struct {
	Name rune
	Kind Kind

	// Text is the register content.
	Text string

	// Keys is set when the register holds a recorded macro.
	Keys key.Sequence

	// Linewise marks line-oriented content.
	Linewise bool
}

// KindOf returns the kind of the register called name.
func KindOf(name rune) Kind {
	switch {
	case name >= 'a' && name <= 'z', name >= 'A' && name <= 'Z':
		return Named
	case name == '0':
		return LastYank
	case name >= '1' && name <= '9':
		return Numbered
	case name == '-':
		return SmallDelete
	case name == '_':
		return BlackHole
	case name == '.':
		return LastInserted
	case name == '%':
		return FileName
	case name == '#':
		return Alternate
	case name == ':':
		return Command
	case name == '/':
		return Search
	case name == '=':
		return Expression
	case name == '+':
		return Clipboard
	case name == '*':
		return Selection
	}
	return Unnamed
}

// IsValid reports whether name can follow '"'.
func IsValid(name rune) bool {
	switch {
	case name == '"':
		return true
	case name >= 'a' && name <= 'z', name >= 'A' && name <= 'Z':
		return true
	case name >= '0' && name <= '9':
		return true
	}
	switch name {
	case '-', '_', '.', '%', '#', ':', '/', '=', '+', '*':
		return true
	}
	return false
}

// IsReadOnly reports whether only the editor itself writes name.
func IsReadOnly(name rune) bool {
	switch KindOf(name) {
	case LastInserted, FileName, Alternate, Command:
		return true
	}
	return false
}

// IsAppend reports whether writing to name appends (uppercase letters).
func IsAppend(name rune) bool {
	return name >= 'A' && name <= 'Z'
}

// Normalize maps an appending register to the one it appends to.
func Normalize(name rune) rune {
	if IsAppend(name) {
		return unicode.ToLower(name)
	}
	return name
}
