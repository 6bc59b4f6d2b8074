package command

import "strings"

// Type tags a command with the kind of transaction it runs in.
type Type uint8

const (
	// TypeOther commands neither read nor change text (mode changes, UI).
	TypeOther Type = iota

	// TypeMotion commands move the cursor. They run as reads and are the
	// only commands accepted as a motion argument.
	TypeMotion

	// TypeWrite commands change text and become the last change.
	TypeWrite

	// TypeRead commands read text without changing it (yank).
	TypeRead

	// TypeSelectRegister is the register part of a multi-part command.
	// It never reaches an executor.
	TypeSelectRegister
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeMotion:
		return "motion"
	case TypeWrite:
		return "write"
	case TypeRead:
		return "read"
	case TypeSelectRegister:
		return "select-register"
	}
	return "other"
}

// IsWrite reports whether the command changes text.
func (t Type) IsWrite() bool { return t == TypeWrite }

// IsRead reports whether the command only reads text. Motions read.
func (t Type) IsRead() bool { return t == TypeRead || t == TypeMotion }

// Flags is a set of behavior tags.
type Flags uint16

const (
	// FlagExpectMore keeps a single-command normal mode (<C-o>) active
	// after the command runs.
	FlagExpectMore Flags = 1 << iota

	// FlagExitVisual leaves visual mode after the command.
	FlagExitVisual

	// FlagSaveJump records the cursor position in the jump list.
	FlagSaveJump

	// FlagCompleteEx marks the key that finishes command-line entry.
	FlagCompleteEx

	// FlagCancelEx marks the key that abandons command-line entry.
	FlagCancelEx

	// FlagLinewise makes a motion operate on whole lines.
	FlagLinewise

	// FlagStopRecording is set on the command that ends macro recording;
	// while recording it completes without waiting for an argument.
	FlagStopRecording

	// FlagReplaceChar marks commands that wait for a replacement
	// character (r). The cursor changes shape while they wait.
	FlagReplaceChar

	// FlagStartDigraph starts a <C-k> digraph when the command is matched.
	FlagStartDigraph

	// FlagStartLiteral starts a <C-v> literal when the command is matched.
	FlagStartLiteral
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagExpectMore, "expect-more"},
	{FlagExitVisual, "exit-visual"},
	{FlagSaveJump, "save-jump"},
	{FlagCompleteEx, "complete-ex"},
	{FlagCancelEx, "cancel-ex"},
	{FlagLinewise, "linewise"},
	{FlagStopRecording, "stop-recording"},
	{FlagReplaceChar, "replace-char"},
	{FlagStartDigraph, "start-digraph"},
	{FlagStartLiteral, "start-literal"},
}

// Has reports whether every flag in f2 is set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// String returns the set flags joined with "|".
func (f Flags) String() string {
	var parts []string
	for _, n := range flagNames {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ArgumentType is the argument a command declares it needs.
type ArgumentType uint8

const (
	// ArgNone means the command is complete once matched.
	ArgNone ArgumentType = iota

	// ArgMotion waits for a motion command (operators).
	ArgMotion

	// ArgCharacter waits for one character (f, t, r).
	ArgCharacter

	// ArgDigraph waits for one character that may also be entered as a
	// digraph or literal.
	ArgDigraph

	// ArgExString waits for a line typed in command-line mode (/, ?).
	ArgExString
)

// String returns the argument type name.
func (a ArgumentType) String() string {
	switch a {
	case ArgMotion:
		return "motion"
	case ArgCharacter:
		return "character"
	case ArgDigraph:
		return "digraph"
	case ArgExString:
		return "ex-string"
	}
	return "none"
}

// Strategy selects how a command is run across multiple cursors.
type Strategy uint8

const (
	// StrategySingle runs the command once.
	StrategySingle Strategy = iota

	// StrategyPerCaret runs the command once per cursor.
	StrategyPerCaret

	// StrategyConditional runs once for a block selection and once per
	// cursor otherwise.
	StrategyConditional
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyPerCaret:
		return "per-caret"
	case StrategyConditional:
		return "conditional"
	}
	return "single"
}

// Action is the static description of a command bound to a trie leaf.
// Actions are shared and must not be modified once registered.
type Action struct {
	// ID names the action for the executor, e.g. "motion.down".
	ID string

	// Type is the transaction type of the command.
	Type Type

	// Flags are the static behavior tags.
	Flags Flags

	// Argument is the argument the command waits for.
	Argument ArgumentType

	// DuplicateWith is the key that, typed right after this operator,
	// means "current line" (d for dd). Zero for non-operators.
	DuplicateWith rune

	// Strategy selects the multi-cursor execution strategy.
	Strategy Strategy

	// Description is shown in listings.
	Description string
}

// String returns the action ID.
func (a *Action) String() string {
	if a == nil {
		return "<nil>"
	}
	return a.ID
}
