package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Stroke is a single key press: a key code, a modifier mask and, for
// character keys, the character. Strokes are comparable and are used
// directly as map and trie keys.
type Stroke struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune strokes.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRune creates a character stroke. Shift is folded into the character
// for runes, so "A" and "Shift+a" produce the same stroke.
func NewRune(r rune, mods Modifier) Stroke {
	if mods.HasShift() && !mods.HasCtrl() {
		r = unicode.ToUpper(r)
	}
	mods = mods.Without(ModShift)
	if mods.HasCtrl() {
		r = unicode.ToLower(r)
	}
	return Stroke{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecial creates a stroke for a non-character key.
func NewSpecial(k Key, mods Modifier) Stroke {
	return Stroke{Key: k, Modifiers: mods}
}

// Char is shorthand for an unmodified character stroke.
func Char(r rune) Stroke {
	return Stroke{Key: KeyRune, Rune: r}
}

// Ctrl is shorthand for a control-character stroke such as <C-w>.
func Ctrl(r rune) Stroke {
	return NewRune(r, ModCtrl)
}

// Common strokes used by the dispatcher.
var (
	Escape    = NewSpecial(KeyEscape, ModNone)
	Enter     = NewSpecial(KeyEnter, ModNone)
	Tab       = NewSpecial(KeyTab, ModNone)
	Backspace = NewSpecial(KeyBackspace, ModNone)
	Delete    = NewSpecial(KeyDelete, ModNone)
	Plug      = NewSpecial(KeyPlug, ModNone)
)

// IsZero reports whether s is the zero stroke.
func (s Stroke) IsZero() bool {
	return s == Stroke{}
}

// IsRune returns true if this is a character stroke.
func (s Stroke) IsRune() bool {
	return s.Key == KeyRune && s.Rune != 0
}

// IsModified returns true if Ctrl, Alt or Meta is held.
func (s Stroke) IsModified() bool {
	return s.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
}

// IsDigit returns true for an unmodified '0'-'9'.
func (s Stroke) IsDigit() bool {
	return s.IsRune() && !s.IsModified() && s.Rune >= '0' && s.Rune <= '9'
}

// Char returns the character this stroke produces when typed as text.
// Tab and Enter produce their control characters. Modified runes and
// other special keys produce nothing.
func (s Stroke) Char() (rune, bool) {
	switch {
	case s.Key == KeyTab && s.Modifiers == ModNone:
		return '\t', true
	case s.Key == KeyEnter && s.Modifiers == ModNone:
		return '\n', true
	case s.IsRune() && !s.IsModified():
		return s.Rune, true
	}
	return 0, false
}

// IsEscape returns true for <Esc> with no modifiers.
func (s Stroke) IsEscape() bool {
	return s.Key == KeyEscape && s.Modifiers == ModNone
}

// IsClose returns true for the keys that abandon a pending command:
// <Esc>, <C-[> and <C-c>.
func (s Stroke) IsClose() bool {
	return s.IsEscape() || s == Ctrl('[') || s == Ctrl('c')
}

// String returns the Vim notation for the stroke.
// Examples: "a", "<Esc>", "<C-w>", "<S-Tab>", "<lt>", "<Space>".
func (s Stroke) String() string {
	if s.IsRune() && !s.IsModified() {
		switch s.Rune {
		case '<':
			return "<lt>"
		case ' ':
			return "<Space>"
		case '|':
			return "<Bar>"
		}
		if s.Rune < ' ' {
			return "<C-" + string(s.Rune+'`') + ">"
		}
		return string(s.Rune)
	}

	var sb strings.Builder
	sb.WriteByte('<')
	if s.Modifiers.HasCtrl() {
		sb.WriteString("C-")
	}
	if s.Modifiers.HasAlt() {
		sb.WriteString("A-")
	}
	if s.Modifiers.HasMeta() {
		sb.WriteString("D-")
	}
	if s.Modifiers.HasShift() && !s.IsRune() {
		sb.WriteString("S-")
	}
	switch {
	case s.IsRune() && s.Rune == ' ':
		sb.WriteString("Space")
	case s.IsRune():
		sb.WriteRune(s.Rune)
	default:
		sb.WriteString(s.Key.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

// Printable renders the stroke the way a showcmd area does: control
// characters in caret notation, everything else in Vim notation.
func (s Stroke) Printable() string {
	switch {
	case s.IsRune() && !s.IsModified() && s.Rune < ' ':
		return "^" + string(s.Rune+'@')
	case s.IsRune() && s.Modifiers == ModCtrl:
		return "^" + string(unicode.ToUpper(s.Rune))
	case s == Escape:
		return "^["
	case s == Enter:
		return "^M"
	case s == Tab:
		return "^I"
	case s.IsRune() && !s.IsModified():
		return string(s.Rune)
	}
	return s.String()
}

// GoString implements fmt.GoStringer for debugging.
func (s Stroke) GoString() string {
	return fmt.Sprintf("Stroke{Key: %s, Rune: %q, Modifiers: %s}",
		s.Key.String(), s.Rune, s.Modifiers.String())
}
