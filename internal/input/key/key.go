package key

import (
	"fmt"
	"strconv"
	"strings"
)

// Key identifies a keyboard key.
// Character keys use KeyRune with the character stored in Stroke.Rune.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// KeyPlug is the sentinel that starts plugin-internal sequences such as
	// "<Plug>(surround)". It is never produced by a keyboard.
	KeyPlug

	// KeyRune is used for character keys (letters, digits, punctuation).
	KeyRune
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyEscape:    "Esc",
	KeyEnter:     "CR",
	KeyTab:       "Tab",
	KeyBackspace: "BS",
	KeyDelete:    "Del",
	KeyInsert:    "Insert",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyPlug:      "Plug",
	KeyRune:      "Rune",
}

// String returns the Vim name of the key without brackets.
func (k Key) String() string {
	if k.IsFunctionKey() {
		return fmt.Sprintf("F%d", int(k-KeyF1)+1)
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsSpecial returns true if this is a special (non-character) key.
func (k Key) IsSpecial() bool {
	return k != KeyNone && k != KeyRune
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// keyNameMap maps lowercase key names and Vim aliases to keys.
var keyNameMap = map[string]Key{
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"cr":        KeyEnter,
	"nl":        KeyEnter,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"insert":    KeyInsert,
	"ins":       KeyInsert,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pgup":      KeyPageUp,
	"pagedown":  KeyPageDown,
	"pgdn":      KeyPageDown,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"plug":      KeyPlug,
}

// KeyFromName returns the Key for a name (case-insensitive).
// Returns KeyNone if the name is not recognized.
func KeyFromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNameMap[name]; ok {
		return k
	}
	if len(name) >= 2 && name[0] == 'f' {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 1 && n <= 12 {
			return KeyF1 + Key(n-1)
		}
	}
	return KeyNone
}
