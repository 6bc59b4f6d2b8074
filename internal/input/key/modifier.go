package key

import "strings"

// Modifier is a bitmask of held modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS).
	ModMeta
)

// Has returns true if m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

func (m Modifier) HasShift() bool { return m.Has(ModShift) }
func (m Modifier) HasCtrl() bool  { return m.Has(ModCtrl) }
func (m Modifier) HasAlt() bool   { return m.Has(ModAlt) }
func (m Modifier) HasMeta() bool  { return m.Has(ModMeta) }

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns m with mod removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// String returns a human-readable form like "Ctrl+Alt".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var parts []string
	if m.HasCtrl() {
		parts = append(parts, "Ctrl")
	}
	if m.HasAlt() {
		parts = append(parts, "Alt")
	}
	if m.HasShift() {
		parts = append(parts, "Shift")
	}
	if m.HasMeta() {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// modifierNames maps lowercase modifier names, long and Vim-style, to
// modifiers.
var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"a":       ModAlt,
	"m":       ModAlt, // Vim's <M-x> is Alt
	"shift":   ModShift,
	"s":       ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"super":   ModMeta,
	"d":       ModMeta,
}

// ModifierFromName returns the modifier for name (case-insensitive), or
// ModNone if unknown.
func ModifierFromName(name string) Modifier {
	return modifierNames[strings.ToLower(strings.TrimSpace(name))]
}
