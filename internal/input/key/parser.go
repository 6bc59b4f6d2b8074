package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a single key specification.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Vim notation: "<C-s>", "<A-f>", "<S-Tab>", "<CR>", "<Esc>", "<lt>"
//   - Modifier style: "Ctrl+S", "Alt+F4"
//   - Key names: "Enter", "Escape", "Tab", "F5"
func Parse(spec string) (Stroke, error) {
	if spec == "" {
		return Stroke{}, ErrEmptySpec
	}
	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		return Char(r), nil
	}
	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseBracketed(spec[1 : len(spec)-1])
	}
	if strings.Contains(spec, "+") {
		return parseJoined(strings.Split(spec, "+"))
	}
	return parseKey(spec, ModNone)
}

// parseBracketed parses the inside of Vim notation like "C-s" or "CR".
func parseBracketed(inner string) (Stroke, error) {
	if inner == "" {
		return Stroke{}, ErrInvalidSpec
	}
	// "<C-->" and "<->" keep the trailing hyphen as the key.
	var parts []string
	if strings.HasSuffix(inner, "--") {
		parts = append(strings.Split(inner[:len(inner)-2], "-"), "-")
	} else if inner == "-" {
		parts = []string{"-"}
	} else {
		parts = strings.Split(inner, "-")
	}
	return parseJoined(parts)
}

func parseJoined(parts []string) (Stroke, error) {
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Stroke{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKey(parts[len(parts)-1], mods)
}

// parseKey resolves a key name or single character with known modifiers.
func parseKey(name string, mods Modifier) (Stroke, error) {
	if name == "" {
		return Stroke{}, ErrInvalidSpec
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return NewRune(r, mods), nil
	}

	switch strings.ToLower(name) {
	case "space":
		return NewRune(' ', mods), nil
	case "lt":
		return NewRune('<', mods), nil
	case "gt":
		return NewRune('>', mods), nil
	case "bar":
		return NewRune('|', mods), nil
	case "bslash":
		return NewRune('\\', mods), nil
	case "nul":
		return NewRune('@', ModCtrl), nil
	}

	if k := KeyFromName(name); k != KeyNone {
		return NewSpecial(k, mods), nil
	}
	return Stroke{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, name)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Stroke {
	s, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return s
}
