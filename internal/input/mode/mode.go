package mode

import (
	"fmt"
	"strings"
)

// Mode is an editing mode.
type Mode uint8

const (
	Normal Mode = iota
	Insert
	Replace
	Visual
	Select
	CmdLine
	OpPending
	// InsertNormal is normal mode entered for one command from insert
	// mode with <C-o>.
	InsertNormal
	InsertVisual
	InsertSelect
)

var modeNames = [...]string{
	Normal:       "normal",
	Insert:       "insert",
	Replace:      "replace",
	Visual:       "visual",
	Select:       "select",
	CmdLine:      "cmdline",
	OpPending:    "op-pending",
	InsertNormal: "insert-normal",
	InsertVisual: "insert-visual",
	InsertSelect: "insert-select",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// MappingMode returns the mapping and trie class used for keys typed in m.
func (m Mode) MappingMode() MappingMode {
	switch m {
	case Normal, InsertNormal:
		return MapNormal
	case Insert, Replace:
		return MapInsert
	case Visual, InsertVisual:
		return MapVisual
	case Select, InsertSelect:
		return MapSelect
	case CmdLine:
		return MapCmdLine
	case OpPending:
		return MapOpPending
	}
	return MapNormal
}

// CursorStyle returns the cursor shape shown in m.
func (m Mode) CursorStyle() CursorStyle {
	switch m {
	case Insert, Select, InsertSelect, CmdLine:
		return CursorBar
	case Replace, OpPending:
		return CursorUnderline
	}
	return CursorBlock
}

// SubMode refines visual and select modes.
type SubMode uint8

const (
	SubNone SubMode = iota
	SubVisualChar
	SubVisualLine
	SubVisualBlock
)

func (s SubMode) String() string {
	switch s {
	case SubVisualChar:
		return "char"
	case SubVisualLine:
		return "line"
	case SubVisualBlock:
		return "block"
	}
	return "none"
}

// Frame is one entry of the mode stack.
type Frame struct {
	Mode    Mode
	SubMode SubMode
}

func (f Frame) String() string {
	return f.Mode.String() + ":" + f.SubMode.String()
}

// Status returns the text a status line shows for the frame, such as
// "INSERT" or "-- VISUAL LINE --". Normal mode shows nothing.
func (f Frame) Status() string {
	var prefix string
	switch f.Mode {
	case InsertNormal:
		return "-- (insert) --"
	case Insert:
		return "INSERT"
	case Replace:
		return "REPLACE"
	case Visual:
		prefix = "-- VISUAL"
	case Select:
		prefix = "-- SELECT"
	case InsertVisual:
		prefix = "-- (insert) VISUAL"
	case InsertSelect:
		prefix = "-- (insert) SELECT"
	default:
		return ""
	}
	switch f.SubMode {
	case SubVisualLine:
		prefix += " LINE"
	case SubVisualBlock:
		prefix += " BLOCK"
	}
	return prefix + " --"
}

// CursorStyle defines the visual appearance of the cursor.
type CursorStyle uint8

const (
	// CursorBlock is a full-cell block cursor (normal mode).
	CursorBlock CursorStyle = iota

	// CursorBar is a thin vertical bar cursor (insert mode).
	CursorBar

	// CursorUnderline is an underline cursor.
	CursorUnderline
)

func (c CursorStyle) String() string {
	switch c {
	case CursorBar:
		return "bar"
	case CursorUnderline:
		return "underline"
	}
	return "block"
}

// MappingMode is a class of modes that share one mapping table and one
// command trie.
type MappingMode uint8

const (
	MapNormal MappingMode = iota
	MapVisual
	MapSelect
	MapOpPending
	MapInsert
	MapCmdLine

	numMappingModes
)

// AllMappingModes lists every mapping mode in table order.
var AllMappingModes = []MappingMode{MapNormal, MapVisual, MapSelect, MapOpPending, MapInsert, MapCmdLine}

var mappingModeLetters = [...]byte{
	MapNormal:    'n',
	MapVisual:    'x',
	MapSelect:    's',
	MapOpPending: 'o',
	MapInsert:    'i',
	MapCmdLine:   'c',
}

func (m MappingMode) String() string {
	if m < numMappingModes {
		return string(mappingModeLetters[m])
	}
	return fmt.Sprintf("MappingMode(%d)", m)
}

// MappingModes is a set of mapping modes.
type MappingModes uint8

// Mode sets used by the :map family.
const (
	NoModes MappingModes = 0

	NormalModes   = MappingModes(1 << MapNormal)
	VisualModes   = MappingModes(1<<MapVisual | 1<<MapSelect)
	XModes        = MappingModes(1 << MapVisual)
	SelectModes   = MappingModes(1 << MapSelect)
	OpModes       = MappingModes(1 << MapOpPending)
	InsertModes   = MappingModes(1 << MapInsert)
	CmdLineModes  = MappingModes(1 << MapCmdLine)
	NVOModes      = NormalModes | VisualModes | OpModes
	InsertCmdLine = InsertModes | CmdLineModes
	AllModes      = NVOModes | InsertCmdLine
)

// ModesOf builds a set from individual mapping modes.
func ModesOf(modes ...MappingMode) MappingModes {
	var set MappingModes
	for _, m := range modes {
		set |= 1 << m
	}
	return set
}

// Has reports whether m is in the set.
func (s MappingModes) Has(m MappingMode) bool {
	return s&(1<<m) != 0
}

// List returns the members of the set in table order.
func (s MappingModes) List() []MappingMode {
	var out []MappingMode
	for _, m := range AllMappingModes {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// String renders the set as mode letters, e.g. "nxso".
func (s MappingModes) String() string {
	var sb strings.Builder
	for _, m := range s.List() {
		sb.WriteString(m.String())
	}
	return sb.String()
}

// ParseMapCommand returns the mode set and recursion of a :map family
// command name such as "nnoremap", "map!" or "xmap".
func ParseMapCommand(name string) (MappingModes, bool, error) {
	bang := strings.HasSuffix(name, "!")
	name = strings.TrimSuffix(name, "!")

	prefix, rest, ok := strings.Cut(name, "map")
	if !ok || rest != "" {
		return NoModes, false, fmt.Errorf("unknown map command %q", name)
	}
	recursive := true
	if strings.HasSuffix(prefix, "nore") {
		recursive = false
		prefix = strings.TrimSuffix(prefix, "nore")
	} else if strings.HasSuffix(prefix, "no") {
		recursive = false
		prefix = strings.TrimSuffix(prefix, "no")
	}

	if bang {
		if prefix != "" {
			return NoModes, false, fmt.Errorf("unknown map command %q", name+"!")
		}
		return InsertCmdLine, recursive, nil
	}

	switch prefix {
	case "":
		return NVOModes, recursive, nil
	case "n":
		return NormalModes, recursive, nil
	case "v":
		return VisualModes, recursive, nil
	case "x":
		return XModes, recursive, nil
	case "s":
		return SelectModes, recursive, nil
	case "o":
		return OpModes, recursive, nil
	case "i":
		return InsertModes, recursive, nil
	case "c":
		return CmdLineModes, recursive, nil
	}
	return NoModes, false, fmt.Errorf("unknown map command %q", name)
}

// ParseModeLetters parses a set written as mode letters, e.g. "nvo" or
// "i". 'v' means visual and select, as in :vmap.
func ParseModeLetters(letters string) (MappingModes, error) {
	var set MappingModes
	for _, r := range letters {
		switch r {
		case 'n':
			set |= NormalModes
		case 'v':
			set |= VisualModes
		case 'x':
			set |= XModes
		case 's':
			set |= SelectModes
		case 'o':
			set |= OpModes
		case 'i':
			set |= InsertModes
		case 'c':
			set |= CmdLineModes
		case ' ', ',':
		default:
			return NoModes, fmt.Errorf("unknown mode letter %q", r)
		}
	}
	return set, nil
}
