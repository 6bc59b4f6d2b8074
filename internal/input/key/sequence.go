package key

import (
	"strings"
	"unicode/utf8"
)

// Sequence is an ordered series of strokes, such as "gg", "diw" or
// "<C-w>s". The zero value is an empty sequence.
type Sequence []Stroke

// String returns the Vim notation of the sequence.
func (s Sequence) String() string {
	var sb strings.Builder
	for _, k := range s {
		sb.WriteString(k.String())
	}
	return sb.String()
}

// Printable returns the showcmd rendering of the sequence.
func (s Sequence) Printable() string {
	var sb strings.Builder
	for _, k := range s {
		sb.WriteString(k.Printable())
	}
	return sb.String()
}

// Equal reports whether both sequences hold the same strokes.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether s starts with prefix. Every sequence starts
// with the empty sequence.
func (s Sequence) HasPrefix(prefix Sequence) bool {
	if len(prefix) > len(s) {
		return false
	}
	return s[:len(prefix)].Equal(prefix)
}

// Clone returns a copy that does not share storage with s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// IsPlug reports whether the sequence starts with the <Plug> sentinel.
func (s Sequence) IsPlug() bool {
	return len(s) > 0 && s[0] == Plug
}

// ParseSequence parses Vim key notation into a sequence. Characters stand
// for themselves (spaces included) and bracketed names such as "<CR>" or
// "<C-w>" become one stroke each. A "<" that does not open a valid name is
// taken literally, as Vim does.
//
// Examples: "dd", "<C-x><C-s>", ":w<CR>", "<Plug>(surround)"
func ParseSequence(s string) (Sequence, error) {
	if !utf8.ValidString(s) {
		return nil, ErrInvalidSpec
	}
	seq := make(Sequence, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] == '<' {
			if end := strings.IndexByte(s[i+1:], '>'); end > 0 {
				if k, err := Parse(s[i : i+end+2]); err == nil {
					seq = append(seq, k)
					i += end + 2
					continue
				}
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		seq = append(seq, Char(r))
		i += size
	}
	return seq, nil
}

// MustParseSequence parses a sequence and panics on error.
// Use only for known-valid sequences in initialization code.
func MustParseSequence(s string) Sequence {
	seq, err := ParseSequence(s)
	if err != nil {
		panic("invalid key sequence: " + s + ": " + err.Error())
	}
	return seq
}
