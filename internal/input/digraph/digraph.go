package digraph

import (
	"strconv"
	"unicode"

	"github.com/dshills/vimkeys/internal/input/key"
)

// Kind classifies the outcome of feeding one key to a Sequence.
type Kind uint8

const (
	// Unhandled means no sequence is active; the key is not for us.
	Unhandled Kind = iota

	// Handled means the key was consumed and more keys are expected.
	Handled

	// Done means the sequence resolved to Result.Stroke.
	Done

	// Bad means the key cannot continue the sequence.
	Bad
)

func (k Kind) String() string {
	switch k {
	case Handled:
		return "handled"
	case Done:
		return "done"
	case Bad:
		return "bad"
	}
	return "unhandled"
}

// Result is what ProcessKey reports.
type Result struct {
	Kind Kind

	// Stroke is the resolved key when Kind is Done.
	Stroke key.Stroke

	// Prompt is the character to show at the cursor while Handled.
	Prompt rune

	// Redispatch, when non-zero, is a key that ended a literal code and
	// must be processed normally after Stroke.
	Redispatch key.Stroke
}

type state uint8

const (
	stateIdle state = iota
	stateDigraphFirst
	stateDigraphSecond
	stateLiteralStart
	stateLiteralCode
)

// Sequence tracks one <C-k> digraph or <C-v> literal entry.
type Sequence struct {
	state state
	first rune

	base    int
	maxLen  int
	code    []rune
	trigger rune
}

// NewSequence returns an idle sequence.
func NewSequence() *Sequence {
	return &Sequence{}
}

// StartDigraph begins a two-character digraph.
func (s *Sequence) StartDigraph() {
	s.Reset()
	s.state = stateDigraphFirst
}

// StartLiteral begins a literal key or character code.
func (s *Sequence) StartLiteral() {
	s.Reset()
	s.state = stateLiteralStart
}

// Active reports whether a sequence is in progress.
func (s *Sequence) Active() bool {
	return s.state != stateIdle
}

// Reset abandons any sequence in progress.
func (s *Sequence) Reset() {
	*s = Sequence{code: s.code[:0]}
}

// ProcessKey feeds one key to the sequence.
func (s *Sequence) ProcessKey(k key.Stroke) Result {
	switch s.state {
	case stateDigraphFirst:
		r, ok := k.Char()
		if !ok || k.Key != key.KeyRune {
			s.Reset()
			return Result{Kind: Bad}
		}
		s.first = r
		s.state = stateDigraphSecond
		return Result{Kind: Handled, Prompt: r}

	case stateDigraphSecond:
		first := s.first
		s.Reset()
		r, ok := k.Char()
		if !ok || k.Key != key.KeyRune {
			return Result{Kind: Bad}
		}
		return Result{Kind: Done, Stroke: key.Char(Lookup(first, r))}

	case stateLiteralStart:
		return s.literalStart(k)

	case stateLiteralCode:
		return s.literalCode(k)
	}
	return Result{Kind: Unhandled}
}

func (s *Sequence) literalStart(k key.Stroke) Result {
	if k.IsRune() && !k.IsModified() {
		switch r := k.Rune; {
		case r == 'o' || r == 'O':
			s.startCode(r, 8, 3)
			return Result{Kind: Handled, Prompt: '^'}
		case r == 'x' || r == 'X':
			s.startCode(r, 16, 2)
			return Result{Kind: Handled, Prompt: '^'}
		case r == 'u':
			s.startCode(r, 16, 4)
			return Result{Kind: Handled, Prompt: '^'}
		case r == 'U':
			s.startCode(r, 16, 8)
			return Result{Kind: Handled, Prompt: '^'}
		case r >= '0' && r <= '9':
			s.startCode(0, 10, 3)
			s.code = append(s.code, r)
			return Result{Kind: Handled, Prompt: '^'}
		}
	}
	s.Reset()
	return Result{Kind: Done, Stroke: literal(k)}
}

func (s *Sequence) startCode(trigger rune, base, maxLen int) {
	s.state = stateLiteralCode
	s.trigger = trigger
	s.base = base
	s.maxLen = maxLen
	s.code = s.code[:0]
}

func (s *Sequence) literalCode(k key.Stroke) Result {
	if k.IsRune() && !k.IsModified() && isDigit(k.Rune, s.base) {
		s.code = append(s.code, k.Rune)
		if len(s.code) < s.maxLen {
			return Result{Kind: Handled, Prompt: '^'}
		}
		r := s.value()
		s.Reset()
		return Result{Kind: Done, Stroke: key.Char(r)}
	}

	// A non-digit ends the code early. With no digits typed the trigger
	// letter itself is the literal.
	var r rune
	if len(s.code) == 0 {
		r = s.trigger
	} else {
		r = s.value()
	}
	s.Reset()
	return Result{Kind: Done, Stroke: key.Char(r), Redispatch: k}
}

func (s *Sequence) value() rune {
	n, err := strconv.ParseInt(string(s.code), s.base, 32)
	if err != nil || n > unicode.MaxRune {
		return unicode.ReplacementChar
	}
	return rune(n)
}

func isDigit(r rune, base int) bool {
	switch base {
	case 8:
		return r >= '0' && r <= '7'
	case 10:
		return r >= '0' && r <= '9'
	case 16:
		return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	}
	return false
}

// literal converts a key typed after <C-v> into the character it stands
// for: control keys become control characters.
func literal(k key.Stroke) key.Stroke {
	switch {
	case k == key.Escape:
		return key.Char(0x1b)
	case k == key.Enter:
		return key.Char('\r')
	case k == key.Tab:
		return key.Char('\t')
	case k == key.Backspace:
		return key.Char(0x08)
	case k.IsRune() && k.Modifiers == key.ModCtrl:
		if r := unicode.ToUpper(k.Rune); r >= '@' && r <= '_' {
			return key.Char(r - '@')
		}
	}
	return k
}
