package exentry

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/vimkeys/internal/input/key"
)

// Entry is the line typed after ':', '/' or '?'. The dispatcher starts it
// and reads the finished text back; in between it receives the keys that
// are not commands of the command-line mode.
type Entry struct {
	active  bool
	trigger rune
	text    []rune
	cursor  int
	prompt  rune

	histories map[rune]*History
	browse    int
	saved     string
}

// New returns an inactive entry.
func New() *Entry {
	return &Entry{histories: make(map[rune]*History)}
}

// Start opens the entry for trigger. A count before ':' becomes a line
// range, as in Vim.
func (e *Entry) Start(count int, trigger rune) {
	e.active = true
	e.trigger = trigger
	e.text = e.text[:0]
	e.cursor = 0
	e.prompt = 0
	e.browse = -1
	if trigger == ':' && count > 1 {
		e.insertString(fmt.Sprintf(".,.+%d", count-1))
	}
}

// Active reports whether the entry is open.
func (e *Entry) Active() bool { return e.active }

// Trigger returns the key that opened the entry.
func (e *Entry) Trigger() rune { return e.trigger }

// Text returns the line typed so far.
func (e *Entry) Text() string { return string(e.text) }

// Cursor returns the cursor position in runes.
func (e *Entry) Cursor() int { return e.cursor }

// SetPrompt shows r at the cursor while a digraph or literal is typed.
// Zero clears it.
func (e *Entry) SetPrompt(r rune) { e.prompt = r }

// String renders the entry as displayed, prompt character included.
func (e *Entry) String() string {
	if !e.active {
		return ""
	}
	var b strings.Builder
	b.WriteRune(e.trigger)
	b.WriteString(string(e.text[:e.cursor]))
	if e.prompt != 0 {
		b.WriteRune(e.prompt)
	}
	b.WriteString(string(e.text[e.cursor:]))
	return b.String()
}

// Insert types r at the cursor.
func (e *Entry) Insert(r rune) {
	e.prompt = 0
	e.text = append(e.text, 0)
	copy(e.text[e.cursor+1:], e.text[e.cursor:])
	e.text[e.cursor] = r
	e.cursor++
}

func (e *Entry) insertString(s string) {
	for _, r := range s {
		e.Insert(r)
	}
}

// ProcessKey handles an editing key. It reports false for keys it does
// not understand.
func (e *Entry) ProcessKey(k key.Stroke) bool {
	if !e.active {
		return false
	}
	switch {
	case k == key.Backspace || k == key.Ctrl('h'):
		if e.cursor > 0 {
			e.text = append(e.text[:e.cursor-1], e.text[e.cursor:]...)
			e.cursor--
		}
	case k == key.Delete:
		if e.cursor < len(e.text) {
			e.text = append(e.text[:e.cursor], e.text[e.cursor+1:]...)
		}
	case k == key.Ctrl('u'):
		e.text = append(e.text[:0], e.text[e.cursor:]...)
		e.cursor = 0
	case k == key.Ctrl('w'):
		e.deleteWord()
	case k.Key == key.KeyLeft && k.Modifiers == key.ModNone:
		if e.cursor > 0 {
			e.cursor--
		}
	case k.Key == key.KeyRight && k.Modifiers == key.ModNone:
		if e.cursor < len(e.text) {
			e.cursor++
		}
	case k.Key == key.KeyHome || k == key.Ctrl('b'):
		e.cursor = 0
	case k.Key == key.KeyEnd || k == key.Ctrl('e'):
		e.cursor = len(e.text)
	case k.Key == key.KeyUp:
		return e.recall(1)
	case k.Key == key.KeyDown:
		return e.recall(-1)
	default:
		r, ok := k.Char()
		if !ok || r == '\n' {
			return false
		}
		e.Insert(r)
	}
	return true
}

func (e *Entry) deleteWord() {
	i := e.cursor
	for i > 0 && unicode.IsSpace(e.text[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(e.text[i-1]) {
		i--
	}
	e.text = append(e.text[:i], e.text[e.cursor:]...)
	e.cursor = i
}

func (e *Entry) recall(step int) bool {
	h := e.History(e.trigger)
	next := e.browse + step
	if next < -1 {
		return false
	}
	if e.browse == -1 {
		e.saved = string(e.text)
	}
	line := e.saved
	if next >= 0 {
		var ok bool
		if line, ok = h.At(next); !ok {
			return false
		}
	}
	e.browse = next
	e.text = e.text[:0]
	e.cursor = 0
	e.insertString(line)
	return true
}

// History returns the history kept for trigger.
func (e *Entry) History(trigger rune) *History {
	h, ok := e.histories[trigger]
	if !ok {
		h = NewHistory(DefaultHistorySize)
		e.histories[trigger] = h
	}
	return h
}

// End closes the entry, records the line in its history and returns it.
func (e *Entry) End() string {
	text := string(e.text)
	if e.active {
		e.History(e.trigger).Add(text)
	}
	e.close()
	return text
}

// Cancel closes the entry without recording anything.
func (e *Entry) Cancel() {
	e.close()
}

func (e *Entry) close() {
	e.active = false
	e.prompt = 0
	e.text = e.text[:0]
	e.cursor = 0
	e.browse = -1
}
