package register

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/vimkeys/internal/input/command"
	"github.com/dshills/vimkeys/internal/input/key"
)

var (
	// ErrInvalidRegister is returned for names that are not registers.
	ErrInvalidRegister = errors.New("register: invalid register")

	// ErrReadOnly is returned when writing a register only the editor sets.
	ErrReadOnly = errors.New("register: read-only register")

	// ErrEmpty is returned when playing an empty register.
	ErrEmpty = errors.New("register: empty register")

	// ErrRecording is returned when recording is started twice.
	ErrRecording = errors.New("register: already recording")
)

// DefaultRegister is used when no register was selected.
const DefaultRegister = '"'

// Store holds registers plus the per-editor state that lives next to them:
// the selected register, the macro being recorded, the last change for
// dot-repeat and the argument captured from it.
type Store struct {
	mu   sync.Mutex
	regs map[rune]*Register

	selected rune

	recording  bool
	recordTo   rune
	recorded   key.Sequence
	lastPlayed rune

	lastChange *command.Command
	captured   *command.Argument

	clipboard ClipboardProvider
}

// NewStore returns an empty store using an in-memory clipboard.
func NewStore() *Store {
	return &Store{
		regs:      make(map[rune]*Register),
		selected:  DefaultRegister,
		clipboard: &MemoryClipboard{},
	}
}

// SetClipboard sets the provider behind + and *.
func (s *Store) SetClipboard(c ClipboardProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clipboard = c
}

// Select makes name the register used by the next command.
func (s *Store) Select(name rune) error {
	if !IsValid(name) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = name
	return nil
}

// Selected returns the register the next command uses.
func (s *Store) Selected() rune {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// IsDefaultSelected reports whether no register was selected.
func (s *Store) IsDefaultSelected() bool {
	return s.Selected() == DefaultRegister
}

// ResetSelected goes back to the default register.
func (s *Store) ResetSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = DefaultRegister
}

// Set writes text to name. Uppercase names append, '_' discards and
// + and * go to the clipboard.
func (s *Store) Set(name rune, text string, linewise bool) error {
	if !IsValid(name) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, name)
	}
	if IsReadOnly(name) {
		return fmt.Errorf("%w: %q", ErrReadOnly, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(name, text, linewise)
}

func (s *Store) setLocked(name rune, text string, linewise bool) error {
	switch KindOf(name) {
	case BlackHole:
		return nil
	case Clipboard, Selection:
		return s.clipboard.Set(text)
	}

	target := Normalize(name)
	reg, ok := s.regs[target]
	if !ok || !IsAppend(name) {
		reg = &Register{Name: target, Kind: KindOf(target)}
		s.regs[target] = reg
	}
	if IsAppend(name) && ok {
		reg.Text += text
		reg.Linewise = reg.Linewise || linewise
	} else {
		reg.Text = text
		reg.Linewise = linewise
	}
	reg.Keys = nil
	if target != DefaultRegister {
		s.regs[DefaultRegister] = &Register{Name: DefaultRegister, Kind: Unnamed, Text: reg.Text, Linewise: reg.Linewise}
	}
	return nil
}

// SetLastCommand stores the last command line in ':'.
func (s *Store) SetLastCommand(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[':'] = &Register{Name: ':', Kind: Command, Text: text}
}

// Get returns the content of name.
func (s *Store) Get(name rune) (Register, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch KindOf(name) {
	case Clipboard, Selection:
		text, err := s.clipboard.Get()
		if err != nil {
			return Register{}, false
		}
		return Register{Name: name, Kind: KindOf(name), Text: text}, true
	}
	reg, ok := s.regs[Normalize(name)]
	if !ok {
		return Register{}, false
	}
	out := *reg
	out.Keys = reg.Keys.Clone()
	return out, true
}

// StartRecording begins recording typed keys into name. An uppercase
// name appends to the macro already there.
func (s *Store) StartRecording(name rune) error {
	if !IsValid(name) || IsReadOnly(name) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording {
		return fmt.Errorf("%w to %q", ErrRecording, s.recordTo)
	}
	s.recording = true
	s.recordTo = name
	s.recorded = nil
	return nil
}

// Recording reports whether keys are being recorded, and into which
// register.
func (s *Store) Recording() (rune, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordTo, s.recording
}

// Record appends k to the macro being recorded.
func (s *Store) Record(k key.Stroke) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording {
		s.recorded = append(s.recorded, k)
	}
}

// StopRecording saves the recorded keys and returns them.
func (s *Store) StopRecording() key.Sequence {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording {
		return nil
	}
	s.recording = false
	keys := s.recorded
	s.recorded = nil

	target := Normalize(s.recordTo)
	if IsAppend(s.recordTo) {
		if reg, ok := s.regs[target]; ok {
			keys = append(reg.Keys.Clone(), keys...)
		}
	}
	if KindOf(target) != BlackHole && len(keys) > 0 {
		_ = s.setLocked(target, keys.String(), false)
		if reg, ok := s.regs[target]; ok {
			reg.Keys = keys.Clone()
		}
	}
	return keys
}

// Macro returns the keys stored in name for playback. '@' names the last
// register played.
func (s *Store) Macro(name rune) (key.Sequence, error) {
	s.mu.Lock()
	if name == '@' {
		name = s.lastPlayed
	}
	s.mu.Unlock()

	if !IsValid(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRegister, name)
	}
	reg, ok := s.Get(name)
	if !ok || (len(reg.Keys) == 0 && reg.Text == "") {
		return nil, fmt.Errorf("%w: %q", ErrEmpty, name)
	}

	s.mu.Lock()
	s.lastPlayed = name
	s.mu.Unlock()

	if len(reg.Keys) > 0 {
		return reg.Keys, nil
	}
	return key.ParseSequence(reg.Text)
}

// SetLastChange remembers cmd for dot-repeat.
func (s *Store) SetLastChange(cmd *command.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastChange = cmd
}

// LastChange returns the command dot-repeat replays, or nil.
func (s *Store) LastChange() *command.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastChange
}

// SetCaptured stores the argument a repeated operator reuses.
func (s *Store) SetCaptured(arg *command.Argument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captured = arg
}

// Captured returns the argument stored by SetCaptured, or nil.
func (s *Store) Captured() *command.Argument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captured
}
