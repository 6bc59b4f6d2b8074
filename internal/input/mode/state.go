package mode

import (
	"strings"

	"github.com/dshills/vimkeys/internal/input/digraph"
)

// ChangeCallback is called after the top frame changes.
type ChangeCallback func(from, to Frame)

var defaultFrame = Frame{Mode: Normal}

// StateMachine is the mode stack of one input context plus the flags that
// shape how the next key is read. It is owned by a single dispatcher and
// is not safe for concurrent use.
type StateMachine struct {
	frames []Frame

	// RegisterPending is set after '"' until the register name arrives.
	RegisterPending bool

	// ReplaceCharacter is set while r waits for its character.
	ReplaceCharacter bool

	// Recording is set while a macro is being recorded.
	Recording bool

	// DotRepeatInProgress is set while the last change is being repeated.
	DotRepeatInProgress bool

	// Digraph holds an in-progress <C-k> or <C-v> sequence.
	Digraph *digraph.Sequence

	callbacks []ChangeCallback
}

// NewStateMachine returns a state machine in normal mode.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		frames:  []Frame{defaultFrame},
		Digraph: digraph.NewSequence(),
	}
}

// Frame returns the top of the mode stack.
func (s *StateMachine) Frame() Frame {
	if len(s.frames) == 0 {
		return defaultFrame
	}
	return s.frames[len(s.frames)-1]
}

// Mode returns the current mode.
func (s *StateMachine) Mode() Mode { return s.Frame().Mode }

// SubMode returns the current submode.
func (s *StateMachine) SubMode() SubMode { return s.Frame().SubMode }

// MappingMode returns the mapping class of the current mode.
func (s *StateMachine) MappingMode() MappingMode { return s.Mode().MappingMode() }

// Depth returns the number of frames on the stack.
func (s *StateMachine) Depth() int { return len(s.frames) }

// Push enters a nested mode. Pop returns to the frame below.
func (s *StateMachine) Push(m Mode, sub SubMode) {
	from := s.Frame()
	s.frames = append(s.frames, Frame{Mode: m, SubMode: sub})
	s.notify(from)
}

// Pop leaves the current frame. The base frame is never removed; popping
// it reports false.
func (s *StateMachine) Pop() bool {
	if len(s.frames) <= 1 {
		return false
	}
	from := s.Frame()
	s.frames = s.frames[:len(s.frames)-1]
	s.notify(from)
	return true
}

// SetSubMode replaces the submode of the top frame.
func (s *StateMachine) SetSubMode(sub SubMode) {
	from := s.Frame()
	if len(s.frames) == 0 {
		s.frames = append(s.frames, defaultFrame)
	}
	s.frames[len(s.frames)-1].SubMode = sub
	s.notify(from)
}

// ToggleInsertReplace swaps insert and replace mode in place.
func (s *StateMachine) ToggleInsertReplace() {
	from := s.Frame()
	var to Mode
	switch from.Mode {
	case Insert:
		to = Replace
	case Replace:
		to = Insert
	default:
		return
	}
	s.frames[len(s.frames)-1].Mode = to
	s.notify(from)
}

// ResetOpPending pops operator-pending mode if it is current.
func (s *StateMachine) ResetOpPending() {
	if s.Mode() == OpPending {
		s.Pop()
	}
}

// Reset returns to a single normal-mode frame and drops any digraph in
// progress. Recording is left alone.
func (s *StateMachine) Reset() {
	from := s.Frame()
	s.frames = append(s.frames[:0], defaultFrame)
	s.Digraph.Reset()
	s.notify(from)
}

// AcceptsCount reports whether digits typed now can form a count.
func (s *StateMachine) AcceptsCount() bool {
	switch s.Mode() {
	case Normal, InsertNormal, Visual, OpPending:
		return !s.RegisterPending
	}
	return false
}

// IsInsertLike reports whether unmatched keys are inserted as text.
func (s *StateMachine) IsInsertLike() bool {
	switch s.Mode() {
	case Insert, Replace, Select:
		return true
	}
	return false
}

// InSingleNormal reports whether normal mode was entered for one command.
func (s *StateMachine) InSingleNormal() bool {
	return s.Mode() == InsertNormal
}

// OnChange registers a callback for frame changes and returns a function
// that unregisters it.
func (s *StateMachine) OnChange(cb ChangeCallback) func() {
	s.callbacks = append(s.callbacks, cb)
	index := len(s.callbacks) - 1
	return func() {
		if index < len(s.callbacks) {
			s.callbacks[index] = nil
		}
	}
}

func (s *StateMachine) notify(from Frame) {
	to := s.Frame()
	if from == to {
		return
	}
	for _, cb := range s.callbacks {
		if cb != nil {
			cb(from, to)
		}
	}
}

// Status returns the show-mode text, with "recording" appended while a
// macro is being recorded.
func (s *StateMachine) Status() string {
	msg := s.Frame().Status()
	if s.Recording {
		if msg != "" {
			msg += " - "
		}
		msg += "recording"
	}
	return msg
}

// String lists the stack bottom to top, e.g. "normal:none, op-pending:none".
func (s *StateMachine) String() string {
	parts := make([]string, len(s.frames))
	for i, f := range s.frames {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}
