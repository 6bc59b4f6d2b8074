package mapping

import (
	"time"

	"github.com/dshills/vimkeys/internal/input/key"
)

// Token identifies one armed timeout. A fired token that is no longer the
// state's current token does nothing.
type Token struct {
	cancel func()
}

// State is the per-context progress through a possibly mapped sequence:
// the keys held back so far and the timeout that will release them.
type State struct {
	keys      key.Sequence
	timer     *Token
	executing int
}

// Keys returns the keys held back.
func (s *State) Keys() key.Sequence { return s.keys }

// Pending reports whether keys are held back.
func (s *State) Pending() bool { return len(s.keys) > 0 }

// Add holds back k.
func (s *State) Add(k key.Stroke) {
	s.keys = append(s.keys, k)
}

// Detach stops the timer and returns the held keys, leaving the state
// empty.
func (s *State) Detach() key.Sequence {
	keys := s.keys
	s.keys = nil
	s.StopTimer()
	return keys
}

// Reset drops the held keys and the timer.
func (s *State) Reset() {
	s.Detach()
}

// StartTimer arms a timeout that calls fn after d through sched, replacing
// any armed one.
func (s *State) StartTimer(sched Scheduler, d time.Duration, fn func()) *Token {
	s.StopTimer()
	tok := &Token{}
	s.timer = tok
	tok.cancel = sched.AfterFunc(d, func() {
		if s.timer != tok {
			return
		}
		s.timer = nil
		fn()
	})
	return tok
}

// StopTimer cancels the armed timeout, if any.
func (s *State) StopTimer() {
	if s.timer == nil {
		return
	}
	if s.timer.cancel != nil {
		s.timer.cancel()
	}
	s.timer = nil
}

// TimerArmed reports whether a timeout is pending.
func (s *State) TimerArmed() bool { return s.timer != nil }

// StartExecution marks that a mapping's target is being run.
func (s *State) StartExecution() { s.executing++ }

// StopExecution ends the mark set by StartExecution.
func (s *State) StopExecution() {
	if s.executing > 0 {
		s.executing--
	}
}

// Executing reports whether a mapping's target is being run.
func (s *State) Executing() bool { return s.executing > 0 }
