package mapping

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs deferred callbacks on the goroutine that owns an input
// context.
type Scheduler interface {
	// AfterFunc arranges for fn to run after d and returns a function
	// that cancels it. Cancelling after fn ran is a no-op.
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// LoopScheduler hands fired callbacks to an event loop through a
// channel. The loop selects on C and calls each function it receives.
type LoopScheduler struct {
	fired chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoopScheduler returns a scheduler whose channel holds up to buffer
// fired callbacks.
func NewLoopScheduler(buffer int) *LoopScheduler {
	return &LoopScheduler{
		fired: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// AfterFunc implements Scheduler.
func (s *LoopScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() {
		select {
		case s.fired <- fn:
		case <-s.done:
		}
	})
	return func() { t.Stop() }
}

// C returns the channel of fired callbacks.
func (s *LoopScheduler) C() <-chan func() {
	return s.fired
}

// Close releases timers blocked on delivery. Callbacks firing after Close
// are dropped.
func (s *LoopScheduler) Close() {
	s.once.Do(func() { close(s.done) })
}

// ManualScheduler is a Scheduler driven by a fake clock. Callbacks run
// synchronously inside Advance.
type ManualScheduler struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
}

// NewManualScheduler returns a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	s.seq++
	t := &manualTimer{at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.cancelled = true }
}

// Now returns the time elapsed on the fake clock.
func (s *ManualScheduler) Now() time.Duration { return s.now }

// Advance moves the clock forward by d, running every callback that falls
// due in deadline order.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		t := s.next(target)
		if t == nil {
			break
		}
		s.now = t.at
		t.fn()
	}
	s.now = target
}

func (s *ManualScheduler) next(limit time.Duration) *manualTimer {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	s.timers = live
	sort.Slice(s.timers, func(i, j int) bool {
		if s.timers[i].at != s.timers[j].at {
			return s.timers[i].at < s.timers[j].at
		}
		return s.timers[i].seq < s.timers[j].seq
	})
	if len(s.timers) == 0 || s.timers[0].at > limit {
		return nil
	}
	t := s.timers[0]
	s.timers = s.timers[1:]
	return t
}

// Pending returns the number of callbacks not yet run or cancelled.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}
