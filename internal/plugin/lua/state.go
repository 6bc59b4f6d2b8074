package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mapping"
)

// DefaultExecutionTimeout bounds one handler run.
const DefaultExecutionTimeout = time.Second

// State wraps gopher-lua for running mapping handlers.
//
// gopher-lua's LState is not goroutine-safe. Compiling happens on the
// config reload goroutine and handlers run on the input goroutine, so
// every use of L holds mu.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	log              logrus.FieldLogger

	sandbox *Sandbox

	// env is the input context of the running handler.
	env mapping.Env

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the execution timeout for one handler run.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithLogger sets the logger that receives print output and failures.
func WithLogger(log logrus.FieldLogger) StateOption {
	return func(s *State) {
		s.log = log
	}
}

// NewState creates a new sandboxed Lua state with the vk module.
func NewState(opts ...StateOption) (*State, error) {
	discard := logrus.New()
	discard.SetLevel(logrus.PanicLevel)

	state := &State{
		executionTimeout: DefaultExecutionTimeout,
		log:              discard,
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	state.L = L

	state.sandbox = NewSandbox(L, state.log)
	state.sandbox.Install()
	state.installModule()

	return state, nil
}

// DoString executes a Lua string outside any handler, e.g. to define
// helper functions shared by handlers.
func (s *State) DoString(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.run("chunk", func() error {
		return s.L.DoString(code)
	})
}

// Compile parses source into a mapping handler. Syntax errors are
// reported here rather than when the mapping fires.
func (s *State) Compile(name, source string) (mapping.Handler, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}
	fn, err := s.L.Load(strings.NewReader(source), name)
	if err != nil {
		return nil, &ChunkError{Name: name, Err: err}
	}
	return func(env mapping.Env) error {
		return s.call(name, fn, env)
	}, nil
}

func (s *State) call(name string, fn *lua.LFunction, env mapping.Env) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	if s.env != nil {
		return &ChunkError{Name: name, Err: ErrBusy}
	}
	s.env = env
	defer func() { s.env = nil }()

	top := s.L.GetTop()
	defer s.L.SetTop(top)

	err := s.run(name, func() error {
		s.L.Push(fn)
		return s.L.PCall(0, 1, nil)
	})
	if err != nil {
		s.log.WithError(err).WithField("chunk", name).Warn("lua handler failed")
		return err
	}

	if ret, ok := s.L.Get(-1).(lua.LString); ok && ret != "" {
		keys, err := key.ParseSequence(string(ret))
		if err != nil {
			return &ChunkError{Name: name, Err: err}
		}
		env.Feed(keys, true)
	}
	return nil
}

// run executes fn under the execution timeout, turning panics and
// timeouts into errors.
func (s *State) run(name string, fn func() error) (err error) {
	if s.executionTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.executionTimeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer func() {
			s.L.RemoveContext()
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = &ChunkError{Name: name, Err: ErrExecutionTimeout}
			}
		}()
	}
	defer func() {
		if r := recover(); r != nil {
			err = &ChunkError{Name: name, Err: fmt.Errorf("lua panic: %v", r)}
		}
	}()

	if err := fn(); err != nil {
		return &ChunkError{Name: name, Err: err}
	}
	return nil
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// Sandbox returns the sandbox of the state.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.L.Close()
	s.closed = true
	return nil
}
