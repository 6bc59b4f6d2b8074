package input

import (
	"github.com/dshills/vimkeys/internal/input/command"
	"github.com/dshills/vimkeys/internal/input/key"
)

// Executor runs a built command. It is called once per caret the
// command's strategy selects.
type Executor interface {
	Execute(ctx *ExecContext, cmd *command.Command) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx *ExecContext, cmd *command.Command) error

// Execute calls f.
func (f ExecutorFunc) Execute(ctx *ExecContext, cmd *command.Command) error {
	return f(ctx, cmd)
}

// Inserter receives keys that match no command in insert, replace and
// select mode. It reports whether the key was accepted; rejected keys are
// not recorded into a macro.
type Inserter interface {
	InsertKey(ctx *ExecContext, k key.Stroke) bool
}

// InserterFunc adapts a function to Inserter.
type InserterFunc func(ctx *ExecContext, k key.Stroke) bool

// InsertKey calls f.
func (f InserterFunc) InsertKey(ctx *ExecContext, k key.Stroke) bool {
	return f(ctx, k)
}

// Transactor wraps command execution. Write commands run through
// RunWrite, read commands and motions through RunRead, everything else
// through Run. name is the action ID.
type Transactor interface {
	RunWrite(name string, fn func() error) error
	RunRead(name string, fn func() error) error
	Run(name string, fn func() error) error
}

// Messages is the status line.
type Messages interface {
	// SignalError rings the bell or flashes the screen.
	SignalError()

	// ShowMessage displays text to the user.
	ShowMessage(text string)
}

// Target is the buffer the input context edits.
type Target interface {
	// Writable reports whether write commands may run.
	Writable() bool

	// Carets returns the number of carets; at least one is assumed.
	Carets() int
}

// DirectTransactor runs every command without a transaction.
type DirectTransactor struct{}

// RunWrite calls fn.
func (DirectTransactor) RunWrite(_ string, fn func() error) error { return fn() }

// RunRead calls fn.
func (DirectTransactor) RunRead(_ string, fn func() error) error { return fn() }

// Run calls fn.
func (DirectTransactor) Run(_ string, fn func() error) error { return fn() }

// WritableTarget is a writable target with a single caret.
type WritableTarget struct{}

// Writable returns true.
func (WritableTarget) Writable() bool { return true }

// Carets returns 1.
func (WritableTarget) Carets() int { return 1 }

type nopExecutor struct{}

func (nopExecutor) Execute(*ExecContext, *command.Command) error { return nil }

type nopInserter struct{}

func (nopInserter) InsertKey(*ExecContext, key.Stroke) bool { return false }

type nopMessages struct{}

func (nopMessages) SignalError()       {}
func (nopMessages) ShowMessage(string) {}
