package input

import (
	"github.com/dshills/vimkeys/internal/input/exentry"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mode"
	"github.com/dshills/vimkeys/internal/input/register"
)

// ExecContext is handed to executors, inserters, hooks and mapping
// handlers. It gives access to the input state of the dispatcher running
// them. It implements mapping.Env.
type ExecContext struct {
	d *Dispatcher

	// Frame is the mode the command was typed in. For a command typed in
	// operator-pending mode this is still operator-pending, even though
	// the dispatcher has already left that mode.
	Frame mode.Frame

	// OpPending reports whether the command completed an operator.
	OpPending bool

	// Caret is the index of the caret this call is for.
	Caret int

	// Carets is the number of carets the command is run for.
	Carets int
}

func (d *Dispatcher) newContext() *ExecContext {
	return &ExecContext{
		d:      d,
		Frame:  d.state.Frame(),
		Carets: 1,
	}
}

// Dispatcher returns the dispatcher running the command.
func (c *ExecContext) Dispatcher() *Dispatcher { return c.d }

// State returns the mode stack.
func (c *ExecContext) State() *mode.StateMachine { return c.d.state }

// Registers returns the register store.
func (c *ExecContext) Registers() *register.Store { return c.d.registers }

// Entry returns the command-line entry.
func (c *ExecContext) Entry() *exentry.Entry { return c.d.entry }

// Mode returns the current mode.
func (c *ExecContext) Mode() mode.Mode { return c.d.state.Mode() }

// Mapped reports whether a mapping is being expanded.
func (c *ExecContext) Mapped() bool { return c.d.mapState.Executing() }

// Feed dispatches keys as if typed. Keys fed while a key is being
// handled run right after it, one level deeper.
func (c *ExecContext) Feed(keys key.Sequence, remap bool) {
	c.d.Feed(keys, remap)
}

// ShowMessage displays text on the status line.
func (c *ExecContext) ShowMessage(text string) {
	c.d.messages.ShowMessage(text)
}

// SignalError rings the bell.
func (c *ExecContext) SignalError() {
	c.d.messages.SignalError()
}
