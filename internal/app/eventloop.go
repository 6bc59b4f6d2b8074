package app

import (
	"errors"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vimkeys/internal/input/key"
)

// quitPrefix and quitKey form the chord that leaves Run. They never
// reach the dispatcher together.
var (
	quitPrefix = key.Ctrl('x')
	quitKey    = key.Ctrl('c')
)

// Run reads keys from an initialized screen until the quit chord, :quit
// or an interrupt event posted to the screen. The caller owns the screen
// and finalizes it afterwards, which also stops the polling goroutine.
func (app *Application) Run(screen tcell.Screen) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	done := make(chan struct{})
	defer close(done)
	events := startInputPolling(screen, done)

	d := app.session.Dispatcher()
	var held bool
	app.draw(screen)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			var err error
			held, err = app.handleEvent(screen, ev, held)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				return err
			}

		case fn := <-d.Timeouts():
			fn()

		case f := <-app.reloads:
			app.applyReload(f)
		}

		if app.session.QuitRequested() {
			return nil
		}
		app.draw(screen)
	}
}

// handleEvent routes one terminal event. held tells whether the quit
// prefix is waiting for its second key.
func (app *Application) handleEvent(screen tcell.Screen, ev tcell.Event, held bool) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		return false, ErrQuit

	case *tcell.EventResize:
		screen.Sync()
		return held, nil

	case *tcell.EventKey:
		k, ok := key.FromTcell(ev)
		if !ok {
			return held, nil
		}
		if held {
			if k == quitKey {
				return false, ErrQuit
			}
			app.dispatch(quitPrefix)
		}
		if k == quitPrefix {
			return true, nil
		}
		app.dispatch(k)
		return false, nil
	}
	return held, nil
}

// dispatch hands k to the session. A panic in the engine is logged and
// clears the input state instead of ending the program.
func (app *Application) dispatch(k key.Stroke) {
	defer func() {
		if r := recover(); r != nil {
			err := &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
			app.log.WithError(err).WithField("key", k.String()).Error("dispatch panicked")
			app.session.ShowMessage("internal error, input reset")
			app.session.Dispatcher().FullReset()
		}
	}()
	app.session.HandleKey(k)
}

// startInputPolling starts a goroutine that polls the screen for events.
// PollEvent returns nil once the screen is finalized, which ends the
// goroutine.
func startInputPolling(screen tcell.Screen, done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 100)

	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	return events
}
