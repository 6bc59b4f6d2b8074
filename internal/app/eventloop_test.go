package app

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimkeys/internal/input/mode"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(60, 12)
	t.Cleanup(s.Fini)
	return s
}

// runApp starts the event loop and returns a channel with its result.
func runApp(app *Application, s tcell.Screen) <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- app.Run(s) }()
	return errc
}

func waitRun(t *testing.T, errc <-chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("event loop did not stop")
		return nil
	}
}

func screenRow(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteString(string(c.Runes))
	}
	return strings.TrimRight(b.String(), " ")
}

func injectString(s tcell.SimulationScreen, text string) {
	for _, r := range text {
		s.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
}

func TestRunQuitChord(t *testing.T) {
	app := newTestApp(t, Options{})
	s := newSimScreen(t)
	errc := runApp(app, s)

	injectString(s, "ihi")
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyCtrlX, 0, tcell.ModCtrl)
	s.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	require.NoError(t, waitRun(t, errc))
	assert.Equal(t, "hi", app.Session().Text())
	assert.Equal(t, mode.Normal, app.Session().Dispatcher().Mode())
}

func TestRunQuitCommand(t *testing.T) {
	app := newTestApp(t, Options{})
	s := newSimScreen(t)
	errc := runApp(app, s)

	injectString(s, ":q")
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	require.NoError(t, waitRun(t, errc))
	assert.True(t, app.Session().QuitRequested())
}

func TestRunDrawsStatus(t *testing.T) {
	app := newTestApp(t, Options{})
	s := newSimScreen(t)
	errc := runApp(app, s)

	injectString(s, "i")
	require.Eventually(t, func() bool {
		return strings.HasPrefix(screenRow(s, 11), "INSERT")
	}, 2*time.Second, 10*time.Millisecond)

	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	injectString(s, "2d")
	require.Eventually(t, func() bool {
		return strings.HasSuffix(screenRow(s, 11), "2d")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, screenRow(s, 0), "vimkeys")

	injectString(s, "d")
	require.Eventually(t, func() bool {
		for y := 2; y < 9; y++ {
			if strings.Contains(screenRow(s, y), "2dd") {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	s.InjectKey(tcell.KeyCtrlX, 0, tcell.ModCtrl)
	s.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	require.NoError(t, waitRun(t, errc))
}

func TestRunHeldPrefixIsDispatched(t *testing.T) {
	app := newTestApp(t, Options{})
	s := newSimScreen(t)
	errc := runApp(app, s)

	s.InjectKey(tcell.KeyCtrlX, 0, tcell.ModCtrl)
	injectString(s, "x")
	injectString(s, ":q")
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	require.NoError(t, waitRun(t, errc))
	var ids []string
	for _, r := range app.Session().Records() {
		ids = append(ids, r.Command.Action.ID)
	}
	assert.Contains(t, ids, "change.deleteChar")
}

func TestRunTwice(t *testing.T) {
	app := newTestApp(t, Options{})
	s := newSimScreen(t)
	errc := runApp(app, s)

	require.Eventually(t, app.running.Load, 2*time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, app.Run(s), ErrAlreadyRunning)

	injectString(s, ":q")
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	require.NoError(t, waitRun(t, errc))
}

func TestRunAppliesReloads(t *testing.T) {
	app := newTestApp(t, Options{})
	s := newSimScreen(t)
	errc := runApp(app, s)

	app.queueReload(app.Config())
	require.Eventually(t, func() bool {
		return app.Session().LastMessage() == "config reloaded"
	}, 2*time.Second, 10*time.Millisecond)

	injectString(s, ":q")
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	require.NoError(t, waitRun(t, errc))
}

func TestRunStopsOnInterrupt(t *testing.T) {
	app := newTestApp(t, Options{})
	s := newSimScreen(t)
	errc := runApp(app, s)

	require.NoError(t, s.PostEvent(tcell.NewEventInterrupt(nil)))
	require.NoError(t, waitRun(t, errc))
}
