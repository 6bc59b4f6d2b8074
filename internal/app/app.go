// Package app wires the input engine to its configuration and runs it,
// either against a terminal or over a fixed key string.
package app

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/vimkeys/internal/config"
	"github.com/dshills/vimkeys/internal/input"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mapping"
	"github.com/dshills/vimkeys/internal/plugin/lua"
)

// Application owns the shared mapping table, the Lua runtime and the
// config reloader, and the session typed into.
type Application struct {
	mu sync.Mutex

	opts Options
	log  *logrus.Logger

	table    *mapping.Table
	lua      *lua.State
	reloader *config.Reloader
	file     *config.File
	session  *Session
	metrics  *input.Metrics

	running atomic.Bool

	// reloads carries files applied by the reloader to the event loop.
	reloads chan *config.File
}

// Options configures the application.
type Options struct {
	// ConfigPath is the mapping file; empty means none.
	ConfigPath string

	// LogLevel overrides the log_level setting of the file.
	LogLevel string

	// LogFormat is "text" or "json".
	LogFormat string

	// LogOutput receives log lines; nil means stderr.
	LogOutput io.Writer

	// Watch reloads the config file when it changes.
	Watch bool

	// LuaTimeout bounds one Lua handler run.
	LuaTimeout time.Duration

	// InputOptions are appended when creating the dispatcher.
	InputOptions []input.Option
}

// New creates an application and loads its configuration.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		table:   mapping.NewTable(),
		metrics: input.NewMetrics(),
		reloads: make(chan *config.File, 1),
	}
	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Logging, before the file is read
	log, err := NewLogger(app.opts.LogLevel, app.opts.LogFormat, app.opts.LogOutput)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	app.log = log

	// 2. Lua runtime for handler mappings
	luaOpts := []lua.StateOption{lua.WithLogger(log)}
	if app.opts.LuaTimeout > 0 {
		luaOpts = append(luaOpts, lua.WithExecutionTimeout(app.opts.LuaTimeout))
	}
	app.lua, err = lua.NewState(luaOpts...)
	if err != nil {
		return &InitError{Component: "lua", Err: err}
	}

	// 3. Config file into the table
	app.file = &config.File{}
	if app.opts.ConfigPath != "" {
		app.reloader = config.NewReloader(app.opts.ConfigPath, app.table,
			config.WithCompiler(app.lua),
			config.WithLogger(log))
		f, err := app.reloader.Load()
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		app.file = f
		if app.opts.LogLevel == "" {
			log.SetLevel(f.LogLevel(log.GetLevel()))
		}
	}

	// 4. Session and its dispatcher
	inputOpts := append([]input.Option{input.WithMetrics(app.metrics)}, app.opts.InputOptions...)
	app.session = NewSession(app.file.InputConfig(), app.table, log, inputOpts...)
	app.session.Dispatcher().Registers().SetClipboard(app.file.ClipboardProvider())

	// 5. Live reload
	if app.reloader != nil && app.opts.Watch {
		app.reloader.OnReload(app.queueReload)
		if err := app.reloader.Watch(); err != nil {
			return &InitError{Component: "config watcher", Err: err}
		}
	}
	return nil
}

// queueReload hands a reloaded file to the event loop, keeping only the
// newest when the loop is behind.
func (app *Application) queueReload(f *config.File) {
	for {
		select {
		case app.reloads <- f:
			return
		default:
		}
		select {
		case <-app.reloads:
		default:
		}
	}
}

// applyReload runs on the event loop goroutine. Mappings are already in
// the table; settings only take effect for the clipboard, since the
// dispatcher config is fixed at creation.
func (app *Application) applyReload(f *config.File) {
	app.mu.Lock()
	app.file = f
	app.mu.Unlock()
	app.session.Dispatcher().Registers().SetClipboard(f.ClipboardProvider())
	app.session.ShowMessage("config reloaded")
}

// FeedKeys dispatches keys written in <> notation, as if typed, without
// a terminal. With wait set, a mapping left pending at the end is given
// its timeout to resolve, the way it would while typing.
func (app *Application) FeedKeys(keys string, wait bool) error {
	seq, err := key.ParseSequence(keys)
	if err != nil {
		return err
	}
	app.session.Feed(seq)

	d := app.session.Dispatcher()
	if !wait {
		return nil
	}
	grace := d.Config().TimeoutLen + 50*time.Millisecond
	for d.Pending() {
		select {
		case fn := <-d.Timeouts():
			fn()
		case f := <-app.reloads:
			app.applyReload(f)
		case <-time.After(grace):
			return nil
		}
	}
	return nil
}

// Logger returns the application logger.
func (app *Application) Logger() *logrus.Logger { return app.log }

// Table returns the shared mapping table.
func (app *Application) Table() *mapping.Table { return app.table }

// Session returns the session keys are typed into.
func (app *Application) Session() *Session { return app.session }

// Metrics returns the dispatch metrics.
func (app *Application) Metrics() *input.Metrics { return app.metrics }

// Config returns the configuration file currently applied.
func (app *Application) Config() *config.File {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.file
}

// Close releases all components. It is safe on a partly built
// application.
func (app *Application) Close() {
	if app.reloader != nil {
		if err := app.reloader.Close(); err != nil && app.log != nil {
			app.log.WithError(err).Warn("closing config watcher")
		}
	}
	if app.session != nil {
		app.session.Close()
	}
	if app.lua != nil {
		_ = app.lua.Close()
	}
}
