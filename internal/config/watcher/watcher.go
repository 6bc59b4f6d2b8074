// Package watcher reports changes to mapping files so they can be
// reloaded while the editor runs.
//
// Files are watched through their parent directory: most editors save by
// writing a new file and renaming it over the old one, which drops a
// watch placed on the file itself.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when watching through a stopped watcher.
var ErrClosed = errors.New("watcher: closed")

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	Op Operation

	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// ErrorHandler is called for errors reported by the file system.
type ErrorHandler func(err error)

// Watcher monitors files for changes.
type Watcher struct {
	mu sync.RWMutex

	fsw *fsnotify.Watcher

	// files maps watched paths to nothing; dirs counts the files watched
	// in each directory.
	files map[string]struct{}
	dirs  map[string]int

	handlers      []Handler
	errorHandlers []ErrorHandler

	debounce time.Duration

	pendingMu sync.Mutex
	pending   map[string]*pendingEvent

	done    chan struct{}
	wg      sync.WaitGroup
	running bool
	closed  bool
}

type pendingEvent struct {
	op    Operation
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must stay quiet before its change is
// reported. Zero reports every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a file watcher.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]int),
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*pendingEvent),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds a file to the watch list. The file need not exist yet; its
// directory must.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if _, ok := w.files[absPath]; ok {
		return nil
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = struct{}{}
	return nil
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[absPath]; !ok {
		return nil
	}
	delete(w.files, absPath)

	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		if !w.closed {
			return w.fsw.Remove(dir)
		}
	}
	return nil
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// OnError registers a handler for watch errors.
func (w *Watcher) OnError(handler ErrorHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errorHandlers = append(w.errorHandlers, handler)
}

// Start begins delivering events.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.closed {
		return
	}
	w.running = true

	w.wg.Add(1)
	go w.processLoop()
}

// Stop stops watching and waits for the event loop to exit. Pending
// debounced events are dropped. A stopped watcher cannot be restarted.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.running = false
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()

	w.pendingMu.Lock()
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.pendingMu.Unlock()
	return err
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// WatchedFiles returns the list of watched files.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	return files
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.emitError(err)
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	w.mu.RLock()
	_, watched := w.files[path]
	w.mu.RUnlock()
	if !watched {
		return
	}

	op, ok := convertOp(ev.Op)
	if !ok {
		return
	}
	event := Event{Path: path, Op: op, Time: time.Now()}
	if w.debounce > 0 {
		w.queueEvent(event)
		return
	}
	w.emitEvent(event)
}

func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	}
	return 0, false
}

// queueEvent holds an event until its file has been quiet for the
// debounce period. Operations coalesce: remove beats create, create
// beats write.
func (w *Watcher) queueEvent(event Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	p, ok := w.pending[event.Path]
	if !ok {
		p = &pendingEvent{op: event.Op}
		w.pending[event.Path] = p
		p.timer = time.AfterFunc(w.debounce, func() { w.flushPending(event.Path) })
		return
	}

	switch {
	case event.Op == OpRemove || event.Op == OpRename:
		p.op = event.Op
	case event.Op == OpCreate:
		p.op = OpCreate
	case p.op == OpRemove || p.op == OpRename:
		// written again after a rename-over: the file is back
		p.op = OpCreate
	}
	p.timer.Reset(w.debounce)
}

func (w *Watcher) flushPending(path string) {
	w.pendingMu.Lock()
	p, ok := w.pending[path]
	if ok {
		delete(w.pending, path)
	}
	w.pendingMu.Unlock()
	if !ok {
		return
	}

	select {
	case <-w.done:
		return
	default:
	}
	w.emitEvent(Event{Path: path, Op: p.op, Time: time.Now()})
}

// emitEvent calls all handlers with the event. A panicking handler does
// not stop the others.
func (w *Watcher) emitEvent(event Event) {
	w.mu.RLock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		safeCall(func() { handler(event) })
	}
}

func (w *Watcher) emitError(err error) {
	w.mu.RLock()
	handlers := make([]ErrorHandler, len(w.errorHandlers))
	copy(handlers, w.errorHandlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		safeCall(func() { handler(err) })
	}
}

func safeCall(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
