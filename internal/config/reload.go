package config

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/vimkeys/internal/config/loader"
	"github.com/dshills/vimkeys/internal/config/watcher"
	"github.com/dshills/vimkeys/internal/input/mapping"
)

// Reloader keeps the mappings of one configuration file in a table.
type Reloader struct {
	mu sync.Mutex

	path     string
	table    *mapping.Table
	loader   *loader.Loader
	compiler HandlerCompiler
	log      logrus.FieldLogger
	debounce time.Duration

	// owners gives every group a stable identity across reloads.
	owners  map[string]mapping.Owner
	current *File

	watcher  *watcher.Watcher
	onReload []func(*File)
	onError  []func(error)
}

// ReloaderOption configures a Reloader.
type ReloaderOption func(*Reloader)

// WithCompiler sets the compiler for Lua mappings.
func WithCompiler(c HandlerCompiler) ReloaderOption {
	return func(r *Reloader) { r.compiler = c }
}

// WithLogger sets the logger for reload events.
func WithLogger(log logrus.FieldLogger) ReloaderOption {
	return func(r *Reloader) { r.log = log }
}

// WithLoader sets the file loader.
func WithLoader(l *loader.Loader) ReloaderOption {
	return func(r *Reloader) { r.loader = l }
}

// WithDebounce sets how long the file must be quiet before a reload.
func WithDebounce(d time.Duration) ReloaderOption {
	return func(r *Reloader) { r.debounce = d }
}

// NewReloader creates a reloader for the file at path.
func NewReloader(path string, table *mapping.Table, opts ...ReloaderOption) *Reloader {
	discard := logrus.New()
	discard.SetLevel(logrus.PanicLevel)

	r := &Reloader{
		path:     path,
		table:    table,
		loader:   loader.New(),
		log:      discard,
		debounce: 100 * time.Millisecond,
		owners:   make(map[string]mapping.Owner),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnReload registers fn to run after each successful load.
func (r *Reloader) OnReload(fn func(*File)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onReload = append(r.onReload, fn)
}

// OnError registers fn to run when a reload fails.
func (r *Reloader) OnError(fn func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = append(r.onError, fn)
}

// Owner returns the owner used for a group of the file.
func (r *Reloader) Owner(group string) mapping.Owner {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ownerLocked(group)
}

func (r *Reloader) ownerLocked(group string) mapping.Owner {
	o, ok := r.owners[group]
	if !ok {
		o = mapping.NewOwner(group)
		r.owners[group] = o
	}
	return o
}

// Current returns the last file applied, or nil.
func (r *Reloader) Current() *File {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Load reads the file and applies it. On error the table is unchanged.
func (r *Reloader) Load() (*File, error) {
	f, err := LoadWithLoader(r.loader, r.path)
	if err != nil {
		return nil, err
	}
	if err := r.Apply(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Apply replaces the mappings of every group the reloader has seen with
// the entries of f. Groups f no longer uses end up empty.
func (r *Reloader) Apply(f *File) error {
	groups, err := f.Entries(r.compiler)
	if err != nil {
		return err
	}

	r.mu.Lock()
	names := make(map[string]bool, len(r.owners)+len(groups))
	for g := range r.owners {
		names[g] = true
	}
	for g := range groups {
		names[g] = true
	}
	owners := make(map[string]mapping.Owner, len(names))
	for g := range names {
		owners[g] = r.ownerLocked(g)
	}
	r.mu.Unlock()

	swap := make(map[mapping.Owner][]mapping.Entry, len(owners))
	total := 0
	for g, owner := range owners {
		swap[owner] = groups[g]
		total += len(groups[g])
	}
	if err := r.table.ReplaceOwners(swap); err != nil {
		return err
	}

	r.mu.Lock()
	r.current = f
	handlers := append([]func(*File){}, r.onReload...)
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{"path": r.path, "mappings": total}).Info("config loaded")
	for _, fn := range handlers {
		fn(f)
	}
	return nil
}

// Watch reloads the file whenever it changes until Close.
func (r *Reloader) Watch() error {
	w, err := watcher.New(watcher.WithDebounce(r.debounce))
	if err != nil {
		return err
	}
	if err := w.Watch(r.path); err != nil {
		_ = w.Stop()
		return err
	}
	w.OnChange(r.handleChange)
	w.OnError(r.fail)

	r.mu.Lock()
	old := r.watcher
	r.watcher = w
	r.mu.Unlock()
	if old != nil {
		_ = old.Stop()
	}

	w.Start()
	return nil
}

func (r *Reloader) handleChange(ev watcher.Event) {
	r.log.WithFields(logrus.Fields{"path": ev.Path, "op": ev.Op}).Debug("config changed")
	if _, err := r.Load(); err != nil {
		r.fail(err)
	}
}

func (r *Reloader) fail(err error) {
	r.log.WithError(err).WithField("path", r.path).Warn("config reload failed")

	r.mu.Lock()
	handlers := append([]func(error){}, r.onError...)
	r.mu.Unlock()
	for _, fn := range handlers {
		fn(err)
	}
}

// Close stops watching.
func (r *Reloader) Close() error {
	r.mu.Lock()
	w := r.watcher
	r.watcher = nil
	r.mu.Unlock()
	if w == nil {
		return nil
	}
	return w.Stop()
}
