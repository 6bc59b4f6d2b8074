package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.String())
	}
}

func TestWatchAndUnwatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))

	w := newWatcher(t)
	require.NoError(t, w.Watch(a))
	require.NoError(t, w.Watch(b))
	require.NoError(t, w.Watch(a))
	assert.ElementsMatch(t, []string{a, b}, w.WatchedFiles())

	require.NoError(t, w.Unwatch(a))
	assert.Equal(t, []string{b}, w.WatchedFiles())
	require.NoError(t, w.Unwatch(a))

	assert.Error(t, w.Watch(filepath.Join(dir, "missing", "c.toml")))
}

func TestWriteIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "maps.toml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	w := newWatcher(t, WithDebounce(0))
	var rec recorder
	w.OnChange(rec.handle)
	require.NoError(t, w.Watch(path))
	w.Start()
	assert.True(t, w.IsRunning())

	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))
	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 },
		2*time.Second, 10*time.Millisecond)
	assert.Equal(t, path, rec.snapshot()[0].Path)
}

func TestOtherFilesAreIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "maps.toml")
	other := filepath.Join(dir, "other.toml")

	w := newWatcher(t, WithDebounce(0))
	var rec recorder
	w.OnChange(rec.handle)
	require.NoError(t, w.Watch(path))
	w.Start()

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 },
		2*time.Second, 10*time.Millisecond)
	for _, e := range rec.snapshot() {
		assert.Equal(t, path, e.Path)
	}
}

func TestDebounceCoalesces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "maps.yaml")

	w := newWatcher(t, WithDebounce(100*time.Millisecond))
	var rec recorder
	w.OnChange(rec.handle)
	require.NoError(t, w.Watch(path))
	w.Start()

	require.NoError(t, os.WriteFile(path, []byte("1"), 0o644))
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("2"), 0o644))
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 },
		2*time.Second, 10*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	events := rec.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, OpCreate, events[0].Op)
}

func TestRenameOverIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "maps.toml")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	w := newWatcher(t, WithDebounce(50*time.Millisecond))
	var rec recorder
	w.OnChange(rec.handle)
	require.NoError(t, w.Watch(path))
	w.Start()

	tmp := filepath.Join(dir, ".maps.toml.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("new"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 },
		2*time.Second, 10*time.Millisecond)
	assert.Equal(t, OpCreate, rec.snapshot()[0].Op)
}

func TestPanickingHandler(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "maps.toml")

	w := newWatcher(t, WithDebounce(0))
	var rec recorder
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(rec.handle)
	require.NoError(t, w.Watch(path))
	w.Start()

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestStop(t *testing.T) {
	w := newWatcher(t)
	w.Start()
	require.NoError(t, w.Stop())
	assert.False(t, w.IsRunning())
	require.NoError(t, w.Stop())
	assert.ErrorIs(t, w.Watch(filepath.Join(t.TempDir(), "x")), ErrClosed)
}
