package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mapping"
	"github.com/dshills/vimkeys/internal/input/mode"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func lookup(table *mapping.Table, mm mode.MappingMode, keys string) *mapping.Entry {
	return table.Lookup(mm, key.MustParseSequence(keys))
}

func TestReloaderLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maps.toml")
	writeFile(t, path, sampleTOML)

	table := mapping.NewTable()
	require.NoError(t, table.Map(mode.NormalModes, "Q", "gq", false, mapping.UserOwner))

	var reloads int
	r := NewReloader(path, table, WithCompiler(&fakeCompiler{}))
	r.OnReload(func(*File) { reloads++ })

	f, err := r.Load()
	require.NoError(t, err)
	assert.Same(t, f, r.Current())
	assert.Equal(t, 1, reloads)

	jk := lookup(table, mode.MapInsert, "jk")
	require.NotNil(t, jk)
	assert.Equal(t, r.Owner(DefaultGroup), jk.Owner)
	assert.NotNil(t, lookup(table, mode.MapVisual, "<Space>y"))
	assert.Nil(t, lookup(table, mode.MapSelect, "<Space>y"))
	assert.Equal(t, r.Owner("lua"), lookup(table, mode.MapNormal, "<Space>m").Owner)
	assert.NotNil(t, lookup(table, mode.MapNormal, "Q"))
}

func TestReloaderReplacesOwnEntriesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maps.toml")
	writeFile(t, path, sampleTOML)

	table := mapping.NewTable()
	require.NoError(t, table.Map(mode.InsertModes, "jj", "<Esc>", false, mapping.UserOwner))

	r := NewReloader(path, table, WithCompiler(&fakeCompiler{}))
	_, err := r.Load()
	require.NoError(t, err)
	owner := r.Owner(DefaultGroup)

	writeFile(t, path, "[[map]]\ncmd = \"imap\"\nfrom = \"kj\"\nto = \"<Esc>\"\n")
	_, err = r.Load()
	require.NoError(t, err)

	assert.Nil(t, lookup(table, mode.MapInsert, "jk"))
	assert.Nil(t, lookup(table, mode.MapNormal, "<Space>m"), "groups the file no longer uses are emptied")
	kj := lookup(table, mode.MapInsert, "kj")
	require.NotNil(t, kj)
	assert.Equal(t, owner, kj.Owner, "owners are stable across reloads")
	assert.NotNil(t, lookup(table, mode.MapInsert, "jj"))
}

func TestReloaderKeepsMappingsOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maps.yaml")
	writeFile(t, path, "map:\n  - cmd: imap\n    from: jk\n    to: <Esc>\n")

	table := mapping.NewTable()
	r := NewReloader(path, table)
	_, err := r.Load()
	require.NoError(t, err)

	writeFile(t, path, "map:\n  - cmd: zmap\n    from: jk\n    to: <Esc>\n")
	_, err = r.Load()
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.NotNil(t, lookup(table, mode.MapInsert, "jk"))

	writeFile(t, path, "map: [\n")
	_, err = r.Load()
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
	assert.NotNil(t, lookup(table, mode.MapInsert, "jk"))
}

func TestReloaderMissingFileClearsMappings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maps.toml")
	writeFile(t, path, sampleTOML)

	table := mapping.NewTable()
	r := NewReloader(path, table, WithCompiler(&fakeCompiler{}))
	_, err := r.Load()
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	_, err = r.Load()
	require.NoError(t, err)
	assert.Zero(t, table.Len(mode.MapInsert))
	assert.Zero(t, table.Len(mode.MapNormal))
}

func TestReloaderWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maps.toml")
	writeFile(t, path, "[[map]]\ncmd = \"imap\"\nfrom = \"jk\"\nto = \"<Esc>\"\n")

	table := mapping.NewTable()
	var failures atomic.Int32
	r := NewReloader(path, table, WithDebounce(20*time.Millisecond))
	r.OnError(func(error) { failures.Add(1) })
	_, err := r.Load()
	require.NoError(t, err)
	require.NoError(t, r.Watch())
	t.Cleanup(func() { _ = r.Close() })

	writeFile(t, path, "[[map]]\ncmd = \"imap\"\nfrom = \"kj\"\nto = \"<Esc>\"\n")
	require.Eventually(t, func() bool {
		return lookup(table, mode.MapInsert, "kj") != nil && lookup(table, mode.MapInsert, "jk") == nil
	}, 2*time.Second, 10*time.Millisecond)

	writeFile(t, path, "[[map]\n")
	require.Eventually(t, func() bool { return failures.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
	assert.NotNil(t, lookup(table, mode.MapInsert, "kj"))

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
}
