package exentry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimkeys/internal/input/key"
)

func typeKeys(t *testing.T, e *Entry, keys string) {
	t.Helper()
	for _, k := range key.MustParseSequence(keys) {
		require.True(t, e.ProcessKey(k), k.String())
	}
}

func TestEntryEditing(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want string
	}{
		{"plain", "foo", "foo"},
		{"backspace", "fooo<BS>", "foo"},
		{"ctrl-w", "set nu<C-w>", "set "},
		{"ctrl-u", "abc<Left><C-u>", "c"},
		{"insert in middle", "ac<Left>b", "abc"},
		{"home and end", "bc<Home>a<End>d", "abcd"},
		{"delete", "abc<Home><Del>", "bc"},
		{"tab", "a<Tab>b", "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			e.Start(0, ':')
			typeKeys(t, e, tt.keys)
			assert.Equal(t, tt.want, e.Text())
		})
	}
}

func TestEntryRejects(t *testing.T) {
	e := New()
	assert.False(t, e.ProcessKey(key.Char('a')), "inactive")
	e.Start(0, '/')
	assert.False(t, e.ProcessKey(key.NewSpecial(key.KeyF1, key.ModNone)))
	assert.False(t, e.ProcessKey(key.Enter))
}

func TestEntryCountRange(t *testing.T) {
	e := New()
	e.Start(3, ':')
	assert.Equal(t, ".,.+2", e.Text())
	e.Start(3, '/')
	assert.Equal(t, "", e.Text())
}

func TestEntryEndAndCancel(t *testing.T) {
	e := New()
	e.Start(0, '/')
	typeKeys(t, e, "foo")
	assert.Equal(t, "/foo", e.String())
	assert.Equal(t, "foo", e.End())
	assert.False(t, e.Active())
	assert.Equal(t, 1, e.History('/').Len())

	e.Start(0, '/')
	typeKeys(t, e, "bar")
	e.Cancel()
	assert.False(t, e.Active())
	assert.Equal(t, 1, e.History('/').Len())
}

func TestEntryHistoryRecall(t *testing.T) {
	e := New()
	for _, line := range []string{"first", "second"} {
		e.Start(0, ':')
		typeKeys(t, e, line)
		e.End()
	}

	e.Start(0, ':')
	typeKeys(t, e, "x")
	typeKeys(t, e, "<Up>")
	assert.Equal(t, "second", e.Text())
	typeKeys(t, e, "<Up>")
	assert.Equal(t, "first", e.Text())
	assert.False(t, e.ProcessKey(key.NewSpecial(key.KeyUp, key.ModNone)))
	typeKeys(t, e, "<Down><Down>")
	assert.Equal(t, "x", e.Text())
	assert.False(t, e.ProcessKey(key.NewSpecial(key.KeyDown, key.ModNone)))
}

func TestEntryPrompt(t *testing.T) {
	e := New()
	e.Start(0, ':')
	typeKeys(t, e, "ab<Left>")
	e.SetPrompt('?')
	assert.Equal(t, ":a?b", e.String())
	e.Insert('x')
	assert.Equal(t, ":axb", e.String())
}

func TestHistory(t *testing.T) {
	h := NewHistory(2)
	h.Add("a")
	h.Add("b")
	h.Add("a")
	h.Add("")
	h.Add("c")

	assert.Equal(t, 2, h.Len())
	first, _ := h.At(0)
	second, _ := h.At(1)
	assert.Equal(t, "c", first)
	assert.Equal(t, "a", second)
	_, ok := h.At(2)
	assert.False(t, ok)
}
