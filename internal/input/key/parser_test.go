package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Stroke
	}{
		{"a", Char('a')},
		{"A", Char('A')},
		{"<", Char('<')},
		{"é", Char('é')},
		{"<Esc>", Escape},
		{"<esc>", Escape},
		{"<CR>", Enter},
		{"<Enter>", Enter},
		{"<Tab>", Tab},
		{"<Del>", Delete},
		{"<BS>", Backspace},
		{"<lt>", Char('<')},
		{"<Bar>", Char('|')},
		{"<Space>", Char(' ')},
		{"<C-w>", Ctrl('w')},
		{"<C-W>", Ctrl('w')},
		{"<c-[>", Ctrl('[')},
		{"<C-->", Ctrl('-')},
		{"<S-a>", Char('A')},
		{"<A-x>", NewRune('x', ModAlt)},
		{"<M-x>", NewRune('x', ModAlt)},
		{"<S-Tab>", NewSpecial(KeyTab, ModShift)},
		{"<F12>", NewSpecial(KeyF12, ModNone)},
		{"<Plug>", Plug},
		{"Ctrl+S", Ctrl('s')},
		{"Alt+F4", NewSpecial(KeyF4, ModAlt)},
		{"Escape", Escape},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrEmptySpec)

	for _, spec := range []string{"<X-a>", "<nosuchkey>", "Hyper+a", "bogus", "<>"} {
		_, err := Parse(spec)
		assert.ErrorIs(t, err, ErrInvalidSpec, spec)
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("<nope>") })
	assert.NotPanics(t, func() { MustParse("<C-v>") })
}

func TestKeyFromName(t *testing.T) {
	assert.Equal(t, KeyF1, KeyFromName("f1"))
	assert.Equal(t, KeyF10, KeyFromName("F10"))
	assert.Equal(t, KeyNone, KeyFromName("f13"))
	assert.Equal(t, KeyNone, KeyFromName("f1x"))
	assert.Equal(t, KeyEnter, KeyFromName("Return"))
}
