package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSequence(t *testing.T) {
	tests := []struct {
		in   string
		want Sequence
	}{
		{"", Sequence{}},
		{"dd", Sequence{Char('d'), Char('d')}},
		{"<C-x><C-s>", Sequence{Ctrl('x'), Ctrl('s')}},
		{":w<CR>", Sequence{Char(':'), Char('w'), Enter}},
		{"a b", Sequence{Char('a'), Char(' '), Char('b')}},
		{"<lt>>", Sequence{Char('<'), Char('>')}},
		{"<", Sequence{Char('<')}},
		{"<>", Sequence{Char('<'), Char('>')}},
		{"<notakey>x", Sequence{Char('<'), Char('n'), Char('o'), Char('t'), Char('a'),
			Char('k'), Char('e'), Char('y'), Char('>'), Char('x')}},
		{"<Plug>(x)", Sequence{Plug, Char('('), Char('x'), Char(')')}},
		{"äö", Sequence{Char('ä'), Char('ö')}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSequence(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseSequenceInvalidUTF8(t *testing.T) {
	_, err := ParseSequence("a\xffb")
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

func TestSequencePrefix(t *testing.T) {
	seq := MustParseSequence("abc")

	assert.True(t, seq.HasPrefix(nil))
	assert.True(t, seq.HasPrefix(MustParseSequence("ab")))
	assert.True(t, seq.HasPrefix(seq))
	assert.False(t, seq.HasPrefix(MustParseSequence("abcd")))
	assert.False(t, seq.HasPrefix(MustParseSequence("b")))
}

func TestSequenceStringAndClone(t *testing.T) {
	seq := MustParseSequence("<C-w>s<Esc>")
	assert.Equal(t, "<C-w>s<Esc>", seq.String())
	assert.Equal(t, "^Ws^[", seq.Printable())

	clone := seq.Clone()
	clone[1] = Char('v')
	assert.Equal(t, Char('s'), seq[1])

	assert.Nil(t, Sequence(nil).Clone())
}

func TestSequenceIsPlug(t *testing.T) {
	assert.True(t, MustParseSequence("<Plug>(foo)").IsPlug())
	assert.False(t, MustParseSequence("foo").IsPlug())
	assert.False(t, Sequence{}.IsPlug())
}
