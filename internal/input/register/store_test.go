package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimkeys/internal/input/command"
	"github.com/dshills/vimkeys/internal/input/key"
)

func TestIsValid(t *testing.T) {
	for _, r := range "\"azAZ09-_.%#:/=+*" {
		assert.True(t, IsValid(r), string(r))
	}
	for _, r := range "!@ &\x00é" {
		assert.False(t, IsValid(r), string(r))
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name rune
		want Kind
	}{
		{'a', Named},
		{'Q', Named},
		{'0', LastYank},
		{'5', Numbered},
		{'_', BlackHole},
		{'+', Clipboard},
		{'"', Unnamed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.name), string(tt.name))
	}
}

func TestSelect(t *testing.T) {
	s := NewStore()
	assert.True(t, s.IsDefaultSelected())
	require.NoError(t, s.Select('a'))
	assert.Equal(t, 'a', s.Selected())
	assert.ErrorIs(t, s.Select('!'), ErrInvalidRegister)
	s.ResetSelected()
	assert.True(t, s.IsDefaultSelected())
}

func TestSetAndAppend(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set('a', "foo", false))
	require.NoError(t, s.Set('A', "bar", true))

	reg, ok := s.Get('a')
	require.True(t, ok)
	assert.Equal(t, "foobar", reg.Text)
	assert.True(t, reg.Linewise)

	unnamed, ok := s.Get('"')
	require.True(t, ok)
	assert.Equal(t, "foobar", unnamed.Text)
}

func TestSetSpecial(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set('_', "gone", false))
	_, ok := s.Get('_')
	assert.False(t, ok)

	assert.ErrorIs(t, s.Set(':', "x", false), ErrReadOnly)
	s.SetLastCommand("wq")
	reg, ok := s.Get(':')
	require.True(t, ok)
	assert.Equal(t, "wq", reg.Text)

	clip := &MemoryClipboard{}
	s.SetClipboard(clip)
	require.NoError(t, s.Set('+', "copied", false))
	assert.Equal(t, "copied", clip.text)
	reg, ok = s.Get('*')
	require.True(t, ok)
	assert.Equal(t, "copied", reg.Text)
}

func TestRecording(t *testing.T) {
	s := NewStore()
	s.Record(key.Char('x'))
	require.NoError(t, s.StartRecording('q'))
	assert.ErrorIs(t, s.StartRecording('w'), ErrRecording)

	for _, k := range key.MustParseSequence("dw<Esc>") {
		s.Record(k)
	}
	name, on := s.Recording()
	assert.True(t, on)
	assert.Equal(t, 'q', name)

	keys := s.StopRecording()
	assert.Equal(t, "dw<Esc>", keys.String())
	_, on = s.Recording()
	assert.False(t, on)

	macro, err := s.Macro('q')
	require.NoError(t, err)
	assert.Equal(t, "dw<Esc>", macro.String())

	again, err := s.Macro('@')
	require.NoError(t, err)
	assert.Equal(t, macro, again)
}

func TestRecordingAppend(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.StartRecording('q'))
	s.Record(key.Char('j'))
	s.StopRecording()

	require.NoError(t, s.StartRecording('Q'))
	s.Record(key.Char('k'))
	s.StopRecording()

	macro, err := s.Macro('q')
	require.NoError(t, err)
	assert.Equal(t, "jk", macro.String())
}

func TestMacroFromText(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set('m', "ihi<Esc>", false))
	macro, err := s.Macro('m')
	require.NoError(t, err)
	assert.Equal(t, key.MustParseSequence("ihi<Esc>"), macro)

	_, err = s.Macro('z')
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLastChange(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.LastChange())
	cmd := &command.Command{Action: &command.Action{ID: "change.deleteChar"}}
	s.SetLastChange(cmd)
	assert.Same(t, cmd, s.LastChange())

	arg := command.CharArgument('x')
	s.SetCaptured(arg)
	assert.Same(t, arg, s.Captured())
}
