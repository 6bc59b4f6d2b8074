package config

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimkeys/internal/config/loader"
	"github.com/dshills/vimkeys/internal/input"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mapping"
	"github.com/dshills/vimkeys/internal/input/mode"
	"github.com/dshills/vimkeys/internal/input/register"
)

const sampleTOML = `
[settings]
maxmapdepth = 5
timeoutlen = 250
timeout = false
showcmd = false
clipboard = "memory"
log_level = "debug"

[[map]]
cmd = "inoremap"
from = "jk"
to = "<Esc>"

[[map]]
modes = "nx"
from = "<Space>y"
to = '"+y'
description = "yank to clipboard"

[[map]]
modes = "n"
from = "<Space>m"
lua = 'vk.message("hi")'
owner = "lua"
`

type fakeCompiler struct {
	names   []string
	sources []string
	err     error
}

func (c *fakeCompiler) Compile(name, source string) (mapping.Handler, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.names = append(c.names, name)
	c.sources = append(c.sources, source)
	return func(env mapping.Env) error { return nil }, nil
}

func TestParseTOML(t *testing.T) {
	f, err := Parse(loader.FormatTOML, "maps.toml", []byte(sampleTOML))
	require.NoError(t, err)

	cfg := f.InputConfig()
	assert.Equal(t, 5, cfg.MaxMapDepth)
	assert.Equal(t, 250*time.Millisecond, cfg.TimeoutLen)
	assert.False(t, cfg.Timeout)
	assert.False(t, cfg.ShowCmd)
	assert.Equal(t, logrus.DebugLevel, f.LogLevel(logrus.InfoLevel))
	assert.IsType(t, &register.MemoryClipboard{}, f.ClipboardProvider())
	assert.Len(t, f.Maps, 3)
	assert.Equal(t, []string{"config", "lua"}, f.Groups())
}

func TestParseYAML(t *testing.T) {
	data := `
settings:
  timeoutlen: 150
map:
  - cmd: "map!"
    from: "<C-l>"
    to: "<Right>"
`
	f, err := Parse(loader.FormatYAML, "maps.yaml", []byte(data))
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, f.InputConfig().TimeoutLen)

	groups, err := f.Entries(nil)
	require.NoError(t, err)
	require.Len(t, groups[DefaultGroup], 1)
	e := groups[DefaultGroup][0]
	assert.Equal(t, mode.InsertCmdLine, e.Modes)
	assert.True(t, e.Recursive)
	assert.Equal(t, key.MustParseSequence("<Right>"), e.To)
}

func TestDefaultsWhenUnset(t *testing.T) {
	f, err := Parse(loader.FormatTOML, "empty.toml", nil)
	require.NoError(t, err)
	assert.Equal(t, input.DefaultConfig(), f.InputConfig())
	assert.Equal(t, logrus.WarnLevel, f.LogLevel(logrus.WarnLevel))
	assert.Empty(t, f.Groups())
}

func TestEntries(t *testing.T) {
	f, err := Parse(loader.FormatTOML, "maps.toml", []byte(sampleTOML))
	require.NoError(t, err)

	var c fakeCompiler
	groups, err := f.Entries(&c)
	require.NoError(t, err)
	require.Len(t, groups["config"], 2)
	require.Len(t, groups["lua"], 1)

	jk := groups["config"][0]
	assert.Equal(t, mode.InsertModes, jk.Modes)
	assert.False(t, jk.Recursive)
	assert.Equal(t, key.MustParseSequence("jk"), jk.From)

	y := groups["config"][1]
	assert.Equal(t, mode.NormalModes|mode.XModes, y.Modes)
	assert.True(t, y.Recursive)
	assert.Equal(t, "yank to clipboard", y.Description)

	lua := groups["lua"][0]
	assert.NotNil(t, lua.Handler)
	assert.Empty(t, lua.To)
	assert.Equal(t, "lua", lua.HandlerName)
	assert.Equal(t, []string{"maps.toml#2"}, c.names)
	assert.Equal(t, []string{`vk.message("hi")`}, c.sources)
}

func TestEntriesCompileFailure(t *testing.T) {
	f, err := Parse(loader.FormatTOML, "maps.toml", []byte(sampleTOML))
	require.NoError(t, err)

	boom := errors.New("syntax error")
	_, err = f.Entries(&fakeCompiler{err: boom})
	assert.ErrorIs(t, err, boom)

	var merr *MappingError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 2, merr.Index)

	_, err = f.Entries(nil)
	assert.ErrorIs(t, err, ErrNoHandlers)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"depth", "[settings]\nmaxmapdepth = 0\n", ErrValidationFailed},
		{"timeoutlen", "[settings]\ntimeoutlen = -1\n", ErrValidationFailed},
		{"clipboard", "[settings]\nclipboard = \"primary\"\n", ErrValidationFailed},
		{"log level", "[settings]\nlog_level = \"loud\"\n", ErrValidationFailed},
		{"unknown command", "[[map]]\ncmd = \"zmap\"\nfrom = \"a\"\nto = \"b\"\n", ErrUnknownMode},
		{"unknown letter", "[[map]]\nmodes = \"q\"\nfrom = \"a\"\nto = \"b\"\n", ErrUnknownMode},
		{"no from", "[[map]]\nto = \"b\"\n", ErrInvalidMapping},
		{"no target", "[[map]]\nfrom = \"a\"\n", ErrInvalidMapping},
		{"both targets", "[[map]]\nfrom = \"a\"\nto = \"b\"\nlua = \"x()\"\n", ErrInvalidMapping},
		{"empty modes", "[[map]]\nmodes = \", \"\nfrom = \"a\"\nto = \"b\"\n", ErrUnknownMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(loader.FormatTOML, "maps.toml", []byte(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseErrorPassesThrough(t *testing.T) {
	_, err := Parse(loader.FormatTOML, "maps.toml", []byte("[settings\n"))
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestDefaultModes(t *testing.T) {
	f := &File{Maps: []MapSpec{{From: "Q", To: "gq", NoRemap: true}}}
	require.NoError(t, f.Validate())
	groups, err := f.Entries(nil)
	require.NoError(t, err)
	e := groups[DefaultGroup][0]
	assert.Equal(t, mode.NVOModes, e.Modes)
	assert.False(t, e.Recursive)
}
