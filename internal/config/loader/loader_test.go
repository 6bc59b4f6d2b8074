package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

type sample struct {
	Settings struct {
		TimeoutLen int  `toml:"timeoutlen" yaml:"timeoutlen"`
		ShowCmd    bool `toml:"showcmd" yaml:"showcmd"`
	} `toml:"settings" yaml:"settings"`
	Maps []struct {
		From string `toml:"from" yaml:"from"`
		To   string `toml:"to" yaml:"to"`
	} `toml:"map" yaml:"map"`
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"maps.toml", FormatTOML},
		{"/etc/vimkeys/MAPS.TOML", FormatTOML},
		{"maps.yaml", FormatYAML},
		{"maps.yml", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatOf("maps.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, "yaml", FormatYAML.String())
}

func TestLoadTOML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/maps.toml", `
[settings]
timeoutlen = 500
showcmd = true

[[map]]
from = "jk"
to = "<Esc>"

[[map]]
from = "<Space>w"
to = ":w<CR>"
`)

	var got sample
	found, err := NewWithFS(memfs).Load("/maps.toml", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 500, got.Settings.TimeoutLen)
	assert.True(t, got.Settings.ShowCmd)
	require.Len(t, got.Maps, 2)
	assert.Equal(t, "<Space>w", got.Maps[1].From)
}

func TestLoadYAML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/maps.yaml", `
settings:
  timeoutlen: 300
map:
  - from: jk
    to: <Esc>
`)

	var got sample
	found, err := NewWithFS(memfs).Load("/maps.yaml", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 300, got.Settings.TimeoutLen)
	require.Len(t, got.Maps, 1)
	assert.Equal(t, "<Esc>", got.Maps[0].To)
}

func TestLoadMissingFile(t *testing.T) {
	var got sample
	found, err := NewWithFS(NewMemFS()).Load("/none.toml", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maps.yml")
	require.NoError(t, os.WriteFile(path, []byte("settings:\n  showcmd: true\n"), 0o644))

	var got sample
	found, err := New().Load(path, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, got.Settings.ShowCmd)
}

func TestEmptyDocuments(t *testing.T) {
	for _, f := range []Format{FormatTOML, FormatYAML} {
		var got sample
		assert.NoError(t, Decode(f, "empty", nil, &got), f.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		data     string
		wantLine int
		contains string
	}{
		{"toml syntax", FormatTOML, "[settings]\ntimeoutlen = = 3\n", 2, ""},
		{"toml unknown key", FormatTOML, "[settings]\nshowcmd = true\ncolour = 1\n", 3, "colour"},
		{"toml wrong type", FormatTOML, "[settings]\nshowcmd = \"yes\"\n", 0, ""},
		{"yaml syntax", FormatYAML, "settings:\n  showcmd: [\n", 0, ""},
		{"yaml unknown key", FormatYAML, "settings:\n  colour: 1\n", 2, "colour"},
		{"yaml wrong type", FormatYAML, "settings:\n  timeoutlen: soon\n", 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sample
			err := Decode(tt.format, "maps", []byte(tt.data), &got)
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "maps", perr.Path)
			if tt.wantLine > 0 {
				assert.Equal(t, tt.wantLine, perr.Line)
			}
			assert.Contains(t, perr.Error(), tt.contains)
			assert.NotNil(t, perr.Unwrap())
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		err  ParseError
		want string
	}{
		{ParseError{Path: "a", Line: 2, Column: 5, Message: "bad"}, "parse error in a at line 2, column 5: bad"},
		{ParseError{Path: "a", Line: 2, Message: "bad"}, "parse error in a at line 2: bad"},
		{ParseError{Path: "a", Message: "bad"}, "parse error in a: bad"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}
