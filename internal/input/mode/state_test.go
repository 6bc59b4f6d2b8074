package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMachineStartsInNormal(t *testing.T) {
	s := NewStateMachine()
	assert.Equal(t, Normal, s.Mode())
	assert.Equal(t, SubNone, s.SubMode())
	assert.Equal(t, MapNormal, s.MappingMode())
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, "", s.Status())
}

func TestPushPop(t *testing.T) {
	s := NewStateMachine()
	s.Push(OpPending, SubNone)
	assert.Equal(t, MapOpPending, s.MappingMode())
	assert.Equal(t, "normal:none, op-pending:none", s.String())

	require.True(t, s.Pop())
	assert.Equal(t, Normal, s.Mode())
	assert.False(t, s.Pop(), "base frame stays")
	assert.Equal(t, 1, s.Depth())
}

func TestResetOpPending(t *testing.T) {
	s := NewStateMachine()
	s.Push(Insert, SubNone)
	s.ResetOpPending()
	assert.Equal(t, Insert, s.Mode())

	s.Push(OpPending, SubNone)
	s.ResetOpPending()
	assert.Equal(t, Insert, s.Mode())
}

func TestReset(t *testing.T) {
	s := NewStateMachine()
	s.Push(Visual, SubVisualLine)
	s.Push(OpPending, SubNone)
	s.Digraph.StartDigraph()
	s.Recording = true

	s.Reset()
	assert.Equal(t, Normal, s.Mode())
	assert.Equal(t, 1, s.Depth())
	assert.False(t, s.Digraph.Active())
	assert.True(t, s.Recording)
}

func TestToggleInsertReplace(t *testing.T) {
	s := NewStateMachine()
	s.Push(Insert, SubNone)
	s.ToggleInsertReplace()
	assert.Equal(t, Replace, s.Mode())
	assert.Equal(t, 2, s.Depth())
	s.ToggleInsertReplace()
	assert.Equal(t, Insert, s.Mode())

	s.Pop()
	s.ToggleInsertReplace()
	assert.Equal(t, Normal, s.Mode())
}

func TestAcceptsCount(t *testing.T) {
	tests := []struct {
		mode Mode
		want bool
	}{
		{Normal, true},
		{InsertNormal, true},
		{Visual, true},
		{OpPending, true},
		{Insert, false},
		{Replace, false},
		{Select, false},
		{CmdLine, false},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s := NewStateMachine()
			s.Push(tt.mode, SubNone)
			assert.Equal(t, tt.want, s.AcceptsCount())
		})
	}

	s := NewStateMachine()
	s.RegisterPending = true
	assert.False(t, s.AcceptsCount())
}

func TestOnChange(t *testing.T) {
	s := NewStateMachine()
	var seen []Frame
	unregister := s.OnChange(func(from, to Frame) {
		seen = append(seen, to)
	})

	s.Push(Insert, SubNone)
	s.Push(Insert, SubNone) // same frame, no notification
	s.Pop()
	unregister()
	s.Pop()

	assert.Equal(t, []Frame{{Mode: Insert}}, seen)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		frame Frame
		want  string
	}{
		{Frame{Normal, SubNone}, ""},
		{Frame{Insert, SubNone}, "INSERT"},
		{Frame{Replace, SubNone}, "REPLACE"},
		{Frame{InsertNormal, SubNone}, "-- (insert) --"},
		{Frame{Visual, SubVisualChar}, "-- VISUAL --"},
		{Frame{Visual, SubVisualLine}, "-- VISUAL LINE --"},
		{Frame{Select, SubVisualBlock}, "-- SELECT BLOCK --"},
		{Frame{InsertVisual, SubVisualLine}, "-- (insert) VISUAL LINE --"},
		{Frame{OpPending, SubNone}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.frame.Status(), tt.frame.String())
	}

	s := NewStateMachine()
	s.Recording = true
	assert.Equal(t, "recording", s.Status())
	s.Push(Insert, SubNone)
	assert.Equal(t, "INSERT - recording", s.Status())
}

func TestModeToMappingMode(t *testing.T) {
	want := map[Mode]MappingMode{
		Normal:       MapNormal,
		Insert:       MapInsert,
		Replace:      MapInsert,
		Visual:       MapVisual,
		Select:       MapSelect,
		CmdLine:      MapCmdLine,
		OpPending:    MapOpPending,
		InsertNormal: MapNormal,
		InsertVisual: MapVisual,
		InsertSelect: MapSelect,
	}
	for m, mm := range want {
		assert.Equal(t, mm, m.MappingMode(), m.String())
	}
}

func TestParseMapCommand(t *testing.T) {
	tests := []struct {
		name      string
		modes     MappingModes
		recursive bool
	}{
		{"map", NVOModes, true},
		{"noremap", NVOModes, false},
		{"nmap", NormalModes, true},
		{"nnoremap", NormalModes, false},
		{"vmap", VisualModes, true},
		{"xnoremap", XModes, false},
		{"smap", SelectModes, true},
		{"omap", OpModes, true},
		{"imap", InsertModes, true},
		{"inoremap", InsertModes, false},
		{"cmap", CmdLineModes, true},
		{"map!", InsertCmdLine, true},
		{"noremap!", InsertCmdLine, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			modes, recursive, err := ParseMapCommand(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.modes, modes)
			assert.Equal(t, tt.recursive, recursive)
		})
	}

	for _, bad := range []string{"zmap", "nmap!", "mapx", "set"} {
		_, _, err := ParseMapCommand(bad)
		assert.Error(t, err, bad)
	}
}

func TestMappingModes(t *testing.T) {
	set, err := ParseModeLetters("nvo")
	require.NoError(t, err)
	assert.Equal(t, NVOModes, set)
	assert.Equal(t, "nxso", set.String())
	assert.True(t, set.Has(MapSelect))
	assert.False(t, set.Has(MapInsert))
	assert.Equal(t, ModesOf(MapInsert, MapCmdLine), InsertCmdLine)

	_, err = ParseModeLetters("q")
	assert.Error(t, err)
}
