package app

import (
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimkeys/internal/input"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/keytree"
	"github.com/dshills/vimkeys/internal/input/mapping"
	"github.com/dshills/vimkeys/internal/input/mode"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	log, _ := logrustest.NewNullLogger()
	s := NewSession(input.DefaultConfig(), mapping.NewTable(), log,
		input.WithScheduler(mapping.NewManualScheduler()))
	t.Cleanup(s.Close)
	return s
}

func feed(t *testing.T, s *Session, keys string) {
	t.Helper()
	s.Feed(key.MustParseSequence(keys))
}

func recordIDs(s *Session) []string {
	var ids []string
	for _, r := range s.Records() {
		ids = append(ids, r.Command.Action.ID)
	}
	return ids
}

func TestSessionInsert(t *testing.T) {
	s := newTestSession(t)
	feed(t, s, "ihello<BS>")
	assert.Equal(t, mode.Insert, s.Dispatcher().Mode())
	assert.Equal(t, "INSERT", s.Dispatcher().Status())
	assert.Equal(t, "hell", s.Text())

	feed(t, s, "<Esc>")
	assert.Equal(t, mode.Normal, s.Dispatcher().Mode())
	assert.Equal(t, []string{keytree.IDInsert, keytree.IDInsertExit}, recordIDs(s))
}

func TestSessionInsertMapping(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.table.Map(mode.InsertModes, "jk", "<Esc>", false, mapping.UserOwner))

	feed(t, s, "iajkx")
	assert.Equal(t, "a", s.Text())
	assert.Equal(t, mode.Normal, s.Dispatcher().Mode())
	assert.Equal(t, "change.deleteChar", recordIDs(s)[2])
}

func TestSessionCommandLine(t *testing.T) {
	tests := []struct {
		name    string
		keys    string
		message string
		bells   int
	}{
		{"unknown command", ":frob<CR>", "E492: Not an editor command: frob", 1},
		{"list without mappings", ":nmap<CR>", "No mapping found", 0},
		{"missing right hand side", ":nmap x<CR>", "E474: Invalid argument: nmap x", 1},
		{"empty line", ":<CR>", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			feed(t, s, tt.keys)
			assert.Equal(t, tt.message, s.LastMessage())
			assert.Equal(t, tt.bells, s.Bells())
			assert.Equal(t, mode.Normal, s.Dispatcher().Mode())
			assert.False(t, s.QuitRequested())
		})
	}
}

func TestSessionMapCommand(t *testing.T) {
	s := newTestSession(t)
	feed(t, s, ":nnoremap Q j<CR>")
	assert.Equal(t, []string{"nnoremap Q j"}, s.CommandLines())

	e := s.table.Lookup(mode.MapNormal, key.MustParseSequence("Q"))
	require.NotNil(t, e)
	assert.False(t, e.Recursive)
	assert.Equal(t, mapping.UserOwner, e.Owner)

	feed(t, s, "Q")
	ids := recordIDs(s)
	assert.Equal(t, "motion.down", ids[len(ids)-1])

	feed(t, s, ":nmap<CR>")
	assert.Contains(t, s.LastMessage(), "Q")
}

func TestSessionQuit(t *testing.T) {
	for _, cmd := range []string{"q", "quit", "q!", "qa"} {
		t.Run(cmd, func(t *testing.T) {
			s := newTestSession(t)
			feed(t, s, ":"+cmd+"<CR>")
			assert.True(t, s.QuitRequested())
		})
	}
}

func TestSessionVisual(t *testing.T) {
	t.Run("toggles", func(t *testing.T) {
		s := newTestSession(t)
		st := s.Dispatcher().State()

		feed(t, s, "v")
		assert.Equal(t, mode.Visual, st.Mode())
		assert.Equal(t, mode.SubVisualChar, st.SubMode())
		assert.Equal(t, "-- VISUAL --", s.Dispatcher().Status())

		feed(t, s, "V")
		assert.Equal(t, mode.SubVisualLine, st.SubMode())
		assert.Equal(t, "-- VISUAL LINE --", s.Dispatcher().Status())

		feed(t, s, "V")
		assert.Equal(t, mode.Normal, st.Mode())
	})

	t.Run("escape", func(t *testing.T) {
		s := newTestSession(t)
		feed(t, s, "<C-v><Esc>")
		assert.Equal(t, mode.Normal, s.Dispatcher().Mode())
	})

	t.Run("operator leaves visual", func(t *testing.T) {
		s := newTestSession(t)
		feed(t, s, "vx")
		assert.Equal(t, mode.Normal, s.Dispatcher().Mode())
	})

	t.Run("change enters insert", func(t *testing.T) {
		s := newTestSession(t)
		feed(t, s, "vc")
		assert.Equal(t, mode.Insert, s.Dispatcher().Mode())
		feed(t, s, "<Esc>")
		assert.Equal(t, mode.Normal, s.Dispatcher().Mode())
	})
}

func TestSessionMacro(t *testing.T) {
	s := newTestSession(t)
	feed(t, s, "qa")
	assert.Equal(t, "recording", s.Dispatcher().Status())

	feed(t, s, "ix<Esc>q")
	assert.Equal(t, "", s.Dispatcher().Status())

	feed(t, s, "@a")
	assert.Equal(t, "xx", s.Text())
	assert.Equal(t, mode.Normal, s.Dispatcher().Mode())
}

func TestSessionDotRepeat(t *testing.T) {
	s := newTestSession(t)
	feed(t, s, "x.")
	assert.Equal(t, []string{"change.deleteChar", keytree.IDRepeat, "change.deleteChar"}, recordIDs(s))
}

func TestSessionInsertOneCommand(t *testing.T) {
	s := newTestSession(t)
	feed(t, s, "i<C-o>")
	assert.Equal(t, mode.InsertNormal, s.Dispatcher().Mode())
	feed(t, s, "j")
	assert.Equal(t, mode.Insert, s.Dispatcher().Mode())
}

func TestSessionReadOnly(t *testing.T) {
	s := newTestSession(t)
	s.SetReadOnly(true)
	feed(t, s, "x")
	assert.Empty(t, s.Records())
	assert.Equal(t, 1, s.Bells())

	feed(t, s, "j")
	assert.Equal(t, []string{"motion.down"}, recordIDs(s))
}

func TestRecordString(t *testing.T) {
	s := newTestSession(t)
	feed(t, s, "3x")
	require.Len(t, s.Records(), 1)
	text := s.Records()[0].String()
	assert.Contains(t, text, "normal")
	assert.Contains(t, text, "3x")
}

func TestSessionRecordLimit(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < maxRecords+10; i++ {
		feed(t, s, "j")
	}
	assert.Len(t, s.Records(), maxRecords)
}
