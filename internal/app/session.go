package app

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dshills/vimkeys/internal/input"
	"github.com/dshills/vimkeys/internal/input/command"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/keytree"
	"github.com/dshills/vimkeys/internal/input/mapping"
	"github.com/dshills/vimkeys/internal/input/mode"
)

// maxRecords bounds the command history a session keeps.
const maxRecords = 200

// Record is one command the session executed.
type Record struct {
	Command *command.Command
	// Mode is the mode the command was typed in.
	Mode mode.Mode
}

func (r Record) String() string {
	return fmt.Sprintf("%-14s %-12s %s", r.Mode, r.Command.Keys.Printable(), r.Command)
}

// Session drives a dispatcher without an editor behind it. It tracks the
// mode changes, command lines and macros a real editor would perform and
// records every other command instead of running it.
type Session struct {
	mu sync.Mutex

	d     *input.Dispatcher
	table *mapping.Table
	log   logrus.FieldLogger

	records  []Record
	text     []rune
	messages []string
	exLines  []string
	bells    int
	quit     bool
	readOnly bool
}

// NewSession creates a session with its own dispatcher. opts are passed
// to input.New after the session's own collaborators.
func NewSession(cfg input.Config, table *mapping.Table, log logrus.FieldLogger, opts ...input.Option) *Session {
	s := &Session{table: table, log: log}
	all := append([]input.Option{
		input.WithLogger(log),
		input.WithExecutor(s),
		input.WithInserter(s),
		input.WithMessages(s),
		input.WithTarget(s),
	}, opts...)
	s.d = input.New(cfg, table, all...)
	return s
}

// Dispatcher returns the session's dispatcher.
func (s *Session) Dispatcher() *input.Dispatcher { return s.d }

// HandleKey dispatches one typed key.
func (s *Session) HandleKey(k key.Stroke) {
	s.d.HandleKey(k)
}

// Feed dispatches keys as if typed.
func (s *Session) Feed(keys key.Sequence) {
	for _, k := range keys {
		s.d.HandleKey(k)
	}
}

// Close releases the dispatcher.
func (s *Session) Close() {
	s.d.Close()
}

// SetReadOnly makes write commands fail.
func (s *Session) SetReadOnly(ro bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly = ro
}

// Execute implements input.Executor.
func (s *Session) Execute(ctx *input.ExecContext, cmd *command.Command) error {
	s.record(Record{Command: cmd, Mode: ctx.Frame.Mode})

	st := ctx.State()
	switch cmd.Action.ID {
	case keytree.IDInsert, keytree.IDAppend, keytree.IDInsertLineBeg,
		keytree.IDAppendLineEnd, keytree.IDOpenBelow, keytree.IDOpenAbove:
		st.Push(mode.Insert, mode.SubNone)
	case "operator.change":
		if ctx.Caret == ctx.Carets-1 {
			st.Push(mode.Insert, mode.SubNone)
		}
	case keytree.IDInsertExit:
		st.Pop()
	case keytree.IDInsertOneCmd:
		st.Push(mode.InsertNormal, mode.SubNone)
	case keytree.IDInsertToggle:
		st.ToggleInsertReplace()
	case keytree.IDInsertDigraph, keytree.IDInsertLiteral:
		if cmd.Argument != nil {
			s.insert(cmd.Argument.Char)
		}
	case keytree.IDVisualChar:
		s.toggleVisual(st, mode.SubVisualChar)
	case keytree.IDVisualLine:
		s.toggleVisual(st, mode.SubVisualLine)
	case keytree.IDVisualBlock:
		s.toggleVisual(st, mode.SubVisualBlock)
	case keytree.IDVisualExit:
		st.Pop()
	case keytree.IDExStart:
		ctx.Entry().Start(cmd.Count(), ':')
		st.Push(mode.CmdLine, mode.SubNone)
	case keytree.IDExProcess:
		line := ctx.Entry().End()
		st.Pop()
		return s.runEx(ctx, line)
	case keytree.IDExCancel:
		ctx.Entry().Cancel()
		st.Pop()
	case keytree.IDMacroRecord:
		return s.toggleRecording(ctx, cmd)
	case keytree.IDMacroPlay:
		keys, err := ctx.Registers().Macro(cmd.Argument.Char)
		if err != nil {
			return err
		}
		ctx.Feed(keys, true)
	case keytree.IDRepeat:
		return ctx.Dispatcher().RepeatLastChange(cmd.RawCount)
	}

	if cmd.Flags.Has(command.FlagExitVisual) && st.Mode() == mode.Visual {
		st.Pop()
		if cmd.Action.ID == "visual.change" {
			st.Push(mode.Insert, mode.SubNone)
		}
	}
	return nil
}

func (s *Session) toggleVisual(st *mode.StateMachine, sub mode.SubMode) {
	switch {
	case st.Mode() != mode.Visual:
		st.Push(mode.Visual, sub)
	case st.SubMode() == sub:
		st.Pop()
	default:
		st.SetSubMode(sub)
	}
}

func (s *Session) toggleRecording(ctx *input.ExecContext, cmd *command.Command) error {
	st := ctx.State()
	if cmd.Argument == nil {
		keys := ctx.Registers().StopRecording()
		st.Recording = false
		s.log.WithField("keys", keys.String()).Debug("macro recorded")
		return nil
	}
	if err := ctx.Registers().StartRecording(cmd.Argument.Char); err != nil {
		return err
	}
	st.Recording = true
	return nil
}

// runEx executes a command line. Only quitting and the :map family are
// understood.
func (s *Session) runEx(ctx *input.ExecContext, line string) error {
	s.mu.Lock()
	s.exLines = append(s.exLines, line)
	s.mu.Unlock()

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := fields[0]
	switch name {
	case "q", "quit", "q!", "quit!", "qa", "qall":
		s.mu.Lock()
		s.quit = true
		s.mu.Unlock()
		return nil
	}

	modes, recursive, err := mode.ParseMapCommand(name)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrNotAnEditorCommand, line)
		ctx.ShowMessage(err.Error())
		return err
	}
	if len(fields) == 1 {
		s.listMappings(ctx, modes)
		return nil
	}
	if len(fields) < 3 {
		err := fmt.Errorf("E474: Invalid argument: %s", line)
		ctx.ShowMessage(err.Error())
		return err
	}
	lhs := fields[1]
	rhs := strings.Join(fields[2:], " ")
	if err := s.table.Map(modes, lhs, rhs, recursive, mapping.UserOwner); err != nil {
		ctx.ShowMessage(err.Error())
		return err
	}
	return nil
}

func (s *Session) listMappings(ctx *input.ExecContext, modes mode.MappingModes) {
	seen := make(map[*mapping.Entry]bool)
	var lines []string
	for _, mm := range modes.List() {
		for _, e := range s.table.List(mm) {
			if !seen[e] {
				seen[e] = true
				lines = append(lines, e.String())
			}
		}
	}
	if len(lines) == 0 {
		ctx.ShowMessage("No mapping found")
		return
	}
	ctx.ShowMessage(strings.Join(lines, "\n"))
}

// InsertKey implements input.Inserter.
func (s *Session) InsertKey(_ *input.ExecContext, k key.Stroke) bool {
	if k.Key == key.KeyBackspace && k.Modifiers == key.ModNone {
		s.mu.Lock()
		if n := len(s.text); n > 0 {
			s.text = s.text[:n-1]
		}
		s.mu.Unlock()
		return true
	}
	r, ok := k.Char()
	if !ok {
		return false
	}
	s.insert(r)
	return true
}

func (s *Session) insert(r rune) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = append(s.text, r)
}

// SignalError implements input.Messages.
func (s *Session) SignalError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bells++
}

// ShowMessage implements input.Messages.
func (s *Session) ShowMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, text)
}

// Writable implements input.Target.
func (s *Session) Writable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.readOnly
}

// Carets implements input.Target.
func (s *Session) Carets() int { return 1 }

func (s *Session) record(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	if len(s.records) > maxRecords {
		s.records = s.records[len(s.records)-maxRecords:]
	}
}

// Records returns the executed commands, oldest first.
func (s *Session) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}

// Text returns what was typed in insert mode.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.text)
}

// Messages returns every message shown so far.
func (s *Session) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

// LastMessage returns the most recent message, or "".
func (s *Session) LastMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return ""
	}
	return s.messages[len(s.messages)-1]
}

// CommandLines returns the command lines entered with ':'.
func (s *Session) CommandLines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.exLines...)
}

// Bells returns how many errors were signalled.
func (s *Session) Bells() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bells
}

// QuitRequested reports whether :quit was entered.
func (s *Session) QuitRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quit
}
