package keytree

import (
	"fmt"

	"github.com/dshills/vimkeys/internal/input/command"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mode"
)

// Action IDs that change the input state and are handled by the session
// rather than by buffer code.
const (
	IDInsert        = "mode.insert"
	IDAppend        = "mode.append"
	IDInsertLineBeg = "mode.insertLineStart"
	IDAppendLineEnd = "mode.appendLineEnd"
	IDOpenBelow     = "mode.openBelow"
	IDOpenAbove     = "mode.openAbove"
	IDInsertExit    = "insert.exit"
	IDInsertOneCmd  = "insert.singleCommand"
	IDInsertDigraph = "insert.digraph"
	IDInsertLiteral = "insert.literal"
	IDInsertToggle  = "insert.toggleReplace"
	IDVisualChar    = "visual.toggleChar"
	IDVisualLine    = "visual.toggleLine"
	IDVisualBlock   = "visual.toggleBlock"
	IDVisualExit    = "visual.exit"
	IDExStart       = "ex.start"
	IDExProcess     = "ex.process"
	IDExCancel      = "ex.cancel"
	IDMacroRecord   = "macro.record"
	IDMacroPlay     = "macro.play"
	IDRepeat        = "repeat.change"
)

// Binding binds keys, in Vim notation, to an action in a set of modes.
type Binding struct {
	Keys   string
	Modes  mode.MappingModes
	Action *command.Action
}

const motionModes = mode.NormalModes | mode.XModes | mode.OpModes

func motion(id, desc string, arg command.ArgumentType, flags command.Flags) *command.Action {
	return &command.Action{ID: id, Type: command.TypeMotion, Argument: arg, Flags: flags, Strategy: command.StrategyPerCaret, Description: desc}
}

func operator(id, desc string, dup rune) *command.Action {
	return &command.Action{ID: id, Type: command.TypeWrite, Argument: command.ArgMotion, DuplicateWith: dup, Strategy: command.StrategyConditional, Description: desc}
}

func write(id, desc string, flags command.Flags) *command.Action {
	return &command.Action{ID: id, Type: command.TypeWrite, Flags: flags, Strategy: command.StrategyPerCaret, Description: desc}
}

func other(id, desc string, arg command.ArgumentType, flags command.Flags) *command.Action {
	return &command.Action{ID: id, Type: command.TypeOther, Argument: arg, Flags: flags, Description: desc}
}

// DefaultBindings returns the built-in command set.
func DefaultBindings() []Binding {
	yank := &command.Action{ID: "operator.yank", Type: command.TypeRead, Argument: command.ArgMotion, DuplicateWith: 'y', Strategy: command.StrategyConditional, Description: "Yank"}
	digraph := &command.Action{ID: IDInsertDigraph, Type: command.TypeWrite, Argument: command.ArgDigraph, Flags: command.FlagStartDigraph, Description: "Insert digraph"}
	literal := &command.Action{ID: IDInsertLiteral, Type: command.TypeWrite, Argument: command.ArgDigraph, Flags: command.FlagStartLiteral, Description: "Insert literal"}
	exCancel := other(IDExCancel, "Cancel command line", command.ArgNone, command.FlagCancelEx)

	return []Binding{
		// Motions
		{"h", motionModes, motion("motion.left", "Move left", command.ArgNone, 0)},
		{"j", motionModes, motion("motion.down", "Move down", command.ArgNone, command.FlagLinewise)},
		{"k", motionModes, motion("motion.up", "Move up", command.ArgNone, command.FlagLinewise)},
		{"l", motionModes, motion("motion.right", "Move right", command.ArgNone, 0)},
		{"w", motionModes, motion("motion.wordForward", "Next word", command.ArgNone, 0)},
		{"b", motionModes, motion("motion.wordBackward", "Previous word", command.ArgNone, 0)},
		{"e", motionModes, motion("motion.wordEnd", "End of word", command.ArgNone, 0)},
		{"0", motionModes, motion("motion.lineStart", "Line start", command.ArgNone, 0)},
		{"$", motionModes, motion("motion.lineEnd", "Line end", command.ArgNone, 0)},
		{"^", motionModes, motion("motion.firstNonBlank", "First non-blank", command.ArgNone, 0)},
		{"_", motionModes, motion("motion.currentLine", "Current line", command.ArgNone, command.FlagLinewise)},
		{"gg", motionModes, motion("motion.firstLine", "First line", command.ArgNone, command.FlagLinewise|command.FlagSaveJump)},
		{"G", motionModes, motion("motion.lastLine", "Last line", command.ArgNone, command.FlagLinewise|command.FlagSaveJump)},
		{"f", motionModes, motion("motion.findForward", "Find character", command.ArgDigraph, 0)},
		{"F", motionModes, motion("motion.findBackward", "Find character backward", command.ArgDigraph, 0)},
		{"t", motionModes, motion("motion.tillForward", "Till character", command.ArgDigraph, 0)},
		{"T", motionModes, motion("motion.tillBackward", "Till character backward", command.ArgDigraph, 0)},
		{"/", motionModes, motion("search.forward", "Search forward", command.ArgExString, command.FlagSaveJump)},
		{"?", motionModes, motion("search.backward", "Search backward", command.ArgExString, command.FlagSaveJump)},

		// Operators
		{"d", mode.NormalModes, operator("operator.delete", "Delete", 'd')},
		{"c", mode.NormalModes, operator("operator.change", "Change", 'c')},
		{"y", mode.NormalModes, yank},
		{">", mode.NormalModes, operator("operator.shiftRight", "Shift right", '>')},
		{"<lt>", mode.NormalModes, operator("operator.shiftLeft", "Shift left", '<')},
		{"g~", mode.NormalModes, operator("operator.toggleCase", "Toggle case", '~')},

		// Visual operators
		{"d", mode.XModes, write("visual.delete", "Delete selection", command.FlagExitVisual)},
		{"x", mode.XModes, write("visual.delete", "Delete selection", command.FlagExitVisual)},
		{"c", mode.XModes, write("visual.change", "Change selection", command.FlagExitVisual)},
		{"y", mode.XModes, &command.Action{ID: "visual.yank", Type: command.TypeRead, Flags: command.FlagExitVisual, Description: "Yank selection"}},
		{">", mode.XModes, write("visual.shiftRight", "Shift selection right", command.FlagExitVisual)},
		{"<lt>", mode.XModes, write("visual.shiftLeft", "Shift selection left", command.FlagExitVisual)},
		{"<Esc>", mode.XModes, other(IDVisualExit, "Leave visual mode", command.ArgNone, 0)},
		{"v", mode.XModes, other(IDVisualChar, "Toggle characterwise visual", command.ArgNone, 0)},
		{"V", mode.XModes, other(IDVisualLine, "Toggle linewise visual", command.ArgNone, 0)},
		{"<C-v>", mode.XModes, other(IDVisualBlock, "Toggle blockwise visual", command.ArgNone, 0)},

		// Changes
		{"x", mode.NormalModes, write("change.deleteChar", "Delete character", 0)},
		{"<Del>", mode.NormalModes, write("change.deleteChar", "Delete character", 0)},
		{"p", mode.NormalModes, write("change.putAfter", "Put after", 0)},
		{"P", mode.NormalModes, write("change.putBefore", "Put before", 0)},
		{"r", mode.NormalModes, &command.Action{ID: "change.char", Type: command.TypeWrite, Argument: command.ArgDigraph, Flags: command.FlagReplaceChar, Strategy: command.StrategyPerCaret, Description: "Replace character"}},
		{"J", mode.NormalModes, write("change.join", "Join lines", 0)},
		{"u", mode.NormalModes, other("history.undo", "Undo", command.ArgNone, 0)},
		{"<C-r>", mode.NormalModes, other("history.redo", "Redo", command.ArgNone, 0)},
		{".", mode.NormalModes, other(IDRepeat, "Repeat last change", command.ArgNone, 0)},

		// Mode entries
		{"i", mode.NormalModes, write(IDInsert, "Insert", 0)},
		{"a", mode.NormalModes, write(IDAppend, "Append", 0)},
		{"I", mode.NormalModes, write(IDInsertLineBeg, "Insert at line start", 0)},
		{"A", mode.NormalModes, write(IDAppendLineEnd, "Append at line end", 0)},
		{"o", mode.NormalModes, write(IDOpenBelow, "Open line below", 0)},
		{"O", mode.NormalModes, write(IDOpenAbove, "Open line above", 0)},
		{"v", mode.NormalModes, other(IDVisualChar, "Characterwise visual", command.ArgNone, 0)},
		{"V", mode.NormalModes, other(IDVisualLine, "Linewise visual", command.ArgNone, 0)},
		{"<C-v>", mode.NormalModes, other(IDVisualBlock, "Blockwise visual", command.ArgNone, 0)},
		{":", mode.NormalModes | mode.XModes, other(IDExStart, "Command line", command.ArgNone, 0)},

		// Macros
		{"q", mode.NormalModes, other(IDMacroRecord, "Record macro", command.ArgCharacter, command.FlagStopRecording)},
		{"@", mode.NormalModes, other(IDMacroPlay, "Play macro", command.ArgCharacter, 0)},

		// Insert mode
		{"<Esc>", mode.InsertModes, other(IDInsertExit, "Leave insert mode", command.ArgNone, 0)},
		{"<C-c>", mode.InsertModes, other(IDInsertExit, "Leave insert mode", command.ArgNone, 0)},
		{"<C-o>", mode.InsertModes, other(IDInsertOneCmd, "Run one normal command", command.ArgNone, command.FlagExpectMore)},
		{"<Insert>", mode.InsertModes, other(IDInsertToggle, "Toggle replace", command.ArgNone, 0)},
		{"<C-k>", mode.InsertCmdLine, digraph},
		{"<C-v>", mode.InsertCmdLine, literal},
		{"<C-q>", mode.InsertCmdLine, literal},

		// Command line
		{"<CR>", mode.CmdLineModes, other(IDExProcess, "Run command line", command.ArgNone, command.FlagCompleteEx)},
		{"<Esc>", mode.CmdLineModes, exCancel},
		{"<C-c>", mode.CmdLineModes, exCancel},
	}
}

// LoadDefaults adds the built-in command set to f.
func LoadDefaults(f *Forest) error {
	for _, b := range DefaultBindings() {
		keys, err := key.ParseSequence(b.Keys)
		if err != nil {
			return fmt.Errorf("default binding %q: %w", b.Keys, err)
		}
		if err := f.Add(b.Modes, keys, b.Action); err != nil {
			return err
		}
	}
	return nil
}

// Defaults returns a forest holding the built-in command set.
func Defaults() *Forest {
	f := NewForest()
	if err := LoadDefaults(f); err != nil {
		panic(err)
	}
	return f
}
