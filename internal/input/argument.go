package input

import (
	"github.com/dshills/vimkeys/internal/input/command"
	"github.com/dshills/vimkeys/internal/input/digraph"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mode"
)

// awaitArgument prepares for the argument of the action just pushed.
// k is the key that completed the action.
func (d *Dispatcher) awaitArgument(k key.Stroke, a *command.Action) {
	switch a.Argument {
	case command.ArgMotion:
		if d.state.DotRepeatInProgress {
			if arg := d.registers.Captured(); arg != nil {
				d.builder.CompletePart(arg)
			}
		}
		d.state.Push(mode.OpPending, mode.SubNone)

	case command.ArgDigraph:
		switch {
		case a.Flags.Has(command.FlagStartDigraph):
			d.state.Digraph.StartDigraph()
		case a.Flags.Has(command.FlagStartLiteral):
			d.state.Digraph.StartLiteral()
		}

	case command.ArgExString:
		trigger, _ := k.Char()
		d.entry.Start(0, trigger)
		d.builder.SetStatus(command.StatusAwaitingArgument)
		d.state.Push(mode.CmdLine, mode.SubNone)
	}

	if a.Flags.Has(command.FlagReplaceChar) {
		d.state.ReplaceCharacter = true
	}
}

// handleCharArgument completes the pending part with the character k
// types. Keys that type nothing make the command bad.
func (d *Dispatcher) handleCharArgument(k key.Stroke) {
	if r, ok := k.Char(); ok {
		d.builder.CompletePart(command.CharArgument(r))
	} else {
		d.builder.SetStatus(command.StatusBad)
	}
	d.state.ReplaceCharacter = false
}

// handleDigraph feeds the key to the digraph sequence. It reports false
// when the key is not part of a digraph and should be looked up as a
// command.
func (d *Dispatcher) handleDigraph(it item) bool {
	k := it.key
	b := d.builder
	seq := d.state.Digraph

	if d.startSequence(k) {
		b.AddKey(k)
		return true
	}

	res := seq.ProcessKey(k)
	if d.entry.Active() {
		switch res.Kind {
		case digraph.Handled:
			d.entry.SetPrompt(res.Prompt)
		case digraph.Done, digraph.Bad:
			if k == key.Ctrl('c') {
				return false
			}
			d.entry.SetPrompt(0)
		}
	}

	switch res.Kind {
	case digraph.Handled:
		b.AddKey(k)
		return true

	case digraph.Done:
		b.AddKey(k)
		switch b.Expected() {
		case command.ArgExString:
			if r, ok := res.Stroke.Char(); ok {
				d.entry.Insert(r)
			}
		case command.ArgDigraph:
			b.FallbackToCharacter()
			fallthrough
		default:
			d.enqueue(item{key: res.Stroke, allowMappings: true, depth: it.depth + 1})
		}
		if !res.Redispatch.IsZero() {
			d.enqueue(item{key: res.Redispatch, allowMappings: true, depth: it.depth + 1})
		}
		return true

	case digraph.Bad:
		if e := b.Expected(); e != command.ArgNone && e != command.ArgExString {
			b.SetStatus(command.StatusBad)
		}
		return true

	case digraph.Unhandled:
		if b.Expected() == command.ArgDigraph {
			b.FallbackToCharacter()
			d.enqueue(item{key: k, allowMappings: true, depth: it.depth + 1})
			return true
		}
	}
	return false
}

// startSequence starts a digraph or literal for arguments that accept
// one without being bound to <C-k> themselves: the character of r and f,
// and the pattern of / and ?.
func (d *Dispatcher) startSequence(k key.Stroke) bool {
	seq := d.state.Digraph
	if seq.Active() {
		return false
	}
	switch d.builder.Expected() {
	case command.ArgDigraph, command.ArgExString:
	default:
		return false
	}
	switch {
	case k == key.Ctrl('k'):
		seq.StartDigraph()
	case k == key.Ctrl('v') || k == key.Ctrl('q'):
		seq.StartLiteral()
	default:
		return false
	}
	return true
}
