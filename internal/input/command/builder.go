package command

import (
	"errors"

	"github.com/dshills/vimkeys/internal/input/key"
)

// MaxCount caps the count typed before a command.
const MaxCount = 999999999

var (
	// ErrEmpty is returned by Build when no command part was pushed.
	ErrEmpty = errors.New("command: nothing to build")

	// ErrMissingArgument is returned by Build when the command still waits
	// for its argument.
	ErrMissingArgument = errors.New("command: missing argument")
)

// Node is a position in a command tree. The builder only walks it; the
// concrete tree lives in package keytree.
type Node interface {
	// Child returns the node reached by k, or nil.
	Child(k key.Stroke) Node
}

// Status is the state of the command being typed.
type Status uint8

const (
	// StatusComposing means more keys are needed.
	StatusComposing Status = iota

	// StatusReady means Build will succeed.
	StatusReady

	// StatusBad means the keys typed do not form a command. The builder
	// stays bad until ResetAll.
	StatusBad

	// StatusAwaitingArgument means the command waits for a string from
	// command-line entry.
	StatusAwaitingArgument
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusBad:
		return "bad"
	case StatusAwaitingArgument:
		return "awaiting-argument"
	}
	return "composing"
}

// Builder accumulates the command being typed: the count, the register
// part, the position in the command tree, the parts matched so far and
// the argument the last part waits for.
//
// A Builder belongs to one dispatcher and is not safe for concurrent use.
type Builder struct {
	root     Node
	node     Node
	parts    []*Command
	keys     key.Sequence
	count    int
	expected ArgumentType
	status   Status
}

// NewBuilder returns an empty builder positioned at root.
func NewBuilder(root Node) *Builder {
	return &Builder{root: root, node: root}
}

// Status returns the current status.
func (b *Builder) Status() Status { return b.status }

// SetStatus changes the status. A bad builder stays bad.
func (b *Builder) SetStatus(s Status) {
	if b.status == StatusBad {
		return
	}
	b.status = s
}

// IsReady reports whether a complete command can be built.
func (b *Builder) IsReady() bool { return b.status == StatusReady }

// IsBad reports whether the keys typed are not a command.
func (b *Builder) IsBad() bool { return b.status == StatusBad }

// Count returns the count typed for the part in progress, 0 if none.
func (b *Builder) Count() int { return b.count }

// Expected returns the argument type the last part waits for.
func (b *Builder) Expected() ArgumentType { return b.expected }

// Keys returns the keys typed for the command so far.
func (b *Builder) Keys() key.Sequence { return b.keys }

// AddKey records a key as part of the command.
func (b *Builder) AddKey(k key.Stroke) {
	b.keys = append(b.keys, k)
}

// AddCountDigit appends a digit to the count. The count saturates at
// MaxCount.
func (b *Builder) AddCountDigit(k key.Stroke) {
	d := int(k.Rune - '0')
	if b.count > (MaxCount-d)/10 {
		b.count = MaxCount
	} else {
		b.count = b.count*10 + d
	}
	b.AddKey(k)
}

// DeleteCountDigit drops the last count digit.
func (b *Builder) DeleteCountDigit() {
	b.count /= 10
	if n := len(b.keys); n > 0 {
		b.keys = b.keys[:n-1]
	}
}

// Node returns the current position in the command tree.
func (b *Builder) Node() Node { return b.node }

// SetNode moves to n, the node reached by the last key.
func (b *Builder) SetNode(n Node) { b.node = n }

// Child looks k up below the current node.
func (b *Builder) Child(k key.Stroke) Node {
	if b.node == nil {
		return nil
	}
	return b.node.Child(k)
}

// PushAction adds a part for a matched action. The count typed so far
// moves to the part and the builder now expects the action's argument.
func (b *Builder) PushAction(a *Action) {
	b.parts = append(b.parts, &Command{
		RawCount: b.count,
		Action:   a,
		Type:     a.Type,
		Flags:    a.Flags,
	})
	b.expected = a.Argument
	b.count = 0
}

// PushRegister adds a register part.
func (b *Builder) PushRegister(r rune) {
	b.parts = append(b.parts, &Command{
		RawCount: b.count,
		Type:     TypeSelectRegister,
		Register: r,
	})
	b.expected = ArgNone
	b.count = 0
}

// PopPart removes and returns the last part. The expected argument
// reverts to that of the new last part.
func (b *Builder) PopPart() *Command {
	n := len(b.parts)
	if n == 0 {
		return nil
	}
	last := b.parts[n-1]
	b.parts = b.parts[:n-1]
	b.expected = ArgNone
	if prev := b.lastAction(); prev != nil {
		b.expected = prev.Argument
	}
	return last
}

// FallbackToCharacter makes a digraph argument accept a plain character.
func (b *Builder) FallbackToCharacter() {
	b.expected = ArgCharacter
}

// CompletePart sets the argument of the last part and marks the builder
// ready.
func (b *Builder) CompletePart(arg *Argument) {
	if n := len(b.parts); n > 0 {
		b.parts[n-1].Argument = arg
	}
	b.SetStatus(StatusReady)
}

// PendingAction returns the action of the last part, or nil.
func (b *Builder) PendingAction() *Action { return b.lastAction() }

func (b *Builder) lastAction() *Action {
	if n := len(b.parts); n > 0 {
		return b.parts[n-1].Action
	}
	return nil
}

// IsExpectingCount reports whether a digit typed now is part of a count.
func (b *Builder) IsExpectingCount() bool {
	return b.status == StatusComposing && b.expected != ArgCharacter && b.expected != ArgDigraph
}

// IsAwaitingCharOrDigraph reports whether the last part waits for a
// character.
func (b *Builder) IsAwaitingCharOrDigraph() bool {
	a := b.lastAction()
	return a != nil && (a.Argument == ArgCharacter || a.Argument == ArgDigraph)
}

// IsBuildingMultiKey reports whether a multi-key command such as "gg" is
// half typed.
func (b *Builder) IsBuildingMultiKey() bool {
	return b.node != b.root
}

// IsDuplicateOperator reports whether k repeats the pending operator,
// as the second d in dd does.
func (b *Builder) IsDuplicateOperator(k key.Stroke) bool {
	a := b.lastAction()
	if a == nil || a.DuplicateWith == 0 || !k.IsRune() || k.IsModified() {
		return false
	}
	return a.DuplicateWith == k.Rune
}

// IsDone reports whether no part is pending.
func (b *Builder) IsDone() bool { return len(b.parts) == 0 }

// IsAtDefaultState reports whether nothing at all has been typed.
func (b *Builder) IsAtDefaultState() bool {
	return len(b.parts) == 0 && b.count == 0 && b.expected == ArgNone
}

// Parts returns the number of parts pushed.
func (b *Builder) Parts() int { return len(b.parts) }

// Build folds the parts into one command. A register part hands its
// register to the next part. Any other part takes the next one as its
// motion argument. Counts multiply and move to the later part; a part
// keeps RawCount 0 only when neither side had a count typed.
func (b *Builder) Build() (*Command, error) {
	if len(b.parts) == 0 {
		return nil, ErrEmpty
	}
	cmd := b.parts[0]
	for _, next := range b.parts[1:] {
		if cmd.RawCount != 0 || next.RawCount != 0 {
			next.RawCount = multiply(cmd.Count(), next.Count())
		}
		cmd.RawCount = 0
		if cmd.Type == TypeSelectRegister {
			next.Register = cmd.Register
			cmd = next
			continue
		}
		cmd.Argument = MotionArgument(next)
	}
	b.parts = nil
	b.expected = ArgNone

	if cmd.Type == TypeSelectRegister {
		return nil, ErrMissingArgument
	}
	if err := checkArgument(cmd); err != nil {
		return nil, err
	}
	cmd.Keys = b.keys.Clone()
	return cmd, nil
}

func checkArgument(cmd *Command) error {
	a := cmd.Action
	if a.Argument == ArgNone || cmd.Flags.Has(FlagStopRecording) {
		return nil
	}
	if cmd.Argument == nil {
		return ErrMissingArgument
	}
	if m := cmd.Motion(); m != nil && m.Action != nil && m.Action.Argument != ArgNone && m.Argument == nil {
		return ErrMissingArgument
	}
	return nil
}

func multiply(a, b int) int {
	if a > MaxCount/b {
		return MaxCount
	}
	return a * b
}

// ResetInProgressPart clears the count and returns to root, keeping the
// parts already matched.
func (b *Builder) ResetInProgressPart(root Node) {
	b.count = 0
	b.root = root
	b.node = root
}

// ResetAll returns the builder to its freshly constructed state at root.
func (b *Builder) ResetAll(root Node) {
	b.ResetInProgressPart(root)
	b.parts = nil
	b.keys = nil
	b.expected = ArgNone
	b.status = StatusComposing
}
