package keytree

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/vimkeys/internal/input/command"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mode"
)

// ErrConflict is returned when a command would hide another: a leaf where
// a branch exists, or a branch through an existing leaf.
var ErrConflict = errors.New("keytree: conflicting command")

// Branch is an inner node; more keys are needed to name a command.
type Branch struct {
	// Keys is the path from the root to this branch.
	Keys key.Sequence

	children map[key.Stroke]command.Node
}

func newBranch(keys key.Sequence) *Branch {
	return &Branch{Keys: keys, children: make(map[key.Stroke]command.Node)}
}

// Child returns the node reached by k, or nil.
func (b *Branch) Child(k key.Stroke) command.Node {
	if n, ok := b.children[k]; ok {
		return n
	}
	return nil
}

// Len returns the number of children.
func (b *Branch) Len() int { return len(b.children) }

// Leaf names a complete command.
type Leaf struct {
	// Keys is the path from the root to this leaf.
	Keys key.Sequence

	// Action is the command bound here.
	Action *command.Action
}

// Child always returns nil; nothing continues past a leaf.
func (l *Leaf) Child(key.Stroke) command.Node { return nil }

// Forest holds one command tree per mapping mode. It is filled once at
// startup and only read afterwards.
type Forest struct {
	roots map[mode.MappingMode]*Branch
}

// NewForest returns a forest of empty trees.
func NewForest() *Forest {
	f := &Forest{roots: make(map[mode.MappingMode]*Branch, len(mode.AllMappingModes))}
	for _, mm := range mode.AllMappingModes {
		f.roots[mm] = newBranch(nil)
	}
	return f
}

// Root returns the root of the tree for mm.
func (f *Forest) Root(mm mode.MappingMode) *Branch {
	return f.roots[mm]
}

// Add binds keys to action in every mode of modes. A later binding of the
// same keys replaces the earlier one. Nothing is added when any mode
// reports a conflict.
func (f *Forest) Add(modes mode.MappingModes, keys key.Sequence, action *command.Action) error {
	if len(keys) == 0 {
		return fmt.Errorf("keytree: empty key sequence for %s", action)
	}
	for _, mm := range modes.List() {
		if err := f.check(mm, keys); err != nil {
			return err
		}
	}
	for _, mm := range modes.List() {
		f.insert(mm, keys, action)
	}
	return nil
}

func (f *Forest) check(mm mode.MappingMode, keys key.Sequence) error {
	var n command.Node = f.Root(mm)
	for i, k := range keys {
		br, ok := n.(*Branch)
		if !ok {
			return fmt.Errorf("%w: %s in %s mode is shadowed by %s", ErrConflict, keys, mm, keys[:i])
		}
		n = br.Child(k)
		if n == nil {
			return nil
		}
	}
	if _, ok := n.(*Branch); ok {
		return fmt.Errorf("%w: %s in %s mode is a prefix of longer commands", ErrConflict, keys, mm)
	}
	return nil
}

func (f *Forest) insert(mm mode.MappingMode, keys key.Sequence, action *command.Action) {
	br := f.Root(mm)
	last := len(keys) - 1
	for i, k := range keys[:last] {
		next, ok := br.children[k].(*Branch)
		if !ok {
			next = newBranch(keys[:i+1].Clone())
			br.children[k] = next
		}
		br = next
	}
	br.children[keys[last]] = &Leaf{Keys: keys.Clone(), Action: action}
}

// Lookup returns the action bound to keys in mm, or nil.
func (f *Forest) Lookup(mm mode.MappingMode, keys key.Sequence) *command.Action {
	var n command.Node = f.Root(mm)
	for _, k := range keys {
		n = n.Child(k)
		if n == nil {
			return nil
		}
	}
	if l, ok := n.(*Leaf); ok {
		return l.Action
	}
	return nil
}

// Leaves returns every leaf of the tree for mm, sorted by key notation.
func (f *Forest) Leaves(mm mode.MappingMode) []*Leaf {
	var out []*Leaf
	var walk func(b *Branch)
	walk = func(b *Branch) {
		for _, n := range b.children {
			switch n := n.(type) {
			case *Leaf:
				out = append(out, n)
			case *Branch:
				walk(n)
			}
		}
	}
	walk(f.Root(mm))
	sort.Slice(out, func(i, j int) bool {
		return out[i].Keys.String() < out[j].Keys.String()
	})
	return out
}
