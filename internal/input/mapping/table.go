package mapping

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mode"
)

var (
	// ErrNoEntry is returned when a mapping to remove does not exist.
	ErrNoEntry = errors.New("mapping: no such mapping")

	// ErrInvalidEntry is returned for entries that cannot be added.
	ErrInvalidEntry = errors.New("mapping: invalid entry")
)

// Table holds the mappings of every mapping mode. It is shared between
// input contexts and safe for concurrent use; config reloads write to it
// from another goroutine.
type Table struct {
	mu      sync.RWMutex
	entries map[mode.MappingMode]map[string]*Entry
}

// NewTable returns an empty table.
func NewTable() *Table {
	t := &Table{entries: make(map[mode.MappingMode]map[string]*Entry)}
	for _, mm := range mode.AllMappingModes {
		t.entries[mm] = make(map[string]*Entry)
	}
	return t
}

// Add stores e in each of its modes, replacing mappings with the same
// From keys there.
func (t *Table) Add(e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	e.From = e.From.Clone()
	e.To = e.To.Clone()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.addLocked(&e)
	return nil
}

// sequenceID encodes keys by their stroke fields. Printed notation is
// not used since a raw control character and <C-w> print alike.
func sequenceID(keys key.Sequence) string {
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(strconv.Itoa(int(k.Key)))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(int(k.Rune)))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(int(k.Modifiers)))
		sb.WriteByte(';')
	}
	return sb.String()
}

func (t *Table) addLocked(e *Entry) {
	id := sequenceID(e.From)
	for _, mm := range e.Modes.List() {
		t.entries[mm][id] = e
	}
}

// Map adds a key-to-key mapping written in Vim notation.
func (t *Table) Map(modes mode.MappingModes, from, to string, recursive bool, owner Owner) error {
	lhs, err := key.ParseSequence(from)
	if err != nil {
		return err
	}
	rhs, err := key.ParseSequence(to)
	if err != nil {
		return err
	}
	return t.Add(Entry{From: lhs, To: rhs, Recursive: recursive, Owner: owner, Modes: modes})
}

// Remove deletes the mappings for from in modes. It returns ErrNoEntry
// when none of the modes had one.
func (t *Table) Remove(modes mode.MappingModes, from key.Sequence) error {
	id := sequenceID(from)

	t.mu.Lock()
	defer t.mu.Unlock()

	found := false
	for _, mm := range modes.List() {
		if _, ok := t.entries[mm][id]; ok {
			delete(t.entries[mm], id)
			found = true
		}
	}
	if !found {
		return ErrNoEntry
	}
	return nil
}

// RemoveOwner deletes every mapping registered by owner and returns how
// many mode entries were removed.
func (t *Table) RemoveOwner(owner Owner) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.removeOwnerLocked(owner)
}

func (t *Table) removeOwnerLocked(owner Owner) int {
	n := 0
	for _, byKeys := range t.entries {
		for id, e := range byKeys {
			if e.Owner.ID == owner.ID {
				delete(byKeys, id)
				n++
			}
		}
	}
	return n
}

// Replace atomically swaps all mappings of owner for entries. Nothing
// changes when an entry is invalid.
func (t *Table) Replace(owner Owner, entries []Entry) error {
	return t.ReplaceOwners(map[Owner][]Entry{owner: entries})
}

// ReplaceOwners swaps the mappings of every owner in groups under one
// lock. An owner mapped to no entries ends up empty. Nothing changes when
// any entry is invalid.
func (t *Table) ReplaceOwners(groups map[Owner][]Entry) error {
	prepared := make(map[Owner][]*Entry, len(groups))
	for owner, entries := range groups {
		list := make([]*Entry, len(entries))
		for i := range entries {
			e := entries[i]
			if err := e.validate(); err != nil {
				return err
			}
			e.Owner = owner
			e.From = e.From.Clone()
			e.To = e.To.Clone()
			list[i] = &e
		}
		prepared[owner] = list
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for owner := range prepared {
		t.removeOwnerLocked(owner)
	}
	for _, list := range prepared {
		for _, e := range list {
			t.addLocked(e)
		}
	}
	return nil
}

// Lookup returns the entry whose From keys equal keys in mm, or nil.
func (t *Table) Lookup(mm mode.MappingMode, keys key.Sequence) *Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[mm][sequenceID(keys)]
}

// IsPrefix reports whether keys is a strict prefix of some mapping in mm.
// An exact match alone does not count.
func (t *Table) IsPrefix(mm mode.MappingMode, keys key.Sequence) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, e := range t.entries[mm] {
		if len(e.From) > len(keys) && e.From.HasPrefix(keys) {
			return true
		}
	}
	return false
}

// Len returns the number of mappings in mm.
func (t *Table) Len(mm mode.MappingMode) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries[mm])
}

// List returns the mappings of mm ordered by their From keys: characters
// first, then special keys by code, then by modifiers.
func (t *Table) List(mm mode.MappingMode) []*Entry {
	t.mu.RLock()
	out := make([]*Entry, 0, len(t.entries[mm]))
	for _, e := range t.entries[mm] {
		out = append(out, e)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return compareSequences(out[i].From, out[j].From) < 0
	})
	return out
}

func compareSequences(a, b key.Sequence) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareStrokes(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func compareStrokes(a, b key.Stroke) int {
	ar, br := a.Key == key.KeyRune, b.Key == key.KeyRune
	switch {
	case ar && !br:
		return -1
	case !ar && br:
		return 1
	case ar && br && a.Rune != b.Rune:
		return int(a.Rune) - int(b.Rune)
	case a.Key != b.Key:
		return int(a.Key) - int(b.Key)
	}
	return int(a.Modifiers) - int(b.Modifiers)
}
