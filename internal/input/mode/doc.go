// Package mode holds the modal state of one input context.
//
// The StateMachine is a stack of Frames. The base frame is normal mode;
// nested modes are pushed and popped around the keys they own:
//
//	normal ──d──▶ normal, op-pending ──w──▶ normal
//	insert ──<C-o>──▶ insert, insert-normal ──x──▶ insert
//
// Each Mode maps to a MappingMode, the class that selects a mapping table
// and a command trie. Alongside the stack the machine carries the flags
// the dispatcher consults between keys: register pending, replace
// character pending, recording, dot-repeat in progress, and the digraph
// sequence in progress.
package mode
