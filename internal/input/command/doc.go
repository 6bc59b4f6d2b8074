// Package command describes editor commands and assembles them from keys.
//
// An Action is the static metadata bound to a command-tree leaf: its type,
// flags, the argument it waits for and how it runs across cursors. A
// Command is one typed instance of an action with its count, register and
// argument.
//
// Builder accumulates a command while it is typed. Multi-part commands
// such as "a2d3w are pushed part by part:
//
//	b.PushRegister('a')      // "a
//	b.AddCountDigit(two)     // 2
//	b.PushAction(deleteOp)   // d, now expects a motion
//	b.AddCountDigit(three)   // 3
//	b.PushAction(wordMotion) // w
//	b.SetStatus(StatusReady)
//	cmd, _ := b.Build()      // delete, register a, motion word with count 6
package command
