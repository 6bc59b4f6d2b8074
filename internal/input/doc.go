// Package input turns raw keys into Vim commands.
//
// A Dispatcher owns the input state of one editor window: the mode stack,
// the command being typed, and the keys held back while they may still
// become a mapping. The mapping table is shared between dispatchers.
//
// # Dispatch
//
// Every key passes through these stages, first match wins:
//
//   - user mappings (see package mapping)
//   - count digits, and <Del> to drop one
//   - <Esc>, <C-[> or <C-c> in normal mode, which abandon the command
//   - the character argument of commands such as f, t and r
//   - the register name after '"'
//   - <C-k> digraphs and <C-v> literals
//   - the command tree of the current mode (see package keytree)
//
// Keys that match nothing are inserted in insert, replace and select
// mode, typed into the command line in command-line mode, and rejected
// everywhere else.
//
// Mappings expand through a work stack rather than recursion. Each
// expansion runs one level deeper; at Config.MaxMapDepth the key is
// dropped with "E223: recursive mapping".
//
// # Usage
//
//	table := mapping.NewTable()
//	_ = table.Map(mode.InsertModes, "jk", "<Esc>", false, mapping.UserOwner)
//
//	d := input.New(input.DefaultConfig(), table,
//	    input.WithExecutor(executor),
//	    input.WithInserter(inserter))
//	defer d.Close()
//
//	for {
//	    select {
//	    case k := <-keys:
//	        d.HandleKey(k)
//	    case fn := <-d.Timeouts():
//	        fn()
//	    }
//	}
package input
