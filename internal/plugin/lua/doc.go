// Package lua runs key mappings written in Lua.
//
// A mapping file may give a Lua chunk instead of target keys. The chunk
// is compiled once when the file loads and runs each time the mapping
// fires:
//
//	[[map]]
//	modes = "n"
//	from = "<Space>d"
//	lua = 'vk.feed("dd"); vk.message("deleted in " .. vk.mode())'
//
// # The vk module
//
//   - vk.feed(keys [, remap]): dispatch keys in Vim notation as if typed;
//     remap defaults to true
//   - vk.message(text): show text on the status line
//   - vk.mode(): the current mode name, e.g. "normal" or "insert"
//
// A chunk that returns a string has it fed as keys, with remapping, like
// a Vim <expr> mapping. A chunk that raises an error makes the mapping
// fail: the message is shown and the pending command is dropped.
//
// # Sandbox
//
// Only the base, table, string and math libraries are opened. dofile,
// loadfile, load, loadstring, require and module are removed, and print
// writes to the log instead of stdout. Each run is bounded by a timeout.
//
// # State
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer state.Close()
//
//	handler, err := state.Compile("maps.toml#3", `vk.feed("gg")`)
package lua
