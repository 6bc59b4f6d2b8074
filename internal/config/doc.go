// Package config loads vimkeys settings and key mappings from TOML or
// YAML files and keeps a mapping table in sync with them.
//
// # Configuration Files
//
//	# ~/.config/vimkeys/maps.toml
//	[settings]
//	timeoutlen = 500
//	showcmd = true
//	clipboard = "system"
//
//	[[map]]
//	cmd = "inoremap"
//	from = "jk"
//	to = "<Esc>"
//
//	[[map]]
//	modes = "n"
//	from = "<Space>m"
//	lua = 'vk.message("mode: " .. vk.mode())'
//	description = "show the mode"
//	owner = "lua"
//
// A map entry names its modes either with a :map family command in cmd
// or with mode letters in modes plus noremap. It targets keys with to or
// a Lua chunk with lua.
//
// The same settings in YAML:
//
//	settings:
//	  timeoutlen: 500
//	map:
//	  - cmd: inoremap
//	    from: jk
//	    to: <Esc>
//
// # Reloading
//
// A Reloader watches the file and swaps the mappings it owns into the
// table whenever the file changes. Mappings added by anyone else are left
// alone. A file that fails to load leaves the previous mappings in place.
//
// # Error Handling
//
//   - ParseError: the file is not valid TOML or YAML, or has unknown keys
//   - ValidationError: a setting is out of range
//   - ErrUnknownMode: a map entry names modes that do not exist
//   - ErrInvalidMapping: a map entry is incomplete or its keys do not parse
package config
