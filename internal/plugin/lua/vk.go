package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimkeys/internal/input/key"
)

// ModuleName is the global the input API is installed under.
const ModuleName = "vk"

func (s *State) installModule() {
	mod := s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"feed":    s.luaFeed,
		"message": s.luaMessage,
		"mode":    s.luaMode,
	})
	s.L.SetGlobal(ModuleName, mod)
}

// checkEnv raises a Lua error outside a handler run.
func (s *State) checkEnv(L *lua.LState) bool {
	if s.env == nil {
		L.RaiseError("vk: not inside a mapping")
		return false
	}
	return true
}

func (s *State) luaFeed(L *lua.LState) int {
	text := L.CheckString(1)
	remap := L.OptBool(2, true)
	if !s.checkEnv(L) {
		return 0
	}
	keys, err := key.ParseSequence(text)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	s.env.Feed(keys, remap)
	return 0
}

func (s *State) luaMessage(L *lua.LState) int {
	text := L.CheckString(1)
	if !s.checkEnv(L) {
		return 0
	}
	s.env.ShowMessage(text)
	return 0
}

func (s *State) luaMode(L *lua.LState) int {
	if !s.checkEnv(L) {
		return 0
	}
	L.Push(lua.LString(s.env.Mode().String()))
	return 1
}
