package lua

import (
	"strings"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L   *lua.LState
	log logrus.FieldLogger
}

// removedGlobals load code from files or strings, or reach outside the
// sandbox.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState, log logrus.FieldLogger) *Sandbox {
	return &Sandbox{L: L, log: log}
}

// Install opens the safe libraries and removes everything else.
func (s *Sandbox) Install() {
	openSafeLibraries(s.L)
	for _, name := range removedGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installPrint()
}

// openSafeLibraries opens only safe Lua standard libraries. io, os,
// debug, package and channel stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installPrint sends print output to the log at debug level.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		s.log.WithField("source", "lua").Debug(strings.Join(parts, "\t"))
		return 0
	}))
}

// Allowed reports whether a global survived Install.
func (s *Sandbox) Allowed(name string) bool {
	return s.L.GetGlobal(name) != lua.LNil
}
