package lua

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSandboxRemovesLoaders(t *testing.T) {
	s := newState(t)
	for _, name := range removedGlobals {
		t.Run(name, func(t *testing.T) {
			assert.False(t, s.Sandbox().Allowed(name))
			assert.Error(t, s.DoString(name+`("x")`))
		})
	}
}

func TestSandboxClosedLibraries(t *testing.T) {
	s := newState(t)
	for _, name := range []string{"io", "os", "debug", "package"} {
		assert.False(t, s.Sandbox().Allowed(name), name)
	}
	for _, name := range []string{"string", "table", "math", "pairs", ModuleName} {
		assert.True(t, s.Sandbox().Allowed(name), name)
	}
	assert.NoError(t, s.DoString(`x = string.upper("a") .. math.floor(1.5) .. table.concat({"b"})`))
}
