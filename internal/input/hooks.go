package input

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dshills/vimkeys/internal/input/command"
	"github.com/dshills/vimkeys/internal/input/key"
)

// Hook intercepts key dispatch and command execution.
type Hook interface {
	// PreKey is called before a key is dispatched.
	// Return true to consume the key.
	PreKey(k key.Stroke, ctx *ExecContext) bool

	// PreCommand is called before a built command is executed.
	// Return true to consume the command.
	PreCommand(cmd *command.Command, ctx *ExecContext) bool

	// PostCommand is called after a command was executed.
	PostCommand(cmd *command.Command, ctx *ExecContext)
}

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHighest runs before all other hooks.
	HookPriorityHighest HookPriority = -1000
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
	// HookPriorityLowest runs after all other hooks.
	HookPriorityLowest HookPriority = 1000
)

// HookID uniquely identifies a registered hook.
type HookID uint64

// HookRegistration holds metadata about a registered hook.
type HookRegistration struct {
	ID       HookID
	Name     string
	Priority HookPriority
	Hook     Hook
}

// HookManager runs hooks in priority order. Hooks with equal priority
// run in registration order.
type HookManager struct {
	mu      sync.RWMutex
	hooks   []HookRegistration
	nextID  HookID
	sorted  bool
	byName  map[string]HookID
	enabled bool
}

// NewHookManager creates an empty, enabled hook manager.
func NewHookManager() *HookManager {
	return &HookManager{
		byName:  make(map[string]HookID),
		sorted:  true,
		enabled: true,
	}
}

// Register adds a hook with default priority.
func (m *HookManager) Register(hook Hook) HookID {
	return m.RegisterWithOptions(hook, "", HookPriorityNormal)
}

// RegisterNamed adds a hook with a name for later reference. A hook
// registered under a name already in use replaces it.
func (m *HookManager) RegisterNamed(hook Hook, name string, priority HookPriority) HookID {
	return m.RegisterWithOptions(hook, name, priority)
}

// RegisterWithOptions adds a hook with all options specified.
func (m *HookManager) RegisterWithOptions(hook Hook, name string, priority HookPriority) HookID {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name != "" {
		if old, ok := m.byName[name]; ok {
			m.removeLocked(old)
		}
	}

	m.nextID++
	id := m.nextID
	m.hooks = append(m.hooks, HookRegistration{
		ID:       id,
		Name:     name,
		Priority: priority,
		Hook:     hook,
	})
	if name != "" {
		m.byName[name] = id
	}
	m.sorted = false
	return id
}

// Unregister removes a hook by ID.
func (m *HookManager) Unregister(id HookID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(id)
}

// UnregisterByName removes a hook by name.
func (m *HookManager) UnregisterByName(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byName[name]
	if !ok {
		return false
	}
	return m.removeLocked(id)
}

func (m *HookManager) removeLocked(id HookID) bool {
	for i := range m.hooks {
		if m.hooks[i].ID != id {
			continue
		}
		if name := m.hooks[i].Name; name != "" {
			delete(m.byName, name)
		}
		m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
		return true
	}
	return false
}

// SetEnabled enables or disables all hooks.
func (m *HookManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Count returns the number of registered hooks.
func (m *HookManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// List returns all registrations in execution order.
func (m *HookManager) List() []HookRegistration {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureSorted()
	result := make([]HookRegistration, len(m.hooks))
	copy(result, m.hooks)
	return result
}

func (m *HookManager) ensureSorted() {
	if m.sorted {
		return
	}
	sort.SliceStable(m.hooks, func(i, j int) bool {
		return m.hooks[i].Priority < m.hooks[j].Priority
	})
	m.sorted = true
}

// snapshot returns the hooks to run, so that hooks may register or
// unregister hooks while running.
func (m *HookManager) snapshot() []Hook {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled || len(m.hooks) == 0 {
		return nil
	}
	m.ensureSorted()
	hooks := make([]Hook, len(m.hooks))
	for i := range m.hooks {
		hooks[i] = m.hooks[i].Hook
	}
	return hooks
}

// RunPreKey runs PreKey hooks until one consumes the key.
func (m *HookManager) RunPreKey(k key.Stroke, ctx *ExecContext) bool {
	for _, hook := range m.snapshot() {
		if hook.PreKey(k, ctx) {
			return true
		}
	}
	return false
}

// RunPreCommand runs PreCommand hooks until one consumes the command.
func (m *HookManager) RunPreCommand(cmd *command.Command, ctx *ExecContext) bool {
	for _, hook := range m.snapshot() {
		if hook.PreCommand(cmd, ctx) {
			return true
		}
	}
	return false
}

// RunPostCommand runs all PostCommand hooks.
func (m *HookManager) RunPostCommand(cmd *command.Command, ctx *ExecContext) {
	for _, hook := range m.snapshot() {
		hook.PostCommand(cmd, ctx)
	}
}

// Clear removes all hooks.
func (m *HookManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = nil
	m.byName = make(map[string]HookID)
	m.sorted = true
}

// BaseHook provides a default implementation of the Hook interface.
// Embed this in custom hooks to only implement the methods you need.
type BaseHook struct{}

// PreKey does not consume keys.
func (BaseHook) PreKey(key.Stroke, *ExecContext) bool { return false }

// PreCommand does not consume commands.
func (BaseHook) PreCommand(*command.Command, *ExecContext) bool { return false }

// PostCommand is a no-op.
func (BaseHook) PostCommand(*command.Command, *ExecContext) {}

// FuncHook wraps functions into a Hook. Nil functions are skipped.
type FuncHook struct {
	PreKeyFunc      func(key.Stroke, *ExecContext) bool
	PreCommandFunc  func(*command.Command, *ExecContext) bool
	PostCommandFunc func(*command.Command, *ExecContext)
}

// PreKey calls PreKeyFunc if set.
func (h FuncHook) PreKey(k key.Stroke, ctx *ExecContext) bool {
	if h.PreKeyFunc != nil {
		return h.PreKeyFunc(k, ctx)
	}
	return false
}

// PreCommand calls PreCommandFunc if set.
func (h FuncHook) PreCommand(cmd *command.Command, ctx *ExecContext) bool {
	if h.PreCommandFunc != nil {
		return h.PreCommandFunc(cmd, ctx)
	}
	return false
}

// PostCommand calls PostCommandFunc if set.
func (h FuncHook) PostCommand(cmd *command.Command, ctx *ExecContext) {
	if h.PostCommandFunc != nil {
		h.PostCommandFunc(cmd, ctx)
	}
}

// LoggingHook logs every key and command at debug level.
type LoggingHook struct {
	BaseHook
	Log logrus.FieldLogger
}

// PreKey logs the key.
func (h LoggingHook) PreKey(k key.Stroke, ctx *ExecContext) bool {
	h.Log.WithFields(logrus.Fields{"key": k.String(), "mode": ctx.Mode().String()}).Debug("key")
	return false
}

// PostCommand logs the command.
func (h LoggingHook) PostCommand(cmd *command.Command, ctx *ExecContext) {
	h.Log.WithFields(logrus.Fields{
		"action": cmd.Action.ID,
		"count":  cmd.RawCount,
		"caret":  ctx.Caret,
	}).Debug("command")
}
