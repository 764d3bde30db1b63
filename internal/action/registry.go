package action

import (
	"sort"
	"sync"

	"github.com/dshills/vselect/internal/input/keymap"
)

// Registry maps keymap commands to actions. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	actions map[keymap.Command]Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[keymap.Command]Action),
	}
}

// DefaultRegistry creates a registry holding the built-in actions.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(keymap.CommandCursorLeft, Left)
	r.Register(keymap.CommandCursorRight, Right)
	r.Register(keymap.CommandCursorUp, Up)
	r.Register(keymap.CommandCursorDown, Down)
	r.Register(keymap.CommandCursorWordForward, WordForward)
	r.Register(keymap.CommandCursorWordBackward, WordBackward)
	r.Register(keymap.CommandCursorWordEnd, WordEnd)
	r.Register(keymap.CommandCursorLineStart, LineStart)
	r.Register(keymap.CommandCursorLineEnd, LineEnd)
	r.Register(keymap.CommandCursorFirstNonBlank, FirstNonBlank)
	r.Register(keymap.CommandCursorFileStart, FileStart)
	r.Register(keymap.CommandCursorFileEnd, FileEnd)
	r.Register(keymap.CommandPasteAfter, PasteAfter)
	r.Register(keymap.CommandPasteBefore, PasteBefore)
	return r
}

// Register binds cmd to a, replacing any previous action.
func (r *Registry) Register(cmd keymap.Command, a Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[cmd] = a
}

// Unregister removes the action for cmd and returns it.
func (r *Registry) Unregister(cmd keymap.Command) (Action, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.actions[cmd]
	delete(r.actions, cmd)
	return a, ok
}

// Lookup returns the action for cmd.
func (r *Registry) Lookup(cmd keymap.Command) (Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.actions[cmd]
	return a, ok
}

// Commands returns the registered commands, sorted.
func (r *Registry) Commands() []keymap.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmds := make([]keymap.Command, 0, len(r.actions))
	for c := range r.actions {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i] < cmds[j] })
	return cmds
}
