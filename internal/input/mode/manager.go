package mode

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/vselect/internal/action"
	"github.com/dshills/vselect/internal/engine/cursor"
	"github.com/dshills/vselect/internal/input/key"
	"github.com/dshills/vselect/internal/input/keymap"
	"github.com/dshills/vselect/internal/logging"
	"github.com/dshills/vselect/internal/operator"
)

// Manager manages editor modes, coordinates mode transitions and
// dispatches keystrokes.
//
// HandleKey calls are serialized: at most one action or operator runs at
// a time per manager.
type Manager struct {
	// dispatch serializes HandleKey and keymap replacement.
	dispatch sync.Mutex

	mu sync.RWMutex

	// modes holds all registered modes by name.
	modes map[string]Mode

	// order holds mode names in registration order.
	order []string

	// current is the active mode.
	current Mode

	// previous is the mode before the current one.
	previous Mode

	// callbacks are notified on mode changes.
	callbacks []ModeChangeCallback

	motion  *cursor.Motion
	keymap  *keymap.Keymap
	actions *action.Registry
	logger  *logging.Logger
}

// ModeChangeCallback is called when the mode changes.
// Callbacks must not call HandleKey.
type ModeChangeCallback func(from, to Mode)

// NewManager creates a mode manager over the collaborators in cfg.
// actions may be nil.
func NewManager(cfg Config, actions *action.Registry) *Manager {
	if actions == nil {
		actions = action.NewRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Null()
	}
	km := cfg.Keymap
	if km == nil {
		km = keymap.New("empty")
	}
	return &Manager{
		modes:   make(map[string]Mode),
		motion:  cfg.Motion,
		keymap:  km,
		actions: actions,
		logger:  logger.WithComponent("mode.manager"),
	}
}

// Register adds a mode to the manager.
// If a mode with the same name exists, it is replaced.
func (m *Manager) Register(mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.modes[mode.Name()]; !ok {
		m.order = append(m.order, mode.Name())
	}
	m.modes[mode.Name()] = mode
}

// Unregister removes a mode from the manager.
// Returns an error if trying to unregister the current mode.
func (m *Manager) Unregister(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.current.Name() == name {
		return fmt.Errorf("%w: %s", ErrCurrentMode, name)
	}

	delete(m.modes, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a mode by name, or nil if not found.
func (m *Manager) Get(name string) Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.modes[name]
}

// Current returns the current mode.
// Returns nil if no mode is set.
func (m *Manager) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CurrentName returns the name of the current mode.
// Returns empty string if no mode is set.
func (m *Manager) CurrentName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}

// Previous returns the previous mode.
// Returns nil if there is no previous mode.
func (m *Manager) Previous() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous
}

// Modes returns the names of all registered modes, sorted.
func (m *Manager) Modes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.modes))
	for name := range m.modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsMode returns true if the current mode matches the given name.
func (m *Manager) IsMode(name string) bool {
	return m.CurrentName() == name
}

// Keymap returns the keymap used for dispatch.
func (m *Manager) Keymap() *keymap.Keymap {
	return m.keymap
}

// Actions returns the action registry.
func (m *Manager) Actions() *action.Registry {
	return m.actions
}

// ReplaceKeymap swaps in the bindings of km between two keystrokes.
func (m *Manager) ReplaceKeymap(km *keymap.Keymap) {
	m.dispatch.Lock()
	defer m.dispatch.Unlock()

	m.keymap.Replace(km)
	m.logger.Info("keymap replaced with %q (%d bindings)", km.Name, km.Len())
}

// SetInitialMode activates name without deactivating anything.
// Should only be called once during initialization.
func (m *Manager) SetInitialMode(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mode, ok := m.modes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}
	if err := mode.HandleActivation(ctx, key.Event{}); err != nil {
		return fmt.Errorf("enter %s: %w", name, err)
	}
	m.current = mode
	return nil
}

// Switch changes to the mode called name.
func (m *Manager) Switch(ctx context.Context, name string) error {
	return m.switchTo(ctx, name, key.Event{})
}

// switchTo deactivates the current mode and activates name with the key
// that caused the switch. Callbacks run outside the lock.
func (m *Manager) switchTo(ctx context.Context, name string, ev key.Event) error {
	m.mu.Lock()

	newMode, ok := m.modes[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}

	oldMode := m.current
	if oldMode != nil {
		oldMode.HandleDeactivation()
	}
	if err := newMode.HandleActivation(ctx, ev); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("enter %s: %w", name, err)
	}

	m.previous = oldMode
	m.current = newMode

	callbacks := make([]ModeChangeCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	if oldMode != nil {
		m.logger.Debug("mode %s -> %s", oldMode.Name(), newMode.Name())
	}

	for _, cb := range callbacks {
		if cb != nil {
			cb(oldMode, newMode)
		}
	}
	return nil
}

// OnChange registers a callback for mode changes.
// Returns a function to unregister the callback.
func (m *Manager) OnChange(callback ModeChangeCallback) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
	index := len(m.callbacks) - 1

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// Remove callback by setting to nil (preserves indices)
		if index < len(m.callbacks) {
			m.callbacks[index] = nil
		}
	}
}

// candidates returns the registered modes other than current, in
// registration order.
func (m *Manager) candidates(current string) []Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	modes := make([]Mode, 0, len(m.order))
	for _, name := range m.order {
		if name != current {
			modes = append(modes, m.modes[name])
		}
	}
	return modes
}

// HandleKey dispatches one keystroke.
func (m *Manager) HandleKey(ctx context.Context, ev key.Event) (Result, error) {
	m.dispatch.Lock()
	defer m.dispatch.Unlock()

	cur := m.Current()
	if cur == nil {
		return Result{}, ErrNoMode
	}
	name := cur.Name()

	if c, ok := cur.(Counter); ok && c.AccumulateCount(ev) {
		return Result{Consumed: true}, nil
	}

	for _, mode := range m.candidates(name) {
		if mode.ShouldBeActivated(ev, name) {
			return Result{Consumed: true}, m.switchTo(ctx, mode.Name(), ev)
		}
	}

	cmd := m.keymap.Lookup(name, ev.VimString())
	if cmd == keymap.CommandExitMode {
		if name == ModeNormal {
			return Result{Consumed: true}, nil
		}
		return Result{Consumed: true}, m.switchTo(ctx, ModeNormal, ev)
	}

	if a, ok := m.actions.Lookup(cmd); ok {
		err := cur.HandleAction(ctx, a)
		if c, ok := cur.(Counter); ok {
			c.ClearCount()
		}
		return Result{Consumed: true}, err
	}

	res, err := cur.HandleKey(ctx, ev)
	if err != nil || res.Operator == nil {
		return res, err
	}

	m.logger.Info("%s ran %s", name, res.Operator.Name())
	if err := m.switchTo(ctx, operator.NextMode(res.Operator), ev); err != nil {
		return res, err
	}
	if l, ok := res.Operator.(operator.Lander); ok && m.motion != nil {
		if p, ok := l.Landing(); ok {
			m.motion.MoveTo(p.Line, p.Column)
		}
	}
	return res, nil
}
