package keymap

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/vselect/internal/input/key"
)

// Global is the pseudo mode whose bindings apply in every mode.
const Global = "global"

// Errors returned by keymap operations.
var (
	ErrEmptyKeys    = errors.New("binding has no keys")
	ErrEmptyCommand = errors.New("binding has no command")
	ErrEmptyMode    = errors.New("binding has no mode")
)

// Binding represents a single key-to-command mapping.
type Binding struct {
	// Mode is the mode the binding applies to, or Global.
	Mode string

	// Keys is the key in canonical Vim notation.
	Keys string

	// Command is the command to execute.
	Command Command
}

// Keymap holds key bindings per mode.
type Keymap struct {
	mu sync.RWMutex

	// Name is the keymap identifier.
	Name string

	// bindings maps mode -> canonical key -> command.
	bindings map[string]map[string]Command
}

// New creates an empty keymap with the given name.
func New(name string) *Keymap {
	return &Keymap{
		Name:     name,
		bindings: make(map[string]map[string]Command),
	}
}

// Canonical returns the canonical Vim notation of a key specification.
func Canonical(spec string) (string, error) {
	e, err := key.Parse(spec)
	if err != nil {
		return "", err
	}
	return e.VimString(), nil
}

// Bind maps keys to cmd in mode. An existing binding is replaced.
func (k *Keymap) Bind(mode, keys string, cmd Command) error {
	if mode == "" {
		return ErrEmptyMode
	}
	if keys == "" {
		return ErrEmptyKeys
	}
	if cmd == CommandNone {
		return fmt.Errorf("%w: %s %q", ErrEmptyCommand, mode, keys)
	}

	canonical, err := Canonical(keys)
	if err != nil {
		return fmt.Errorf("binding %s %q: %w", mode, keys, err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	table, ok := k.bindings[mode]
	if !ok {
		table = make(map[string]Command)
		k.bindings[mode] = table
	}
	table[canonical] = cmd
	return nil
}

// MustBind is like Bind but panics on error. Used for built-in tables.
func (k *Keymap) MustBind(mode, keys string, cmd Command) *Keymap {
	if err := k.Bind(mode, keys, cmd); err != nil {
		panic(err)
	}
	return k
}

// Unbind removes the binding of keys in mode.
func (k *Keymap) Unbind(mode, keys string) {
	canonical, err := Canonical(keys)
	if err != nil {
		return
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.bindings[mode], canonical)
}

// Lookup returns the command bound to a canonical key in mode.
// Mode bindings take precedence over global ones.
// Returns CommandNone if the key is unbound.
func (k *Keymap) Lookup(mode, keys string) Command {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if cmd, ok := k.bindings[mode][keys]; ok {
		return cmd
	}
	return k.bindings[Global][keys]
}

// Bindings returns the bindings of mode sorted by key.
// Global bindings are not included.
func (k *Keymap) Bindings(mode string) []Binding {
	k.mu.RLock()
	defer k.mu.RUnlock()

	table := k.bindings[mode]
	result := make([]Binding, 0, len(table))
	for keys, cmd := range table {
		result = append(result, Binding{Mode: mode, Keys: keys, Command: cmd})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Keys < result[j].Keys
	})
	return result
}

// Modes returns the modes that have bindings, sorted.
func (k *Keymap) Modes() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	modes := make([]string, 0, len(k.bindings))
	for m := range k.bindings {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	return modes
}

// All returns every binding, ordered by mode and key.
func (k *Keymap) All() []Binding {
	var all []Binding
	for _, m := range k.Modes() {
		all = append(all, k.Bindings(m)...)
	}
	return all
}

// Merge copies all bindings of other into k, replacing duplicates.
func (k *Keymap) Merge(other *Keymap) {
	for _, b := range other.All() {
		k.mu.Lock()
		table, ok := k.bindings[b.Mode]
		if !ok {
			table = make(map[string]Command)
			k.bindings[b.Mode] = table
		}
		table[b.Keys] = b.Command
		k.mu.Unlock()
	}
}

// Replace swaps in the name and bindings of other.
// Lookups observe either the old or the new bindings, never a mix.
func (k *Keymap) Replace(other *Keymap) {
	other.mu.RLock()
	name := other.Name
	bindings := make(map[string]map[string]Command, len(other.bindings))
	for mode, table := range other.bindings {
		copied := make(map[string]Command, len(table))
		for keys, cmd := range table {
			copied[keys] = cmd
		}
		bindings[mode] = copied
	}
	other.mu.RUnlock()

	k.mu.Lock()
	defer k.mu.Unlock()
	k.Name = name
	k.bindings = bindings
}

// Len returns the total number of bindings.
func (k *Keymap) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()

	n := 0
	for _, table := range k.bindings {
		n += len(table)
	}
	return n
}
