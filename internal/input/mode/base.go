package mode

import (
	"github.com/dshills/vselect/internal/engine/buffer"
	"github.com/dshills/vselect/internal/engine/cursor"
	"github.com/dshills/vselect/internal/input/key"
	"github.com/dshills/vselect/internal/input/keymap"
	"github.com/dshills/vselect/internal/logging"
	"github.com/dshills/vselect/internal/register"
)

// maxHistory bounds the key history. Older keys can no longer take part
// in an operator match.
const maxHistory = 32

// Config holds the collaborators shared by all modes of one editor view.
type Config struct {
	Motion    *cursor.Motion
	Keymap    *keymap.Keymap
	Registers *register.Store
	Logger    *logging.Logger
}

// BaseMode holds the state common to all modes. It implements action.Env.
//
// BaseMode is not safe for concurrent use; the Manager serializes access.
type BaseMode struct {
	name   string
	motion *cursor.Motion
	keymap *keymap.Keymap
	regs   *register.Store
	logger *logging.Logger

	// history holds the canonical keys received since the last motion.
	history []string

	// count holds the numeric prefix, 0 when none was typed.
	count int

	// counts enables the count prefix.
	counts bool
}

// NewBaseMode creates the shared state for the mode called name.
func NewBaseMode(name string, cfg Config) BaseMode {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Null()
	}
	regs := cfg.Registers
	if regs == nil {
		regs = register.NewStore()
	}
	return BaseMode{
		name:    name,
		motion:  cfg.Motion,
		keymap:  cfg.Keymap,
		regs:    regs,
		logger:  logger.WithComponent("mode." + name),
		history: make([]string, 0, maxHistory),
	}
}

// Name returns the mode identifier.
func (b *BaseMode) Name() string {
	return b.name
}

// Motion returns the cursor motion capability.
func (b *BaseMode) Motion() *cursor.Motion {
	return b.motion
}

// Keymap returns the key configuration.
func (b *BaseMode) Keymap() *keymap.Keymap {
	return b.keymap
}

// Buffer returns the text buffer.
func (b *BaseMode) Buffer() *buffer.Buffer {
	return b.motion.Buffer()
}

// Registers returns the register store.
func (b *BaseMode) Registers() *register.Store {
	return b.regs
}

// Logger returns the mode logger.
func (b *BaseMode) Logger() *logging.Logger {
	return b.logger
}

// Count returns the count prefix, 1 when none was typed.
func (b *BaseMode) Count() int {
	if b.count == 0 {
		return 1
	}
	return b.count
}

// AccumulateCount consumes digits of a count prefix. A leading 0 is not
// a count.
func (b *BaseMode) AccumulateCount(ev key.Event) bool {
	if !b.counts || !ev.IsDigit() {
		return false
	}
	if ev.Rune == '0' && b.count == 0 {
		return false
	}
	b.count = b.count*10 + int(ev.Rune-'0')
	return true
}

// ClearCount resets the count prefix.
func (b *BaseMode) ClearCount() {
	b.count = 0
}

// History returns a copy of the key history.
func (b *BaseMode) History() []string {
	h := make([]string, len(b.history))
	copy(h, b.history)
	return h
}

// PushKey appends a canonical key to the history.
func (b *BaseMode) PushKey(k string) {
	if len(b.history) == maxHistory {
		copy(b.history, b.history[1:])
		b.history = b.history[:maxHistory-1]
	}
	b.history = append(b.history, k)
}

// ClearHistory empties the key history.
func (b *BaseMode) ClearHistory() {
	b.history = b.history[:0]
}

// HandleDeactivation clears the key history and the count prefix.
func (b *BaseMode) HandleDeactivation() {
	b.ClearHistory()
	b.ClearCount()
}

// lookup returns the command bound to ev in mode.
func (b *BaseMode) lookup(mode string, ev key.Event) keymap.Command {
	if b.keymap == nil {
		return keymap.CommandNone
	}
	return b.keymap.Lookup(mode, ev.VimString())
}
