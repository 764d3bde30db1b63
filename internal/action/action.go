// Package action provides the actions a mode executes for keymap commands.
//
// An Action computes a new cursor position from the current one. Motions
// only compute; editing actions such as paste also change the buffer.
// Actions never move the cursor themselves: the mode decides what to do
// with the returned position (move the cursor, extend a selection).
package action

import (
	"context"

	"github.com/dshills/vselect/internal/engine/buffer"
	"github.com/dshills/vselect/internal/register"
)

// Env is the mode context an action executes in.
type Env interface {
	// Buffer returns the text buffer.
	Buffer() *buffer.Buffer

	// Registers returns the register store.
	Registers() *register.Store

	// Count returns the pending count prefix, at least 1.
	Count() int
}

// Action is a command executed by a mode.
type Action interface {
	// Name returns the action identifier.
	Name() string

	// ExecAction runs the action at pos and returns the resulting position.
	ExecAction(ctx context.Context, env Env, pos buffer.Point) (buffer.Point, error)
}

// Func adapts a function to the Action interface.
type Func struct {
	name string
	fn   func(ctx context.Context, env Env, pos buffer.Point) (buffer.Point, error)
}

// NewFunc creates an action from fn.
func NewFunc(name string, fn func(ctx context.Context, env Env, pos buffer.Point) (buffer.Point, error)) *Func {
	return &Func{name: name, fn: fn}
}

// Name returns the action name.
func (f *Func) Name() string { return f.name }

// ExecAction calls the wrapped function.
func (f *Func) ExecAction(ctx context.Context, env Env, pos buffer.Point) (buffer.Point, error) {
	return f.fn(ctx, env, pos)
}

// StaticEnv is a fixed Env, useful for running actions outside a mode.
type StaticEnv struct {
	Buf   *buffer.Buffer
	Regs  *register.Store
	Times int
}

// Buffer returns Buf.
func (e StaticEnv) Buffer() *buffer.Buffer { return e.Buf }

// Registers returns Regs.
func (e StaticEnv) Registers() *register.Store { return e.Regs }

// Count returns Times, at least 1.
func (e StaticEnv) Count() int {
	if e.Times < 1 {
		return 1
	}
	return e.Times
}
