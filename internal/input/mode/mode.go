package mode

import (
	"context"

	"github.com/dshills/vselect/internal/action"
	"github.com/dshills/vselect/internal/input/key"
	"github.com/dshills/vselect/internal/operator"
)

// Standard mode names.
const (
	ModeNormal = "normal"
	ModeInsert = "insert"
	ModeVisual = "visual"
)

// Mode defines the interface for editor modes.
type Mode interface {
	// Name returns the unique mode identifier (e.g., "normal", "visual").
	Name() string

	// DisplayName returns a human-readable name for the status line.
	DisplayName() string

	// CursorStyle returns the cursor style for this mode.
	CursorStyle() CursorStyle

	// ShouldBeActivated reports whether ev, pressed in currentMode, enters
	// this mode. It must not change any state.
	ShouldBeActivated(ev key.Event, currentMode string) bool

	// HandleActivation is called when entering this mode. ev is the key
	// that caused the switch, or the zero Event.
	HandleActivation(ctx context.Context, ev key.Event) error

	// HandleDeactivation is called when leaving this mode.
	HandleDeactivation()

	// HandleAction executes a for the current cursor position.
	HandleAction(ctx context.Context, a action.Action) error

	// HandleKey handles a key that is neither a mode switch nor bound to
	// an action.
	HandleKey(ctx context.Context, ev key.Event) (Result, error)
}

// Result describes what a mode did with a key.
type Result struct {
	// Consumed indicates whether the key was handled.
	Consumed bool

	// Operator is the operator that fired on this key, if any.
	Operator operator.Operator
}

// Counter is implemented by modes that accept a count prefix.
type Counter interface {
	// AccumulateCount consumes ev if it extends the count prefix.
	AccumulateCount(ev key.Event) bool

	// ClearCount resets the count prefix.
	ClearCount()
}

// CursorStyle defines the visual appearance of the cursor.
type CursorStyle uint8

const (
	// CursorBlock is a full-cell block cursor (normal mode).
	CursorBlock CursorStyle = iota

	// CursorBar is a thin vertical bar cursor (insert mode).
	CursorBar

	// CursorUnderline is an underline cursor.
	CursorUnderline
)

// String returns a human-readable cursor style name.
func (c CursorStyle) String() string {
	switch c {
	case CursorBlock:
		return "block"
	case CursorBar:
		return "bar"
	case CursorUnderline:
		return "underline"
	default:
		return "unknown"
	}
}
