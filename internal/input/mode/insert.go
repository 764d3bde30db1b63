package mode

import (
	"context"

	"github.com/dshills/vselect/internal/action"
	"github.com/dshills/vselect/internal/engine/buffer"
	"github.com/dshills/vselect/internal/input/key"
	"github.com/dshills/vselect/internal/input/keymap"
)

// InsertMode inserts typed characters at the cursor.
type InsertMode struct {
	BaseMode
}

// NewInsertMode creates a new insert mode instance.
func NewInsertMode(cfg Config) *InsertMode {
	return &InsertMode{BaseMode: NewBaseMode(ModeInsert, cfg)}
}

// DisplayName returns the human-readable mode name.
func (m *InsertMode) DisplayName() string {
	return "INSERT"
}

// CursorStyle returns the cursor style for insert mode.
func (m *InsertMode) CursorStyle() CursorStyle {
	return CursorBar
}

// ShouldBeActivated reports whether ev is an insert or append key pressed
// in normal mode.
func (m *InsertMode) ShouldBeActivated(ev key.Event, currentMode string) bool {
	if currentMode != ModeNormal {
		return false
	}
	switch m.lookup(currentMode, ev) {
	case keymap.CommandEnterInsertMode, keymap.CommandAppend:
		return true
	}
	return false
}

// HandleActivation lets the cursor rest past the end of the line. Append
// moves it one character right.
func (m *InsertMode) HandleActivation(_ context.Context, ev key.Event) error {
	m.motion.ClearSelection()
	m.motion.SetPastEnd(true)

	if m.lookup(ModeNormal, ev) == keymap.CommandAppend && m.Buffer().LineLen(m.motion.Position().Line) > 0 {
		p := m.motion.Position().Right()
		m.motion.MoveTo(p.Line, p.Column)
	}
	return nil
}

// HandleDeactivation steps the cursor back onto the last inserted character.
func (m *InsertMode) HandleDeactivation() {
	m.BaseMode.HandleDeactivation()

	p := m.motion.Position().Left()
	m.motion.SetPastEnd(false)
	m.motion.MoveTo(p.Line, p.Column)
}

// HandleAction moves the cursor to the position a returns.
func (m *InsertMode) HandleAction(ctx context.Context, a action.Action) error {
	pos, err := a.ExecAction(ctx, m, m.motion.Position())
	if err != nil {
		return err
	}
	m.motion.MoveTo(pos.Line, pos.Column)
	return nil
}

// HandleKey inserts printable characters, tabs and line breaks, and
// deletes backwards on Backspace.
func (m *InsertMode) HandleKey(_ context.Context, ev key.Event) (Result, error) {
	switch {
	case ev.IsChar() && !ev.IsModified():
		return m.insert(string(ev.Rune))
	case ev.IsEnter():
		return m.insert("\n")
	case ev.Key == key.KeyTab && ev.Modifiers == key.ModNone:
		return m.insert("\t")
	case ev.IsBackspace():
		return m.backspace()
	}
	return Result{}, nil
}

func (m *InsertMode) insert(text string) (Result, error) {
	end, err := m.Buffer().Insert(m.motion.Position(), text)
	if err != nil {
		return Result{}, err
	}
	m.motion.MoveTo(end.Line, end.Column)
	return Result{Consumed: true}, nil
}

func (m *InsertMode) backspace() (Result, error) {
	pos := m.motion.Position()
	var start buffer.Point
	switch {
	case pos.Column > 0:
		start = pos.Left()
	case pos.Line > 0:
		start = buffer.Point{Line: pos.Line - 1, Column: m.Buffer().LineLen(pos.Line - 1)}
	default:
		return Result{Consumed: true}, nil
	}

	if _, err := m.Buffer().Delete(start, pos); err != nil {
		return Result{}, err
	}
	m.motion.MoveTo(start.Line, start.Column)
	return Result{Consumed: true}, nil
}
