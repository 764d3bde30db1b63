package mode

import (
	"context"

	"github.com/dshills/vselect/internal/action"
	"github.com/dshills/vselect/internal/input/key"
)

// NormalMode is the baseline mode: actions move the cursor and unmapped
// keys are ignored.
type NormalMode struct {
	BaseMode
}

// NewNormalMode creates a new normal mode instance.
func NewNormalMode(cfg Config) *NormalMode {
	m := &NormalMode{BaseMode: NewBaseMode(ModeNormal, cfg)}
	m.counts = true
	return m
}

// DisplayName returns the human-readable mode name.
func (m *NormalMode) DisplayName() string {
	return "NORMAL"
}

// CursorStyle returns the cursor style for normal mode.
func (m *NormalMode) CursorStyle() CursorStyle {
	return CursorBlock
}

// ShouldBeActivated returns false; the manager returns to normal mode on
// "mode.normal" commands and after operators.
func (m *NormalMode) ShouldBeActivated(key.Event, string) bool {
	return false
}

// HandleActivation clears any displayed selection.
func (m *NormalMode) HandleActivation(context.Context, key.Event) error {
	m.motion.ClearSelection()
	m.motion.SetPastEnd(false)
	return nil
}

// HandleAction moves the cursor to the position a returns.
func (m *NormalMode) HandleAction(ctx context.Context, a action.Action) error {
	pos, err := a.ExecAction(ctx, m, m.motion.Position())
	if err != nil {
		return err
	}
	m.motion.MoveTo(pos.Line, pos.Column)
	return nil
}

// HandleKey ignores unmapped keys.
func (m *NormalMode) HandleKey(context.Context, key.Event) (Result, error) {
	m.ClearCount()
	return Result{}, nil
}
