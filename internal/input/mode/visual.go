package mode

import (
	"context"

	"github.com/dshills/vselect/internal/action"
	"github.com/dshills/vselect/internal/engine/buffer"
	"github.com/dshills/vselect/internal/input/key"
	"github.com/dshills/vselect/internal/input/keymap"
	"github.com/dshills/vselect/internal/operator"
)

// VisualMode implements character-wise visual selection.
//
// The selection runs from an anchor, set once on activation, to a focus
// that follows every motion. Both endpoint characters are selected.
type VisualMode struct {
	BaseMode

	// operators is built in NewVisualMode and never modified.
	operators OperatorTable

	anchor buffer.Point
	focus  buffer.Point

	// deferred is a matched operator held back while a longer binding
	// can still complete.
	deferred     operator.Operator
	deferredKeys string
}

// NewVisualMode creates a new visual mode instance.
func NewVisualMode(cfg Config, opts ...VisualOption) *VisualMode {
	o := visualOptions{extra: make(OperatorTable)}
	for _, opt := range opts {
		opt(&o)
	}

	m := &VisualMode{BaseMode: NewBaseMode(ModeVisual, cfg)}
	m.counts = true
	m.operators = newOperatorTable(Config{Motion: cfg.Motion, Registers: m.regs}, o)
	return m
}

// DisplayName returns the human-readable mode name.
func (m *VisualMode) DisplayName() string {
	return "VISUAL"
}

// CursorStyle returns the cursor style for visual mode.
func (m *VisualMode) CursorStyle() CursorStyle {
	return CursorBlock
}

// Operator returns the operator bound to keys.
func (m *VisualMode) Operator(keys string) (operator.Operator, bool) {
	op, ok := m.operators[keys]
	return op, ok
}

// OperatorKeys returns the bound operator key sequences, sorted.
func (m *VisualMode) OperatorKeys() []string {
	return m.operators.Keys()
}

// Anchor returns the selection anchor.
func (m *VisualMode) Anchor() buffer.Point {
	return m.anchor
}

// Focus returns the selection focus.
func (m *VisualMode) Focus() buffer.Point {
	return m.focus
}

// activate anchors a new selection at p.
func (m *VisualMode) activate(p buffer.Point) {
	m.anchor = p
	m.focus = p
	m.motion.Select(p, p)
}

// extend moves the focus to f and selects from scratch. The range is
// [anchor, f] when anchor <= f and [anchor.Right(), f] otherwise, so the
// anchor character stays selected in both directions.
func (m *VisualMode) extend(f buffer.Point) buffer.PointRange {
	m.focus = f

	var r buffer.PointRange
	if m.anchor.Compare(f) <= 0 {
		r = buffer.NewPointRange(m.anchor, f)
	} else {
		r = buffer.NewPointRange(m.anchor.Right(), f)
	}
	m.motion.Select(r.Start, r.End)
	return r
}

// deactivate returns the focus. Anchor and focus are left as they are.
func (m *VisualMode) deactivate() buffer.Point {
	return m.focus
}

// operatorRange returns the end-exclusive range an operator runs on.
func (m *VisualMode) operatorRange() (start, end buffer.Point) {
	if m.anchor.Compare(m.focus) <= 0 {
		return m.anchor, m.focus.Right()
	}
	return m.anchor.Right(), m.focus
}

// ShouldBeActivated reports whether ev enters visual mode from normal mode.
func (m *VisualMode) ShouldBeActivated(ev key.Event, currentMode string) bool {
	return currentMode == ModeNormal && m.lookup(currentMode, ev) == keymap.CommandEnterVisualMode
}

// HandleActivation anchors the selection at the cursor.
func (m *VisualMode) HandleActivation(context.Context, key.Event) error {
	m.clearDeferred()
	m.activate(m.motion.Position())
	m.logger.Debug("selection anchored at %s", m.anchor)
	return nil
}

// HandleDeactivation clears the key history and count, then leaves the
// cursor on the focus.
func (m *VisualMode) HandleDeactivation() {
	m.BaseMode.HandleDeactivation()
	m.clearDeferred()

	focus := m.deactivate()
	m.motion.MoveTo(focus.Line, focus.Column)
}

// HandleAction runs a from the cursor and extends the selection to the
// position it returns. Errors from a are returned as is.
func (m *VisualMode) HandleAction(ctx context.Context, a action.Action) error {
	pos, err := a.ExecAction(ctx, m, m.motion.Position())
	if err != nil {
		return err
	}
	m.onMotion(pos)
	return nil
}

// onMotion extends the selection to pos and starts a new key sequence.
func (m *VisualMode) onMotion(pos buffer.Point) bool {
	m.extend(pos)
	m.ClearHistory()
	m.clearDeferred()
	return true
}

func (m *VisualMode) clearDeferred() {
	m.deferred, m.deferredKeys = nil, ""
}

// HandleKey records ev in the key history and runs the operator bound to
// the longest trailing key sequence. Unmatched keys stay in the history.
//
// A match that is also the start of a longer binding waits for the next
// key. If that key neither extends it nor matches on its own, the waiting
// operator runs.
func (m *VisualMode) HandleKey(ctx context.Context, ev key.Event) (Result, error) {
	m.PushKey(ev.VimString())

	op, keys, window := resolveWindow(m.history, m.operators)
	if Pending(m.history, m.operators, window) {
		if op != nil {
			m.deferred, m.deferredKeys = op, keys
		}
		return Result{Consumed: true}, nil
	}
	if op == nil {
		if m.deferred == nil {
			return Result{Consumed: true}, nil
		}
		op, keys = m.deferred, m.deferredKeys
	}
	m.clearDeferred()

	start, end := m.operatorRange()
	if err := op.Run(ctx, start, end); err != nil {
		return Result{}, err
	}
	m.logger.Debug("operator %s (%q) ran on [%s, %s)", op.Name(), keys, start, end)
	return Result{Consumed: true, Operator: op}, nil
}
