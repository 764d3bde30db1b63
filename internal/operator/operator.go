package operator

import (
	"context"
	"sync"

	"github.com/dshills/vselect/internal/engine/buffer"
	"github.com/dshills/vselect/internal/register"
)

// Mode names operators may transition to.
const (
	ModeNormal = "normal"
	ModeInsert = "insert"
)

// Operator acts on the text between two points.
type Operator interface {
	// Name returns the operator identifier (e.g., "delete").
	Name() string

	// Run applies the operator to [start, end).
	Run(ctx context.Context, start, end buffer.Point) error
}

// Transitioner is implemented by operators that choose the mode entered
// after they run.
type Transitioner interface {
	NextMode() string
}

// Lander is implemented by operators that place the cursor after running.
// ok is false when the operator has not run yet.
type Lander interface {
	Landing() (p buffer.Point, ok bool)
}

// NextMode returns the mode to enter after op ran.
func NextMode(op Operator) string {
	if t, ok := op.(Transitioner); ok {
		if m := t.NextMode(); m != "" {
			return m
		}
	}
	return ModeNormal
}

// landing records the start of the last range an operator ran on.
type landing struct {
	mu  sync.Mutex
	at  buffer.Point
	set bool
}

func (l *landing) record(p buffer.Point) {
	l.mu.Lock()
	l.at, l.set = p, true
	l.mu.Unlock()
}

// Landing returns the start of the last range the operator ran on.
func (l *landing) Landing() (buffer.Point, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.at, l.set
}

// Delete removes text and stores it in the delete registers.
type Delete struct {
	landing

	buf  *buffer.Buffer
	regs *register.Store
}

// NewDelete creates a delete operator over buf.
func NewDelete(buf *buffer.Buffer, regs *register.Store) *Delete {
	return &Delete{buf: buf, regs: regs}
}

// Name returns "delete".
func (d *Delete) Name() string { return "delete" }

// Run deletes [start, end).
func (d *Delete) Run(ctx context.Context, start, end buffer.Point) error {
	r, err := deleteRange(ctx, d.buf, d.regs, start, end)
	if err != nil {
		return err
	}
	d.record(r.Start)
	return nil
}

// NextMode returns normal.
func (d *Delete) NextMode() string { return ModeNormal }

func deleteRange(ctx context.Context, buf *buffer.Buffer, regs *register.Store, start, end buffer.Point) (buffer.PointRange, error) {
	if err := ctx.Err(); err != nil {
		return buffer.PointRange{}, err
	}

	r := buffer.NewPointRange(start, end).Normalize()
	removed, err := buf.Delete(r.Start, r.End)
	if err != nil {
		return r, err
	}
	regs.SetDelete(removed, false)
	return r, nil
}

// Change deletes text like Delete and then enters insert mode.
type Change struct {
	landing

	buf  *buffer.Buffer
	regs *register.Store
}

// NewChange creates a change operator over buf.
func NewChange(buf *buffer.Buffer, regs *register.Store) *Change {
	return &Change{buf: buf, regs: regs}
}

// Name returns "change".
func (c *Change) Name() string { return "change" }

// Run deletes [start, end).
func (c *Change) Run(ctx context.Context, start, end buffer.Point) error {
	r, err := deleteRange(ctx, c.buf, c.regs, start, end)
	if err != nil {
		return err
	}
	c.record(r.Start)
	return nil
}

// NextMode returns insert.
func (c *Change) NextMode() string { return ModeInsert }

// Yank copies text into the yank registers.
type Yank struct {
	landing

	buf         *buffer.Buffer
	regs        *register.Store
	unnamedPlus bool
}

// YankOption configures a Yank operator.
type YankOption func(*Yank)

// WithUnnamedPlus mirrors yanked text to the clipboard register.
func WithUnnamedPlus(enabled bool) YankOption {
	return func(y *Yank) {
		y.unnamedPlus = enabled
	}
}

// NewYank creates a yank operator over buf.
func NewYank(buf *buffer.Buffer, regs *register.Store, opts ...YankOption) *Yank {
	y := &Yank{buf: buf, regs: regs}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// Name returns "yank".
func (y *Yank) Name() string { return "yank" }

// Run copies [start, end).
func (y *Yank) Run(ctx context.Context, start, end buffer.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r := buffer.NewPointRange(start, end).Normalize()
	text := y.buf.TextRange(r.Start, r.End)
	// The clipboard goes first so a failed write leaves every register untouched.
	if y.unnamedPlus {
		if err := y.regs.Set(register.Clipboard, text, false); err != nil {
			return err
		}
	}
	y.regs.SetYank(text, false)
	y.record(r.Start)
	return nil
}

// NextMode returns normal.
func (y *Yank) NextMode() string { return ModeNormal }
