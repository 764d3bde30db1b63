package cursor

import (
	"sync"

	"github.com/dshills/vselect/internal/engine/buffer"
)

// Motion owns the cursor and the displayed selection of one editor view.
// Positions passed to MoveTo are clamped to the buffer; positions passed to
// Select are stored exactly as given.
type Motion struct {
	mu sync.RWMutex

	buf *buffer.Buffer
	pos Point

	sel    Selection
	hasSel bool

	// pastEnd allows the cursor to rest one character past the end of a
	// line, as insert mode needs.
	pastEnd bool
}

// NewMotion creates a Motion at the start of buf.
func NewMotion(buf *buffer.Buffer) *Motion {
	return &Motion{buf: buf}
}

// Buffer returns the buffer the cursor moves over.
func (m *Motion) Buffer() *buffer.Buffer {
	return m.buf
}

// Position returns the current cursor position.
func (m *Motion) Position() Point {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pos
}

// MoveTo moves the cursor to line and column, clamped to the buffer.
// Without past-end mode the column stops on the last character of the line.
func (m *Motion) MoveTo(line, column uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = m.clamp(Point{Line: line, Column: column})
}

func (m *Motion) clamp(p Point) Point {
	p = m.buf.ClampPoint(p)
	if !m.pastEnd {
		if n := m.buf.LineLen(p.Line); n > 0 && p.Column >= n {
			p.Column = n - 1
		}
	}
	return p
}

// Select records the displayed selection from start to end and places the
// cursor on end. The endpoints are not reordered or clamped.
func (m *Motion) Select(start, end Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sel = NewSelection(start, end)
	m.hasSel = true
	m.pos = end
}

// Selection returns the displayed selection, if any.
func (m *Motion) Selection() (Selection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sel, m.hasSel
}

// ClearSelection removes the displayed selection. The cursor is unchanged.
func (m *Motion) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sel = Selection{}
	m.hasSel = false
}

// SetPastEnd toggles whether the cursor may rest past the last character.
// Turning it off re-clamps the current position.
func (m *Motion) SetPastEnd(allow bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pastEnd = allow
	m.pos = m.clamp(m.pos)
}
