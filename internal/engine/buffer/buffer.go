package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrPointOutOfRange = errors.New("point out of range")
	ErrReadOnly        = errors.New("buffer is read-only")
)

// Buffer is a line-oriented text store.
// It provides the primary interface for text manipulation.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	lines      []string
	revisionID RevisionID
	readOnly   bool
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []string{""},
		revisionID: NewRevisionID(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
// CRLF and CR line endings are normalized to LF.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.lines = splitLines(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, "\n")
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(len(b.lines))
}

// Line returns the text of the given line without its line ending.
// Returns an empty string for lines past the end of the buffer.
func (b *Buffer) Line(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if int(line) >= len(b.lines) {
		return ""
	}
	return b.lines[line]
}

// LineLen returns the length of the given line in characters.
func (b *Buffer) LineLen(line uint32) uint32 {
	return uint32(utf8.RuneCountInString(b.Line(line)))
}

// IsEmpty returns true if the buffer contains no text.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines) == 1 && b.lines[0] == ""
}

// RuneAt returns the character at p.
// Returns false if p is past the end of its line.
func (b *Buffer) RuneAt(p Point) (rune, bool) {
	line := b.Line(p.Line)
	var col uint32
	for _, r := range line {
		if col == p.Column {
			return r, true
		}
		col++
	}
	return 0, false
}

// ClampPoint returns p limited to the buffer: the line to the last line
// and the column to the line length.
func (b *Buffer) ClampPoint(p Point) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.clampLocked(p)
}

func (b *Buffer) clampLocked(p Point) Point {
	last := uint32(len(b.lines) - 1)
	if p.Line > last {
		p.Line = last
		p.Column = uint32(utf8.RuneCountInString(b.lines[last]))
		return p
	}
	if n := uint32(utf8.RuneCountInString(b.lines[p.Line])); p.Column > n {
		p.Column = n
	}
	return p
}

// TextRange returns the text in [start, end).
// The endpoints may be given in either order and are clamped to the buffer.
// Line breaks inside the range are returned as "\n".
func (b *Buffer) TextRange(start, end Point) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	r := b.normalizedLocked(start, end)
	return b.textLocked(r)
}

func (b *Buffer) normalizedLocked(start, end Point) PointRange {
	r := NewPointRange(start, end).Normalize()
	r.Start = b.clampLocked(r.Start)
	r.End = b.clampLocked(r.End)
	return r
}

func (b *Buffer) textLocked(r PointRange) string {
	if r.IsEmpty() {
		return ""
	}

	first := b.lines[r.Start.Line]
	if r.IsSingleLine() {
		return first[byteIndex(first, r.Start.Column):byteIndex(first, r.End.Column)]
	}

	var sb strings.Builder
	sb.WriteString(first[byteIndex(first, r.Start.Column):])
	for line := r.Start.Line + 1; line < r.End.Line; line++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[line])
	}
	last := b.lines[r.End.Line]
	sb.WriteByte('\n')
	sb.WriteString(last[:byteIndex(last, r.End.Column)])
	return sb.String()
}

// Write Operations

// Delete removes the text in [start, end) and returns it.
// The endpoints may be given in either order and are clamped to the buffer.
func (b *Buffer) Delete(start, end Point) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return "", ErrReadOnly
	}

	r := b.normalizedLocked(start, end)
	if r.IsEmpty() {
		return "", nil
	}
	removed := b.textLocked(r)

	first := b.lines[r.Start.Line]
	last := b.lines[r.End.Line]
	joined := first[:byteIndex(first, r.Start.Column)] + last[byteIndex(last, r.End.Column):]

	lines := make([]string, 0, len(b.lines)-int(r.End.Line-r.Start.Line))
	lines = append(lines, b.lines[:r.Start.Line]...)
	lines = append(lines, joined)
	lines = append(lines, b.lines[r.End.Line+1:]...)
	b.lines = lines
	b.revisionID = NewRevisionID()

	return removed, nil
}

// Insert inserts text at p and returns the point just after the inserted text.
// Returns ErrPointOutOfRange if p is outside the buffer.
func (b *Buffer) Insert(p Point, text string) (Point, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return p, ErrReadOnly
	}
	if int(p.Line) >= len(b.lines) || p.Column > uint32(utf8.RuneCountInString(b.lines[p.Line])) {
		return p, ErrPointOutOfRange
	}
	if text == "" {
		return p, nil
	}

	line := b.lines[p.Line]
	idx := byteIndex(line, p.Column)
	parts := splitLines(text)
	tail := line[idx:]

	inserted := make([]string, len(parts))
	copy(inserted, parts)
	inserted[0] = line[:idx] + inserted[0]

	endLine := p.Line + uint32(len(parts)-1)
	endCol := uint32(utf8.RuneCountInString(inserted[len(inserted)-1]))
	inserted[len(inserted)-1] += tail

	lines := make([]string, 0, len(b.lines)+len(parts)-1)
	lines = append(lines, b.lines[:p.Line]...)
	lines = append(lines, inserted...)
	lines = append(lines, b.lines[p.Line+1:]...)
	b.lines = lines
	b.revisionID = NewRevisionID()

	return Point{Line: endLine, Column: endCol}, nil
}

// RevisionID returns the current revision identifier.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// ReadOnly returns true if the buffer rejects modifications.
func (b *Buffer) ReadOnly() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readOnly
}

// byteIndex converts a character column to a byte index within s.
// Columns past the end map to len(s).
func byteIndex(s string, col uint32) int {
	var n uint32
	for i := range s {
		if n == col {
			return i
		}
		n++
	}
	return len(s)
}
