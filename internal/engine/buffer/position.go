package buffer

import (
	"fmt"
	"sync/atomic"
)

// Point represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in characters from the start of the line.
// Point is an immutable value type.
type Point struct {
	Line   uint32 // 0-indexed line number
	Column uint32 // 0-indexed column (character index within line)
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// Right returns the position one character to the right on the same line.
// It does not clamp to the line length.
func (p Point) Right() Point {
	return Point{Line: p.Line, Column: p.Column + 1}
}

// Left returns the position one character to the left on the same line.
// Column 0 stays at column 0.
func (p Point) Left() Point {
	if p.Column == 0 {
		return p
	}
	return Point{Line: p.Line, Column: p.Column - 1}
}

// MinPoint returns the earlier of two points.
func MinPoint(a, b Point) Point {
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

// MaxPoint returns the later of two points.
func MaxPoint(a, b Point) Point {
	if a.Compare(b) >= 0 {
		return a
	}
	return b
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
