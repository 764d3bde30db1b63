// Package cursor provides cursor positioning and selection tracking for a
// single editor view.
//
// The cursor package handles:
//
//   - Text selections with an anchor/head model via the Selection type
//   - The Motion capability: the cursor position, clamped moves and the
//     currently displayed selection
//
// Selection Model:
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position
//
// The selection can extend forward (head >= anchor) or backward
// (head < anchor). Motion.Select stores the endpoints exactly as given and
// places the cursor on the second one, so callers decide the inclusive
// boundaries.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("abcdef")
//	m := cursor.NewMotion(buf)
//	m.MoveTo(0, 3)
//	m.Select(m.Position(), buffer.Point{Line: 0, Column: 5})
//	sel, _ := m.Selection() // Selection((0:3)→(0:5))
//
// Thread Safety:
//
// Selection is an immutable value type. Motion is safe for concurrent use.
package cursor
