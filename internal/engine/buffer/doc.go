// Package buffer provides a thread-safe, line-oriented text buffer and the
// position types the editing modes work with.
//
// The buffer package provides:
//
//   - Point: an immutable (line, column) coordinate with a total order
//   - PointRange: a half-open range of points
//   - Buffer: a line store with range reads, deletes and inserts
//
// Columns are measured in characters (runes), not bytes, so stepping one
// character to the right is a pure value operation:
//
//	p := buffer.Point{Line: 0, Column: 3}
//	p.Right() // (0:4)
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("abcdef")
//	buf.TextRange(buffer.Point{Column: 3}, buffer.Point{Column: 6}) // "def"
//	buf.Delete(buffer.Point{Column: 0}, buffer.Point{Column: 2})    // "cdef"
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while write operations acquire an exclusive write lock.
package buffer
