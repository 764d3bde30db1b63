package action

import (
	"context"
	"unicode"

	"github.com/dshills/vselect/internal/engine/buffer"
)

// motion is a pure position computation.
type motion func(buf *buffer.Buffer, pos buffer.Point, count int) buffer.Point

func newMotion(name string, m motion) *Func {
	return NewFunc(name, func(ctx context.Context, env Env, pos buffer.Point) (buffer.Point, error) {
		if err := ctx.Err(); err != nil {
			return pos, err
		}
		return m(env.Buffer(), pos, env.Count()), nil
	})
}

// Built-in motions.
var (
	Left          = newMotion("cursor.left", left)
	Right         = newMotion("cursor.right", right)
	Up            = newMotion("cursor.up", up)
	Down          = newMotion("cursor.down", down)
	WordForward   = newMotion("cursor.wordForward", repeat(wordForward))
	WordBackward  = newMotion("cursor.wordBackward", repeat(wordBackward))
	WordEnd       = newMotion("cursor.wordEnd", repeat(wordEnd))
	LineStart     = newMotion("cursor.lineStart", lineStart)
	LineEnd       = newMotion("cursor.lineEnd", lineEnd)
	FirstNonBlank = newMotion("cursor.firstNonBlank", firstNonBlank)
	FileStart     = newMotion("cursor.fileStart", fileStart)
	FileEnd       = newMotion("cursor.fileEnd", fileEnd)
)

// lastColumn returns the column of the last character on line, 0 when empty.
func lastColumn(buf *buffer.Buffer, line uint32) uint32 {
	if n := buf.LineLen(line); n > 0 {
		return n - 1
	}
	return 0
}

// clampPoint limits p to an existing character of the buffer.
func clampPoint(buf *buffer.Buffer, p buffer.Point) buffer.Point {
	if last := buf.LineCount() - 1; p.Line > last {
		p.Line = last
	}
	if lc := lastColumn(buf, p.Line); p.Column > lc {
		p.Column = lc
	}
	return p
}

func repeat(m func(*buffer.Buffer, buffer.Point) buffer.Point) motion {
	return func(buf *buffer.Buffer, pos buffer.Point, count int) buffer.Point {
		for i := 0; i < count; i++ {
			next := m(buf, pos)
			if next == pos {
				break
			}
			pos = next
		}
		return pos
	}
}

func left(_ *buffer.Buffer, pos buffer.Point, count int) buffer.Point {
	if uint32(count) > pos.Column {
		pos.Column = 0
	} else {
		pos.Column -= uint32(count)
	}
	return pos
}

func right(buf *buffer.Buffer, pos buffer.Point, count int) buffer.Point {
	pos.Column += uint32(count)
	return clampPoint(buf, pos)
}

func up(buf *buffer.Buffer, pos buffer.Point, count int) buffer.Point {
	if uint32(count) > pos.Line {
		pos.Line = 0
	} else {
		pos.Line -= uint32(count)
	}
	return clampPoint(buf, pos)
}

func down(buf *buffer.Buffer, pos buffer.Point, count int) buffer.Point {
	pos.Line += uint32(count)
	return clampPoint(buf, pos)
}

func lineStart(_ *buffer.Buffer, pos buffer.Point, _ int) buffer.Point {
	return buffer.Point{Line: pos.Line}
}

// lineEnd moves to the last character, count-1 lines down.
func lineEnd(buf *buffer.Buffer, pos buffer.Point, count int) buffer.Point {
	pos = down(buf, pos, count-1)
	return buffer.Point{Line: pos.Line, Column: lastColumn(buf, pos.Line)}
}

func firstNonBlank(buf *buffer.Buffer, pos buffer.Point, _ int) buffer.Point {
	return buffer.Point{Line: pos.Line, Column: firstNonBlankColumn(buf, pos.Line)}
}

func firstNonBlankColumn(buf *buffer.Buffer, line uint32) uint32 {
	for i, r := range []rune(buf.Line(line)) {
		if !unicode.IsSpace(r) {
			return uint32(i)
		}
	}
	return lastColumn(buf, line)
}

func fileStart(buf *buffer.Buffer, _ buffer.Point, _ int) buffer.Point {
	return buffer.Point{Column: firstNonBlankColumn(buf, 0)}
}

func fileEnd(buf *buffer.Buffer, _ buffer.Point, _ int) buffer.Point {
	last := buf.LineCount() - 1
	return buffer.Point{Line: last, Column: firstNonBlankColumn(buf, last)}
}

// Character classes for word motions.
const (
	classSpace = iota
	classWord
	classPunct
)

func classOf(r rune) int {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	default:
		return classPunct
	}
}

// wordForward moves to the start of the next word. An empty line counts
// as a word.
func wordForward(buf *buffer.Buffer, pos buffer.Point) buffer.Point {
	line := pos.Line
	runes := []rune(buf.Line(line))
	col := int(pos.Column)

	if col < len(runes) {
		if cls := classOf(runes[col]); cls != classSpace {
			for col < len(runes) && classOf(runes[col]) == cls {
				col++
			}
		}
	}

	for {
		for col < len(runes) && classOf(runes[col]) == classSpace {
			col++
		}
		if col < len(runes) {
			return buffer.Point{Line: line, Column: uint32(col)}
		}
		if line+1 >= buf.LineCount() {
			return buffer.Point{Line: line, Column: lastColumn(buf, line)}
		}
		line++
		runes = []rune(buf.Line(line))
		col = 0
		if len(runes) == 0 {
			return buffer.Point{Line: line}
		}
	}
}

// wordBackward moves to the start of the previous word.
func wordBackward(buf *buffer.Buffer, pos buffer.Point) buffer.Point {
	line := pos.Line
	runes := []rune(buf.Line(line))
	col := int(pos.Column)
	if col > len(runes) {
		col = len(runes)
	}

	for {
		if col == 0 {
			if line == 0 {
				return buffer.Point{}
			}
			line--
			runes = []rune(buf.Line(line))
			col = len(runes)
			if col == 0 {
				return buffer.Point{Line: line}
			}
			continue
		}
		if classOf(runes[col-1]) != classSpace {
			break
		}
		col--
	}

	cls := classOf(runes[col-1])
	for col > 0 && classOf(runes[col-1]) == cls {
		col--
	}
	return buffer.Point{Line: line, Column: uint32(col)}
}

// wordEnd moves to the end of the current or next word.
func wordEnd(buf *buffer.Buffer, pos buffer.Point) buffer.Point {
	line := pos.Line
	runes := []rune(buf.Line(line))
	col := int(pos.Column) + 1

	for {
		if col >= len(runes) {
			if line+1 >= buf.LineCount() {
				return pos
			}
			line++
			runes = []rune(buf.Line(line))
			col = 0
			continue
		}
		if classOf(runes[col]) != classSpace {
			break
		}
		col++
	}

	cls := classOf(runes[col])
	for col+1 < len(runes) && classOf(runes[col+1]) == cls {
		col++
	}
	return buffer.Point{Line: line, Column: uint32(col)}
}
