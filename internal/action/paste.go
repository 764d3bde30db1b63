package action

import (
	"context"
	"strings"

	"github.com/dshills/vselect/internal/engine/buffer"
	"github.com/dshills/vselect/internal/register"
)

// Paste actions insert the unnamed register count times.
var (
	PasteAfter  = NewFunc("editor.pasteAfter", pasteAfter)
	PasteBefore = NewFunc("editor.pasteBefore", pasteBefore)
)

func pasteAfter(ctx context.Context, env Env, pos buffer.Point) (buffer.Point, error) {
	at := pos
	if env.Buffer().LineLen(pos.Line) > 0 {
		at = pos.Right()
	}
	return paste(ctx, env, pos, at)
}

func pasteBefore(ctx context.Context, env Env, pos buffer.Point) (buffer.Point, error) {
	return paste(ctx, env, pos, pos)
}

// paste inserts at at and returns the point after the pasted text.
// An empty register leaves pos unchanged.
func paste(ctx context.Context, env Env, pos, at buffer.Point) (buffer.Point, error) {
	if err := ctx.Err(); err != nil {
		return pos, err
	}

	reg := env.Registers().Get(register.Unnamed)
	if reg.Content == "" {
		return pos, nil
	}

	buf := env.Buffer()
	return buf.Insert(buf.ClampPoint(at), strings.Repeat(reg.Content, env.Count()))
}
