// Package tty runs an application on a terminal screen.
//
// The buffer is drawn as plain text above a one-line status bar showing
// the mode, the cursor and the selection range. Ctrl+Q quits.
package tty

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/vselect/internal/app"
	"github.com/dshills/vselect/internal/input/key"
	"github.com/dshills/vselect/internal/input/mode"
)

// Terminal draws an application on a tcell screen and feeds it keys.
type Terminal struct {
	mu sync.Mutex

	screen tcell.Screen
	app    *app.Application

	// top is the first buffer line shown.
	top int

	// message is shown after the status line until the next key.
	message string

	// pasting is set between the start and end of a bracketed paste.
	pasting bool
}

// NewTerminal creates a terminal for a on the default tcell screen.
func NewTerminal(a *app.Application) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen, a), nil
}

// NewTerminalWithScreen creates a terminal on screen.
func NewTerminalWithScreen(screen tcell.Screen, a *app.Application) *Terminal {
	return &Terminal{screen: screen, app: a}
}

// Init initializes the screen.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Run draws the screen and dispatches key events until Ctrl+Q is pressed
// or ctx is done.
func (t *Terminal) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	t.Draw()
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if quit := t.handleEvent(ctx, ev); quit {
			return nil
		}
		t.Draw()
	}
}

// handleEvent processes one screen event and reports whether to quit.
func (t *Terminal) handleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()

	case *tcell.EventPaste:
		t.pasting = ev.Start()
		if ev.Start() && t.app.Mode() != mode.ModeInsert {
			t.setMessage("paste ignored outside insert mode")
		}

	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlQ {
			return true
		}
		k := key.FromTcell(ev)
		if k.Key == key.KeyNone {
			return false
		}
		// Pasted text is typed only in insert mode, never run as commands.
		if t.pasting && t.app.Mode() != mode.ModeInsert {
			return false
		}
		t.setMessage("")
		if _, err := t.app.HandleKey(ctx, k); err != nil {
			t.setMessage(err.Error())
		}
	}
	return false
}

func (t *Terminal) setMessage(msg string) {
	t.mu.Lock()
	t.message = msg
	t.mu.Unlock()
}

// Draw renders the buffer and the status line.
func (t *Terminal) Draw() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	width, height := t.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}

	rows := height - 1
	buf := t.app.Buffer()
	pos := t.app.Cursor()
	t.scrollTo(int(pos.Line), rows)

	style := tcell.StyleDefault
	for row := 0; row < rows; row++ {
		line := t.top + row
		if line >= int(buf.LineCount()) {
			t.screen.SetContent(0, row, '~', nil, style.Dim(true))
			continue
		}
		drawString(t.screen, 0, row, width, buf.Line(uint32(line)), style)
	}

	status := t.app.StatusLine()
	if t.message != "" {
		status += "  " + t.message
	}
	bar := style.Reverse(true)
	for x := 0; x < width; x++ {
		t.screen.SetContent(x, height-1, ' ', nil, bar)
	}
	drawString(t.screen, 0, height-1, width, runewidth.Truncate(status, width, "…"), bar)

	if m := t.app.Manager().Current(); m != nil {
		t.screen.SetCursorStyle(cursorStyle(m.CursorStyle()))
	}
	line := buf.Line(pos.Line)
	t.screen.ShowCursor(columnWidth(line, int(pos.Column)), int(pos.Line)-t.top)
	t.screen.Show()
}

// scrollTo adjusts top so that line is visible in rows rows.
func (t *Terminal) scrollTo(line, rows int) {
	if rows <= 0 {
		return
	}
	if line < t.top {
		t.top = line
	}
	if line >= t.top+rows {
		t.top = line - rows + 1
	}
}

// drawString draws s at (x, y), clipped to width cells.
// Tabs are drawn as a single space.
func drawString(s tcell.Screen, x, y, width int, str string, style tcell.Style) {
	for _, r := range str {
		if r == '\t' {
			r = ' '
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > width {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x += w
	}
}

// columnWidth returns the screen width of the first col characters of line.
func columnWidth(line string, col int) int {
	width := 0
	for i, r := range []rune(line) {
		if i >= col {
			break
		}
		if r == '\t' {
			width++
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return width
}

// cursorStyle maps a mode cursor style to the terminal's.
func cursorStyle(c mode.CursorStyle) tcell.CursorStyle {
	switch c {
	case mode.CursorBar:
		return tcell.CursorStyleSteadyBar
	case mode.CursorUnderline:
		return tcell.CursorStyleSteadyUnderline
	default:
		return tcell.CursorStyleSteadyBlock
	}
}
