package tty

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vselect/internal/app"
	"github.com/dshills/vselect/internal/config"
	"github.com/dshills/vselect/internal/input/mode"
)

func newTestTerminal(t *testing.T, text string, width, height int) (*Terminal, tcell.SimulationScreen, *app.Application) {
	t.Helper()

	cfg := config.Default()
	cfg.Clipboard.Provider = "internal"
	a, err := app.New(app.Options{Config: cfg, Text: text})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(sim, a)
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(term.Shutdown)
	sim.SetSize(width, height)

	return term, sim, a
}

// row returns the text drawn on row y, without trailing blanks.
func row(sim tcell.SimulationScreen, y int) string {
	cells, width, _ := sim.GetContents()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		c := cells[y*width+x]
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(sb.String(), " ")
}

func press(t *testing.T, term *Terminal, keys ...rune) {
	t.Helper()
	for _, r := range keys {
		if quit := term.handleEvent(context.Background(), tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)); quit {
			t.Fatalf("key %q quit the terminal", r)
		}
	}
	term.Draw()
}

func TestDraw(t *testing.T) {
	term, sim, _ := newTestTerminal(t, "abcdef\nxyz", 30, 4)
	term.Draw()

	if got := row(sim, 0); got != "abcdef" {
		t.Errorf("row 0 = %q", got)
	}
	if got := row(sim, 1); got != "xyz" {
		t.Errorf("row 1 = %q", got)
	}
	if got := row(sim, 2); got != "~" {
		t.Errorf("row 2 = %q, want filler", got)
	}
	if got := row(sim, 3); got != "NORMAL 1:1" {
		t.Errorf("status = %q", got)
	}
}

func TestVisualSelectionStatus(t *testing.T) {
	term, sim, a := newTestTerminal(t, "abcdef", 30, 3)
	press(t, term, 'l', 'v', 'l', 'l')

	if a.Mode() != mode.ModeVisual {
		t.Fatalf("mode = %s, want visual", a.Mode())
	}
	if got := row(sim, 2); got != "VISUAL 1:4 sel 1:2-1:4" {
		t.Errorf("status = %q", got)
	}
	x, y, visible := sim.GetCursor()
	if !visible || x != 3 || y != 0 {
		t.Errorf("cursor = (%d, %d, %v), want (3, 0, true)", x, y, visible)
	}

	press(t, term, 'd')
	if got := row(sim, 0); got != "aef" {
		t.Errorf("row 0 after delete = %q", got)
	}
}

func TestWideRunes(t *testing.T) {
	term, sim, _ := newTestTerminal(t, "日本語x", 30, 3)
	press(t, term, 'l', 'l', 'l')

	x, _, _ := sim.GetCursor()
	if x != 6 {
		t.Errorf("cursor x = %d, want 6 after three wide runes", x)
	}
}

func TestScroll(t *testing.T) {
	term, sim, _ := newTestTerminal(t, "a\nb\nc\nd\ne", 10, 3)
	press(t, term, 'G')

	if got := row(sim, 0); got != "d" {
		t.Errorf("row 0 = %q, want d", got)
	}
	if got := row(sim, 1); got != "e" {
		t.Errorf("row 1 = %q, want e", got)
	}

	press(t, term, 'k', 'k', 'k')
	if got := row(sim, 0); got != "b" {
		t.Errorf("row 0 = %q, want b", got)
	}
}

func TestStatusTruncated(t *testing.T) {
	term, sim, _ := newTestTerminal(t, "abc", 6, 2)
	term.Draw()

	if got := row(sim, 1); got != "NORMA…" {
		t.Errorf("status = %q", got)
	}
}

func TestRunQuits(t *testing.T) {
	term, sim, a := newTestTerminal(t, "abcdef", 20, 3)

	done := make(chan error, 1)
	go func() { done <- term.Run(context.Background()) }()

	sim.InjectKey(tcell.KeyRune, 'v', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'l', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'y', tcell.ModNone)
	sim.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after Ctrl+Q")
	}

	if got := a.Registers().Get('"').Content; got != "ab" {
		t.Errorf("unnamed register = %q, want %q", got, "ab")
	}
}

func TestRunCancelled(t *testing.T) {
	term, _, _ := newTestTerminal(t, "abc", 20, 3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- term.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestCursorStyle(t *testing.T) {
	tests := []struct {
		in   mode.CursorStyle
		want tcell.CursorStyle
	}{
		{mode.CursorBlock, tcell.CursorStyleSteadyBlock},
		{mode.CursorBar, tcell.CursorStyleSteadyBar},
		{mode.CursorUnderline, tcell.CursorStyleSteadyUnderline},
	}
	for _, tt := range tests {
		if got := cursorStyle(tt.in); got != tt.want {
			t.Errorf("cursorStyle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPasteOutsideInsertMode(t *testing.T) {
	term, sim, a := newTestTerminal(t, "abcdef", 60, 3)

	term.handleEvent(context.Background(), tcell.NewEventPaste(true))
	press(t, term, 'v', 'l', 'd')
	term.handleEvent(context.Background(), tcell.NewEventPaste(false))
	term.Draw()

	if got := a.Buffer().Text(); got != "abcdef" {
		t.Errorf("buffer = %q, pasted keys must not run as commands", got)
	}
	if a.Mode() != mode.ModeNormal {
		t.Errorf("mode = %s, want normal", a.Mode())
	}
	if got := row(sim, 2); !strings.Contains(got, "paste ignored") {
		t.Errorf("status = %q, want paste message", got)
	}

	press(t, term, 'v')
	if a.Mode() != mode.ModeVisual {
		t.Errorf("mode = %s, keys after the paste should run", a.Mode())
	}
}

func TestPasteInInsertMode(t *testing.T) {
	term, _, a := newTestTerminal(t, "abc", 30, 3)
	press(t, term, 'i')

	term.handleEvent(context.Background(), tcell.NewEventPaste(true))
	press(t, term, 'x', 'y')
	term.handleEvent(context.Background(), tcell.NewEventPaste(false))

	if got := a.Buffer().Text(); got != "xyabc" {
		t.Errorf("buffer = %q, want xyabc", got)
	}
	if a.Mode() != mode.ModeInsert {
		t.Errorf("mode = %s, want insert", a.Mode())
	}
}
