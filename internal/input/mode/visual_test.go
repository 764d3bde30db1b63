package mode

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/vselect/internal/action"
	"github.com/dshills/vselect/internal/engine/buffer"
	"github.com/dshills/vselect/internal/input/keymap"
	"github.com/dshills/vselect/internal/operator"
	"github.com/dshills/vselect/internal/register"
)

// recordingOperator records the ranges it runs on.
type recordingOperator struct {
	name  string
	calls []buffer.PointRange
	err   error
}

func (o *recordingOperator) Name() string { return o.name }

func (o *recordingOperator) Run(_ context.Context, start, end buffer.Point) error {
	o.calls = append(o.calls, buffer.NewPointRange(start, end))
	return o.err
}

func (f *fixture) selection(t *testing.T) (buffer.Point, buffer.Point) {
	t.Helper()
	sel, ok := f.motion.Selection()
	if !ok {
		t.Fatal("no selection displayed")
	}
	return sel.Anchor, sel.Head
}

func TestVisualActivationAnchorsAtCursor(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.moveTo(0, 3)

	f.press(t, "v")
	if !f.manager.IsMode(ModeVisual) {
		t.Fatalf("mode = %s, want visual", f.manager.CurrentName())
	}
	if f.visual.Anchor() != pt(0, 3) || f.visual.Focus() != pt(0, 3) {
		t.Errorf("anchor/focus = %v/%v", f.visual.Anchor(), f.visual.Focus())
	}
	start, end := f.selection(t)
	if start != pt(0, 3) || end != pt(0, 3) {
		t.Errorf("selection = %v-%v, want single point", start, end)
	}
}

func TestVisualAnchorInvariance(t *testing.T) {
	f := newFixture(t, "abcdef ghi\nxyz")
	f.moveTo(0, 3)
	f.press(t, "v")

	for _, k := range []string{"l", "h", "h", "h", "h", "w", "b", "$", "0", "j", "k", "e", "2", "l"} {
		f.press(t, k)
		if got := f.visual.Anchor(); got != pt(0, 3) {
			t.Fatalf("after %q anchor = %v, want (0:3)", k, got)
		}
	}

	f.press(t, "<Esc> l v")
	if got := f.visual.Anchor(); got != f.motion.Position() {
		t.Errorf("reactivation anchor = %v, want cursor %v", got, f.motion.Position())
	}
}

func TestVisualInclusiveBoundarySymmetry(t *testing.T) {
	f := newFixture(t, "abcdef\nghijkl")
	f.visual.activate(pt(0, 3))

	tests := []struct {
		focus buffer.Point
		start buffer.Point
		end   buffer.Point
	}{
		{pt(0, 5), pt(0, 3), pt(0, 5)},
		{pt(0, 1), pt(0, 4), pt(0, 1)},
		{pt(0, 3), pt(0, 3), pt(0, 3)},
		{pt(0, 4), pt(0, 3), pt(0, 4)},
		{pt(0, 2), pt(0, 4), pt(0, 2)},
		{pt(1, 1), pt(0, 3), pt(1, 1)},
		{pt(0, 0), pt(0, 4), pt(0, 0)},
	}

	for _, tt := range tests {
		r := f.visual.extend(tt.focus)
		if r.Start != tt.start || r.End != tt.end {
			t.Errorf("extend(%v) = %v, want [%v, %v]", tt.focus, r, tt.start, tt.end)
		}
		start, end := f.selection(t)
		if start != tt.start || end != tt.end {
			t.Errorf("extend(%v) displayed %v-%v, want %v-%v", tt.focus, start, end, tt.start, tt.end)
		}
		if f.visual.Anchor() != pt(0, 3) {
			t.Errorf("extend(%v) moved the anchor to %v", tt.focus, f.visual.Anchor())
		}
	}
}

func TestVisualBackwardAcrossLines(t *testing.T) {
	f := newFixture(t, "abc\ndef")
	f.visual.activate(pt(1, 2))

	r := f.visual.extend(pt(0, 1))
	if r.Start != pt(1, 3) || r.End != pt(0, 1) {
		t.Errorf("extend = %v, want [(1:3), (0:1))", r)
	}
}

func TestVisualOperatorRange(t *testing.T) {
	f := newFixture(t, "abcdef")

	tests := []struct {
		anchor, focus buffer.Point
		start, end    buffer.Point
	}{
		{pt(0, 3), pt(0, 5), pt(0, 3), pt(0, 6)},
		{pt(0, 3), pt(0, 1), pt(0, 4), pt(0, 1)},
		{pt(0, 3), pt(0, 3), pt(0, 3), pt(0, 4)},
	}

	for _, tt := range tests {
		f.visual.activate(tt.anchor)
		f.visual.extend(tt.focus)
		start, end := f.visual.operatorRange()
		if start != tt.start || end != tt.end {
			t.Errorf("anchor %v focus %v: run(%v, %v), want run(%v, %v)",
				tt.anchor, tt.focus, start, end, tt.start, tt.end)
		}
	}
}

func TestVisualHistoryResetOnMotion(t *testing.T) {
	rec := &recordingOperator{name: "zd"}
	f := newFixture(t, "abcdef", WithOperator("zd", rec))

	f.press(t, "v z q")
	if h := f.visual.History(); len(h) != 2 || h[0] != "z" || h[1] != "q" {
		t.Fatalf("history = %v, want [z q]", h)
	}

	f.press(t, "z l")
	if h := f.visual.History(); len(h) != 0 {
		t.Fatalf("history after motion = %v, want empty", h)
	}

	// The z typed before the motion must not combine with d.
	f.press(t, "d")
	if len(rec.calls) != 0 {
		t.Errorf("zd fired with a key from before the motion")
	}
	if got := f.buf.Text(); got != "cdef" {
		t.Errorf("buffer = %q, want d to delete the selection", got)
	}
}

func TestVisualLongestMatchPrecedence(t *testing.T) {
	rec := &recordingOperator{name: "zd"}
	f := newFixture(t, "abcdef", WithOperator("zd", rec))

	res := f.press(t, "v l z d")
	if res.Operator != rec {
		t.Fatalf("fired %v, want zd", res.Operator)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("zd ran %d times", len(rec.calls))
	}
	if got := rec.calls[0]; got.Start != pt(0, 0) || got.End != pt(0, 2) {
		t.Errorf("zd ran on %v", got)
	}
	if got := f.buf.Text(); got != "abcdef" {
		t.Errorf("d must not fire, buffer = %q", got)
	}
	if !f.manager.IsMode(ModeNormal) {
		t.Errorf("mode = %s, want normal after operator", f.manager.CurrentName())
	}
}

func TestVisualMultiKeyBindingWaits(t *testing.T) {
	rec := &recordingOperator{name: "lineDelete"}
	f := newFixture(t, "abcdef", WithOperator("dd", rec))

	if res := f.press(t, "v l d"); res.Operator != nil {
		t.Fatalf("d fired %v while dd can still complete", res.Operator)
	}
	if !f.manager.IsMode(ModeVisual) {
		t.Fatalf("mode = %s, want visual while d waits", f.manager.CurrentName())
	}

	res := f.press(t, "d")
	if res.Operator != rec {
		t.Fatalf("fired %v, want dd", res.Operator)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("dd ran %d times, want 1", len(rec.calls))
	}
	if got := rec.calls[0]; got.Start != pt(0, 0) || got.End != pt(0, 2) {
		t.Errorf("dd ran on %v", got)
	}
	if got := f.buf.Text(); got != "abcdef" {
		t.Errorf("buffer = %q, delete must not fire", got)
	}
	if !f.manager.IsMode(ModeNormal) {
		t.Errorf("mode = %s, want normal", f.manager.CurrentName())
	}
}

func TestVisualWaitingOperatorFlushedByUnmatchedKey(t *testing.T) {
	rec := &recordingOperator{name: "lineDelete"}
	f := newFixture(t, "abcdef", WithOperator("dd", rec))

	res := f.press(t, "v l d q")
	if op, _ := f.visual.Operator("d"); res.Operator != op {
		t.Fatalf("fired %v, want the waiting delete", res.Operator)
	}
	if got := f.buf.Text(); got != "cdef" {
		t.Errorf("buffer = %q, want cdef", got)
	}
	if len(rec.calls) != 0 {
		t.Errorf("dd ran %d times", len(rec.calls))
	}
}

func TestVisualWaitingOperatorDroppedByMotion(t *testing.T) {
	rec := &recordingOperator{name: "lineDelete"}
	f := newFixture(t, "abcdef", WithOperator("dd", rec))

	f.press(t, "v d l")
	if got := f.buf.Text(); got != "abcdef" {
		t.Fatalf("buffer = %q, a motion must drop the waiting delete", got)
	}
	if !f.manager.IsMode(ModeVisual) {
		t.Fatalf("mode = %s, want visual", f.manager.CurrentName())
	}

	f.press(t, "d d")
	if len(rec.calls) != 1 {
		t.Fatalf("dd ran %d times, want 1", len(rec.calls))
	}
	if got := rec.calls[0]; got.Start != pt(0, 0) || got.End != pt(0, 2) {
		t.Errorf("dd ran on %v", got)
	}
}

func TestVisualWaitingOperatorDroppedOnExit(t *testing.T) {
	rec := &recordingOperator{name: "lineDelete"}
	f := newFixture(t, "abcdef", WithOperator("dd", rec))

	f.press(t, "v l d <Esc>")
	if !f.manager.IsMode(ModeNormal) {
		t.Fatalf("mode = %s, want normal", f.manager.CurrentName())
	}
	f.press(t, "v q")
	if got := f.buf.Text(); got != "abcdef" {
		t.Errorf("buffer = %q, the delete from before Esc must not run", got)
	}
}

func TestVisualScenarioForwardYank(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.moveTo(0, 3)

	f.press(t, "v l l")
	start, end := f.selection(t)
	if start != pt(0, 3) || end != pt(0, 5) {
		t.Fatalf("selection = %v-%v, want (0:3)-(0:5)", start, end)
	}

	res := f.press(t, "y")
	if res.Operator == nil || res.Operator.Name() != "yank" {
		t.Fatalf("operator = %v, want yank", res.Operator)
	}
	if got := f.regs.Get(register.Unnamed).Content; got != "def" {
		t.Errorf("yanked %q, want def", got)
	}
	if got := f.regs.Get(register.Yank).Content; got != "def" {
		t.Errorf("register 0 = %q", got)
	}
	if !f.manager.IsMode(ModeNormal) {
		t.Errorf("mode = %s", f.manager.CurrentName())
	}
	if got := f.motion.Position(); got != pt(0, 3) {
		t.Errorf("cursor = %v, want selection start", got)
	}
	if _, ok := f.motion.Selection(); ok {
		t.Error("selection should be cleared in normal mode")
	}
}

func TestVisualScenarioBackwardYank(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.moveTo(0, 3)

	f.press(t, "v h h")
	start, end := f.selection(t)
	if start != pt(0, 4) || end != pt(0, 1) {
		t.Fatalf("selection = %v-%v, want (0:4)-(0:1)", start, end)
	}

	f.press(t, "y")
	if got := f.regs.Get(register.Unnamed).Content; got != "bcd" {
		t.Errorf("yanked %q, want bcd (anchor character included)", got)
	}
	if got := f.motion.Position(); got != pt(0, 1) {
		t.Errorf("cursor = %v", got)
	}
}

func TestVisualScenarioUnmatchedKey(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.press(t, "v l")
	beforeStart, beforeEnd := f.selection(t)

	res := f.press(t, "z")
	if !res.Consumed || res.Operator != nil {
		t.Errorf("result = %+v, want consumed without operator", res)
	}
	if h := f.visual.History(); len(h) != 1 || h[0] != "z" {
		t.Errorf("history = %v, want [z]", h)
	}
	start, end := f.selection(t)
	if start != beforeStart || end != beforeEnd {
		t.Errorf("selection changed to %v-%v", start, end)
	}
	if !f.manager.IsMode(ModeVisual) {
		t.Errorf("mode = %s, want visual", f.manager.CurrentName())
	}
}

func TestVisualScenarioDelete(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.moveTo(0, 1)

	f.press(t, "v l l d")
	if got := f.buf.Text(); got != "aef" {
		t.Errorf("buffer = %q, want aef", got)
	}
	if got := f.regs.Get(register.Unnamed).Content; got != "bcd" {
		t.Errorf("unnamed = %q", got)
	}
	if got := f.regs.Get('1').Content; got != "bcd" {
		t.Errorf("register 1 = %q", got)
	}
	if !f.manager.IsMode(ModeNormal) {
		t.Errorf("mode = %s, want normal", f.manager.CurrentName())
	}
	if got := f.motion.Position(); got != pt(0, 1) {
		t.Errorf("cursor = %v, want (0:1)", got)
	}
}

func TestVisualXDeletes(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.press(t, "v x")
	if got := f.buf.Text(); got != "bcdef" {
		t.Errorf("buffer = %q, want bcdef", got)
	}
}

func TestVisualChangeEntersInsert(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.moveTo(0, 1)

	f.press(t, "v l c")
	if got := f.buf.Text(); got != "adef" {
		t.Errorf("buffer = %q, want adef", got)
	}
	if !f.manager.IsMode(ModeInsert) {
		t.Fatalf("mode = %s, want insert", f.manager.CurrentName())
	}
	if got := f.motion.Position(); got != pt(0, 1) {
		t.Errorf("cursor = %v, want (0:1)", got)
	}

	f.press(t, "X <Esc>")
	if got := f.buf.Text(); got != "aXdef" {
		t.Errorf("buffer = %q, want aXdef", got)
	}
}

func TestVisualDeactivationOrdering(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.moveTo(0, 3)

	f.press(t, "v h h z <Esc>")
	if !f.manager.IsMode(ModeNormal) {
		t.Fatalf("mode = %s", f.manager.CurrentName())
	}
	if got := f.motion.Position(); got != pt(0, 1) {
		t.Errorf("cursor = %v, want focus (0:1)", got)
	}
	if len(f.visual.History()) != 0 {
		t.Errorf("history = %v, want cleared", f.visual.History())
	}
	if f.visual.Anchor() != pt(0, 3) || f.visual.Focus() != pt(0, 1) {
		t.Error("deactivation must not modify anchor or focus")
	}
}

func TestVisualDeactivationDirect(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.visual.activate(pt(0, 4))
	f.visual.extend(pt(0, 2))
	f.visual.PushKey("z")
	f.visual.AccumulateCount(mustParse(t, "4"))

	f.visual.HandleDeactivation()
	if got := f.motion.Position(); got != pt(0, 2) {
		t.Errorf("cursor = %v, want (0:2)", got)
	}
	if len(f.visual.History()) != 0 || f.visual.Count() != 1 {
		t.Error("base teardown did not run")
	}
}

func TestVisualToggle(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.press(t, "v l v")
	if !f.manager.IsMode(ModeNormal) {
		t.Errorf("mode = %s", f.manager.CurrentName())
	}
	if got := f.motion.Position(); got != pt(0, 1) {
		t.Errorf("cursor = %v", got)
	}
}

func TestVisualCount(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.press(t, "v 3 l")
	if got := f.visual.Focus(); got != pt(0, 3) {
		t.Errorf("focus = %v, want (0:3)", got)
	}
	if f.visual.Count() != 1 {
		t.Error("count should reset after the motion")
	}
}

func TestVisualShouldBeActivated(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.visual.activate(pt(0, 2))
	f.visual.PushKey("z")

	tests := []struct {
		key     string
		current string
		want    bool
	}{
		{"v", ModeNormal, true},
		{"v", ModeVisual, false},
		{"v", ModeInsert, false},
		{"l", ModeNormal, false},
		{"<Esc>", ModeNormal, false},
	}
	for _, tt := range tests {
		if got := f.visual.ShouldBeActivated(mustParse(t, tt.key), tt.current); got != tt.want {
			t.Errorf("ShouldBeActivated(%s, %s) = %v, want %v", tt.key, tt.current, got, tt.want)
		}
	}

	if f.visual.Anchor() != pt(0, 2) || len(f.visual.History()) != 1 {
		t.Error("ShouldBeActivated changed mode state")
	}

	f.keymap.MustBind(ModeNormal, "<C-v>", keymap.CommandEnterVisualMode)
	if !f.visual.ShouldBeActivated(mustParse(t, "Ctrl+V"), ModeNormal) {
		t.Error("custom binding not honored")
	}
}

func TestVisualHandleActionErrorPassThrough(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.moveTo(0, 2)
	f.press(t, "v l")

	boom := errors.New("boom")
	failing := action.NewFunc("fail", func(_ context.Context, _ action.Env, pos buffer.Point) (buffer.Point, error) {
		return pt(0, 5), boom
	})

	err := f.visual.HandleAction(context.Background(), failing)
	if err != boom {
		t.Errorf("HandleAction error = %v, want the action's error unchanged", err)
	}
	if f.visual.Focus() != pt(0, 3) {
		t.Errorf("focus moved to %v on error", f.visual.Focus())
	}

	f.manager.Actions().Register("test.fail", failing)
	f.keymap.MustBind(ModeVisual, "q", "test.fail")
	_, err = f.manager.HandleKey(context.Background(), mustParse(t, "q"))
	if !errors.Is(err, boom) {
		t.Errorf("manager error = %v", err)
	}
	if !f.manager.IsMode(ModeVisual) {
		t.Error("failed action must not leave visual mode")
	}
}

func TestVisualOperatorErrorPassThrough(t *testing.T) {
	f := newFixtureFromBuffer(t, buffer.NewBufferFromString("abc", buffer.WithReadOnly(true)))
	f.press(t, "v l")

	_, err := f.manager.HandleKey(context.Background(), mustParse(t, "d"))
	if !errors.Is(err, buffer.ErrReadOnly) {
		t.Errorf("error = %v, want ErrReadOnly", err)
	}
	if !f.manager.IsMode(ModeVisual) {
		t.Errorf("mode = %s, want visual after a failed operator", f.manager.CurrentName())
	}

	rec := &recordingOperator{name: "fail", err: errors.New("op failed")}
	g := newFixture(t, "abc", WithOperator("d", rec))
	g.press(t, "v")
	if _, err := g.visual.HandleKey(context.Background(), mustParse(t, "d")); err != rec.err {
		t.Errorf("HandleKey error = %v, want operator error unchanged", err)
	}
}

func TestVisualOperatorTable(t *testing.T) {
	f := newFixture(t, "abc")

	d, _ := f.visual.Operator("d")
	x, _ := f.visual.Operator("x")
	if d != x {
		t.Error("d and x should share the delete operator")
	}
	if _, ok := d.(*operator.Delete); !ok {
		t.Errorf("d = %T", d)
	}
	if c, _ := f.visual.Operator("c"); operator.NextMode(c) != ModeInsert {
		t.Errorf("c = %T", c)
	}
	if _, ok := f.visual.Operator("y"); !ok {
		t.Error("y not bound")
	}

	keys := f.visual.OperatorKeys()
	want := []string{"c", "d", "x", "y"}
	if len(keys) != len(want) {
		t.Fatalf("OperatorKeys() = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("OperatorKeys() = %v, want %v", keys, want)
		}
	}

	rec := &recordingOperator{name: "rec"}
	g := newFixture(t, "abc", WithOperator("gq", rec), WithOperator("d", rec))
	if op, _ := g.visual.Operator("gq"); op != rec {
		t.Error("extra operator not bound")
	}
	if op, _ := g.visual.Operator("d"); op != rec {
		t.Error("default operator not replaced")
	}
	if op, _ := g.visual.Operator("x"); op == rec {
		t.Error("x should keep the default delete")
	}
}

func TestVisualYankUnnamedPlus(t *testing.T) {
	f := newFixture(t, "abc", WithUnnamedPlus(true))
	f.press(t, "v l y")
	if got := f.regs.Get(register.Clipboard).Content; got != "ab" {
		t.Errorf("clipboard register = %q, want ab", got)
	}
}

type failingClipboard struct{ err error }

func (c failingClipboard) Get() (string, error) { return "", c.err }
func (c failingClipboard) Set(string) error { return c.err }

func TestVisualYankClipboardFailure(t *testing.T) {
	f := newFixture(t, "abc", WithUnnamedPlus(true))
	errClipboard := errors.New("no clipboard")
	f.regs.SetClipboard(failingClipboard{err: errClipboard})

	f.press(t, "v l")
	ev := mustParse(t, "y")
	if _, err := f.manager.HandleKey(context.Background(), ev); !errors.Is(err, errClipboard) {
		t.Fatalf("HandleKey(y) error = %v, want %v", err, errClipboard)
	}
	if !f.manager.IsMode(ModeVisual) {
		t.Errorf("mode = %s, want visual after a failed yank", f.manager.CurrentName())
	}
	if got := f.regs.Get(register.Unnamed).Content; got != "" {
		t.Errorf("unnamed = %q, want empty after a failed yank", got)
	}
	if got := f.regs.Get(register.Yank).Content; got != "" {
		t.Errorf("register 0 = %q, want empty after a failed yank", got)
	}
}

func TestVisualModesIndependent(t *testing.T) {
	a := newFixture(t, "abcdef")
	b := newFixture(t, "abcdef")

	a.moveTo(0, 1)
	a.press(t, "v l")
	b.moveTo(0, 4)
	b.press(t, "v h")

	if a.visual.Anchor() != pt(0, 1) || b.visual.Anchor() != pt(0, 4) {
		t.Errorf("anchors = %v, %v", a.visual.Anchor(), b.visual.Anchor())
	}
	if a.visual.Focus() != pt(0, 2) || b.visual.Focus() != pt(0, 3) {
		t.Errorf("focuses = %v, %v", a.visual.Focus(), b.visual.Focus())
	}
}
