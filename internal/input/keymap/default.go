package keymap

// Mode names used by the default keymap.
const (
	ModeNormal = "normal"
	ModeInsert = "insert"
	ModeVisual = "visual"
)

// motionKeys are shared by normal and visual mode.
var motionKeys = []struct {
	keys string
	cmd  Command
}{
	{"h", CommandCursorLeft},
	{"l", CommandCursorRight},
	{"k", CommandCursorUp},
	{"j", CommandCursorDown},
	{"w", CommandCursorWordForward},
	{"b", CommandCursorWordBackward},
	{"e", CommandCursorWordEnd},
	{"0", CommandCursorLineStart},
	{"$", CommandCursorLineEnd},
	{"^", CommandCursorFirstNonBlank},
	{"G", CommandCursorFileEnd},
}

// Default returns the built-in keymap.
func Default() *Keymap {
	km := New("default")

	// Arrow keys move the cursor in every mode.
	km.MustBind(Global, "<Left>", CommandCursorLeft).
		MustBind(Global, "<Right>", CommandCursorRight).
		MustBind(Global, "<Up>", CommandCursorUp).
		MustBind(Global, "<Down>", CommandCursorDown).
		MustBind(Global, "<Home>", CommandCursorLineStart).
		MustBind(Global, "<End>", CommandCursorLineEnd)

	for _, m := range []string{ModeNormal, ModeVisual} {
		for _, mk := range motionKeys {
			km.MustBind(m, mk.keys, mk.cmd)
		}
		km.MustBind(m, "<C-Home>", CommandCursorFileStart)
	}

	km.MustBind(ModeNormal, "v", CommandEnterVisualMode).
		MustBind(ModeNormal, "i", CommandEnterInsertMode).
		MustBind(ModeNormal, "a", CommandAppend).
		MustBind(ModeNormal, "p", CommandPasteAfter).
		MustBind(ModeNormal, "P", CommandPasteBefore)

	km.MustBind(ModeVisual, "<Esc>", CommandExitMode).
		MustBind(ModeVisual, "v", CommandExitMode)

	km.MustBind(ModeInsert, "<Esc>", CommandExitMode)

	return km
}
