package key

import (
	"github.com/gdamore/tcell/v2"
)

// FromTcell converts a terminal key event into an Event.
// Control letters arrive from tcell as control codes and are returned as
// the lowercase rune with ModCtrl, matching Parse("<C-x>").
func FromTcell(ev *tcell.EventKey) Event {
	mods := convertMod(ev.Modifiers())

	if ev.Key() == tcell.KeyRune {
		return NewRuneEvent(ev.Rune(), mods)
	}

	if k := convertKey(ev.Key()); k != KeyNone {
		return NewSpecialEvent(k, mods)
	}

	// Control codes share values with Tab, Enter, Backspace and Escape,
	// which convertKey has already claimed.
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return NewRuneEvent(rune('a'+int(k-tcell.KeyCtrlA)), mods.With(ModCtrl))
	}

	return Event{}
}

// convertKey converts tcell key to our Key type.
func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyDelete:
		return KeyDelete
	case tcell.KeyInsert:
		return KeyInsert
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyPgUp:
		return KeyPageUp
	case tcell.KeyPgDn:
		return KeyPageDown
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return KeyF1 + Key(k-tcell.KeyF1)
	}
	return KeyNone
}

// convertMod converts tcell modifier mask to our Modifier.
func convertMod(m tcell.ModMask) Modifier {
	var result Modifier
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}
