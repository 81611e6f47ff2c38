package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/piecetext/internal/input/key"
)

// translateKey converts a tcell key event into a key.Event. tcell
// reports Ctrl+<letter> as its own Key constant with Rune() == 0
// rather than as KeyRune with a Ctrl modifier, so those are mapped
// back onto key.KeyRune + key.ModCtrl explicitly to match the
// keymap.Table's lookup convention.
func translateKey(ev *tcell.EventKey) key.Event {
	mods := translateMods(ev.Modifiers())

	switch ev.Key() {
	case tcell.KeyRune:
		return key.NewRuneEvent(ev.Rune(), mods)
	case tcell.KeyEscape:
		return key.NewSpecialEvent(key.KeyEscape, mods)
	case tcell.KeyEnter:
		return key.NewSpecialEvent(key.KeyEnter, mods)
	case tcell.KeyTab:
		return key.NewSpecialEvent(key.KeyTab, mods)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewSpecialEvent(key.KeyBackspace, mods)
	case tcell.KeyDelete:
		return key.NewSpecialEvent(key.KeyDelete, mods)
	case tcell.KeyInsert:
		return key.NewSpecialEvent(key.KeyInsert, mods)
	case tcell.KeyHome:
		return key.NewSpecialEvent(key.KeyHome, mods)
	case tcell.KeyEnd:
		return key.NewSpecialEvent(key.KeyEnd, mods)
	case tcell.KeyPgUp:
		return key.NewSpecialEvent(key.KeyPageUp, mods)
	case tcell.KeyPgDn:
		return key.NewSpecialEvent(key.KeyPageDown, mods)
	case tcell.KeyUp:
		return key.NewSpecialEvent(key.KeyUp, mods)
	case tcell.KeyDown:
		return key.NewSpecialEvent(key.KeyDown, mods)
	case tcell.KeyLeft:
		return key.NewSpecialEvent(key.KeyLeft, mods)
	case tcell.KeyRight:
		return key.NewSpecialEvent(key.KeyRight, mods)

	case tcell.KeyCtrlA:
		return key.NewRuneEvent('a', mods.With(key.ModCtrl))
	case tcell.KeyCtrlC:
		return key.NewRuneEvent('c', mods.With(key.ModCtrl))
	case tcell.KeyCtrlQ:
		return key.NewRuneEvent('q', mods.With(key.ModCtrl))
	case tcell.KeyCtrlV:
		return key.NewRuneEvent('v', mods.With(key.ModCtrl))
	case tcell.KeyCtrlX:
		return key.NewRuneEvent('x', mods.With(key.ModCtrl))
	case tcell.KeyCtrlY:
		return key.NewRuneEvent('y', mods.With(key.ModCtrl))
	case tcell.KeyCtrlZ:
		return key.NewRuneEvent('z', mods.With(key.ModCtrl))

	default:
		return key.NewSpecialEvent(key.KeyNone, mods)
	}
}

func translateMods(m tcell.ModMask) key.Modifier {
	mods := key.ModNone
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}
