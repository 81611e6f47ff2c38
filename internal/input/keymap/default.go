package keymap

import (
	"github.com/dshills/piecetext/internal/dispatcher"
	"github.com/dshills/piecetext/internal/input/key"
)

// DefaultBindings is the default TEXT-mode key table from the
// external-interface spec.
func DefaultBindings() []Binding {
	return []Binding{
		{Key: key.KeyLeft, Mode: ModeText, Intent: dispatcher.CursorLeft},
		{Key: key.KeyRight, Mode: ModeText, Intent: dispatcher.CursorRight},
		{Key: key.KeyUp, Mode: ModeText, Intent: dispatcher.CursorUp},
		{Key: key.KeyDown, Mode: ModeText, Intent: dispatcher.CursorDown},

		{Key: key.KeyLeft, Mods: key.ModCtrl, Mode: ModeText, Intent: dispatcher.CursorWordLeft},
		{Key: key.KeyRight, Mods: key.ModCtrl, Mode: ModeText, Intent: dispatcher.CursorWordRight},

		{Key: key.KeyLeft, Mods: key.ModShift, Mode: ModeText, Intent: dispatcher.SelectLeft},
		{Key: key.KeyRight, Mods: key.ModShift, Mode: ModeText, Intent: dispatcher.SelectRight},
		{Key: key.KeyUp, Mods: key.ModShift, Mode: ModeText, Intent: dispatcher.SelectUp},
		{Key: key.KeyDown, Mods: key.ModShift, Mode: ModeText, Intent: dispatcher.SelectDown},

		{Key: key.KeyLeft, Mods: key.ModCtrl | key.ModShift, Mode: ModeText, Intent: dispatcher.SelectWordLeft},
		{Key: key.KeyRight, Mods: key.ModCtrl | key.ModShift, Mode: ModeText, Intent: dispatcher.SelectWordRight},

		{Key: key.KeyRune, Rune: 'a', Mods: key.ModCtrl, Mode: ModeText, Intent: dispatcher.SelectAll},

		{Key: key.KeyBackspace, Mode: ModeText, Intent: dispatcher.DeleteBackward},
		{Key: key.KeyDelete, Mode: ModeText, Intent: dispatcher.DeleteForward},
		{Key: key.KeyEnter, Mode: ModeText, Intent: dispatcher.InsertNewline},
		{Key: key.KeyTab, Mode: ModeText, Intent: dispatcher.InsertTab},

		{Key: key.KeyRune, Rune: 'c', Mods: key.ModCtrl, Mode: ModeText, Intent: dispatcher.Copy},
		{Key: key.KeyRune, Rune: 'x', Mods: key.ModCtrl, Mode: ModeText, Intent: dispatcher.Cut},
		{Key: key.KeyRune, Rune: 'v', Mods: key.ModCtrl, Mode: ModeText, Intent: dispatcher.Paste},

		{Key: key.KeyRune, Rune: 'z', Mods: key.ModCtrl, Mode: ModeText, Intent: dispatcher.Undo},
		{Key: key.KeyRune, Rune: 'y', Mods: key.ModCtrl, Mode: ModeText, Intent: dispatcher.Redo},
		{Key: key.KeyRune, Rune: 'z', Mods: key.ModCtrl | key.ModShift, Mode: ModeText, Intent: dispatcher.Redo},

		{Key: key.KeyEscape, Mode: ModeText, Intent: dispatcher.Cancel},
		{Key: key.KeyRune, Rune: 'q', Mods: key.ModCtrl, Mode: ModeText, Intent: dispatcher.Quit},
	}
}

// Default builds the Table for DefaultBindings.
func Default() *Table {
	return New(DefaultBindings())
}
