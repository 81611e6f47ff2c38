package keymap

import (
	"unicode"

	"github.com/dshills/piecetext/internal/dispatcher"
	"github.com/dshills/piecetext/internal/input/key"
)

// Mode is the editing mode a binding applies to.
type Mode uint8

const (
	ModeText Mode = iota
	ModeCommand
)

// Binding is one (key, modifiers, mode) -> Intent entry. Rune is only
// consulted when Key is key.KeyRune; it is matched case-insensitively
// against the event's rune so "Ctrl+S" binds regardless of Shift.
type Binding struct {
	Key    key.Key
	Rune   rune
	Mods   key.Modifier
	Mode   Mode
	Intent dispatcher.Intent
}

type bindingKey struct {
	mode Mode
	k    key.Key
	r    rune
	mods key.Modifier
}

func lookupKeyFor(mode Mode, k key.Key, r rune, mods key.Modifier) bindingKey {
	if k == key.KeyRune {
		r = unicode.ToLower(r)
	} else {
		r = 0
	}
	return bindingKey{mode: mode, k: k, r: r, mods: mods}
}

// Table is the compiled (key, modifiers, mode) -> Intent lookup table.
type Table struct {
	entries map[bindingKey]dispatcher.Intent
}

// New compiles bindings into a Table. Later entries win over earlier
// ones with the same (key, rune, modifiers, mode), so config overrides
// can be appended after DefaultBindings().
func New(bindings []Binding) *Table {
	t := &Table{entries: make(map[bindingKey]dispatcher.Intent, len(bindings))}
	for _, b := range bindings {
		t.entries[lookupKeyFor(b.Mode, b.Key, b.Rune, b.Mods)] = b.Intent
	}
	return t
}

// Lookup resolves a key event to an Action for the given mode.
//
// A printable rune event with no modifier other than Shift always
// resolves to InsertChar carrying the rune's UTF-8 bytes, regardless of
// what the table holds for it; every other event is looked up in the
// compiled bindings.
func (t *Table) Lookup(mode Mode, ev key.Event) (dispatcher.Action, bool) {
	if ev.IsChar() && ev.Modifiers.Without(key.ModShift) == key.ModNone {
		return dispatcher.Action{Intent: dispatcher.InsertChar, Bytes: []byte(string(ev.Rune))}, true
	}

	intent, ok := t.entries[lookupKeyFor(mode, ev.Key, ev.Rune, ev.Modifiers)]
	if !ok {
		return dispatcher.Action{}, false
	}
	return dispatcher.Action{Intent: intent}, true
}
