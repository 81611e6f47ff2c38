// Package keymap is the (key, modifiers, mode) -> Intent lookup table
// the frame loop consults before calling the dispatcher.
//
// A printable rune event with no modifier other than Shift is never
// looked up in the table: it always resolves directly to a
// dispatcher.InsertChar Action carrying the rune's bytes. Every other
// event is looked up against the bindings for the active Mode.
package keymap
