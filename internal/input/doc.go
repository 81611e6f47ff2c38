// Package input groups the keyboard event types (key) and the
// (key, modifiers, mode) -> Intent lookup table (keymap) that the
// frame loop consults to translate a key press into an Intent for the
// dispatcher.
//
// # Usage
//
//	table := keymap.Default()
//	intent, ok := table.Lookup(keymap.ModeText, ev)
//	if ok {
//	    dispatcher.Dispatch(doc, intent, now, clip)
//	}
package input
