package config

import (
	"fmt"

	"github.com/dshills/piecetext/internal/dispatcher"
	"github.com/dshills/piecetext/internal/input/key"
	"github.com/dshills/piecetext/internal/input/keymap"
)

// parseOverride turns one [keymap] entry, a key specification string
// mapped to an Intent name, into a Binding for ModeText. The bound key
// event's Rune is carried through so Ctrl+<letter> overrides don't
// collide with each other in the compiled Table.
func parseOverride(spec, intentName string) (keymap.Binding, error) {
	ev, err := key.Parse(spec)
	if err != nil {
		return keymap.Binding{}, fmt.Errorf("config: keymap entry %q: %w", spec, err)
	}
	intent, ok := dispatcher.IntentFromName(intentName)
	if !ok {
		return keymap.Binding{}, fmt.Errorf("config: keymap entry %q: unknown intent %q", spec, intentName)
	}
	return keymap.Binding{
		Key:    ev.Key,
		Rune:   ev.Rune,
		Mods:   ev.Modifiers,
		Mode:   keymap.ModeText,
		Intent: intent,
	}, nil
}
