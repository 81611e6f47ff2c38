// Package key provides the key event types the keymap binding table
// matches against.
//
// This package defines the fundamental types for representing keyboard
// input:
//
//   - Key: identifies a keyboard key (special keys or runes)
//   - Modifier: modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: a single key press with modifiers
//
// # Key Specifications
//
// Key specifications, as used in config keymap overrides, can be
// written in multiple formats:
//
//   - Simple keys: "a", "A", "1", "Enter", "Escape"
//   - With modifiers: "Ctrl+S", "Alt+Left", "Ctrl+Shift+P"
//   - Bracket notation: "<C-s>", "<A-Left>", "<C-S-p>", "<CR>", "<Esc>"
package key
