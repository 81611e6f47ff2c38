// Package clipboard defines the system clipboard collaborator the
// editor core talks to, plus two concrete implementations: an
// in-memory clipboard used by tests and as the zero-value default, and
// an OS-backed clipboard used only by the CLI entry point.
//
// The core never assumes exclusive access to the clipboard: another
// process may read or overwrite it between calls.
package clipboard
