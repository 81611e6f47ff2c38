// Package dispatcher maps an Intent produced by the keymap binding
// table to the Document operation it names.
//
// Dispatch is stateless: it holds no state of its own between calls,
// and every side effect happens on the *document.Document passed in.
// Intents the dispatcher does not implement are logged and produce no
// state change.
package dispatcher
