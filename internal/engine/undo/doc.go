// Package undo implements the coalescing undo/redo log: an ordered
// history of reversible edit records with a current pointer, plus the
// policy for merging consecutive typing and consecutive backspacing
// into a single undo step within a short time window.
//
// Coalescing is a policy, not a correctness property: Undo and Redo are
// correct whether or not a given Record was coalesced with its
// predecessor. The Log never reads the wall clock itself — every method
// that needs "now" takes it as a parameter, so callers (ultimately the
// frame loop) control time and tests stay deterministic.
package undo
