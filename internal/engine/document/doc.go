// Package document provides Document, the coherent facade binding the
// piece table, line cache, and undo log together with cursor,
// selection, and scroll state. It is the single owned value the
// dispatcher mutates; no background goroutine touches it.
//
// Basic usage:
//
//	d := document.New()
//	d.Insert([]byte("hello"), time.Now())
//	d.CursorMove(document.Left)
//	d.Undo()
//
// Document never calls wall-clock functions itself: every operation
// that feeds the undo log's coalescing policy takes a time.Time from
// the caller, so tests stay deterministic (see the engine's design
// notes on this).
package document
