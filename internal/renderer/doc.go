// Package renderer defines the Source interface a frame loop draws
// from, and Adapter, which implements it over a *document.Document.
// The interface exists so the frame loop (and its tests) never reach
// into document internals directly.
package renderer
