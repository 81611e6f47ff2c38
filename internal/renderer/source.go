package renderer

// Source is everything a frame loop needs to draw one frame: line
// geometry, the byte content of a line, and cursor/selection/scroll
// state. It is implemented by Adapter and by fakes in tests.
type Source interface {
	// LineCount returns the number of lines, always >= 1.
	LineCount() int

	// Line returns the byte offset and length of line i, excluding its
	// trailing newline.
	Line(i int) (start, length int)

	// Bytes returns the content of [start, start+length).
	Bytes(start, length int) []byte

	// CursorIndex returns the cursor's byte offset.
	CursorIndex() int

	// SelectionRange returns [lo, hi) and whether a selection is active.
	SelectionRange() (lo, hi int, active bool)

	// ScrollLine and ScrollColumnPx return the current scroll position.
	ScrollLine() int
	ScrollColumnPx() int

	// AdvanceScroll sets the scroll position the next frame should use.
	AdvanceScroll(newLine, newPx int)
}
