package document

import (
	"bytes"
	"time"

	"github.com/dshills/piecetext/internal/engine/linecache"
	"github.com/dshills/piecetext/internal/engine/piece"
	"github.com/dshills/piecetext/internal/engine/undo"
)

// Document is the coherent facade over the piece table, line cache,
// and undo log, plus cursor, selection, and scroll state.
//
// Invariants: cursor <= Len(); if a selection is active its anchor is
// <= Len() and differs from cursor; the selection range is
// [min(anchor,cursor), max(anchor,cursor)); scrollLine <
// lineCache.LineCount().
type Document struct {
	pt *piece.Table
	lc *linecache.Cache
	ul *undo.Log

	cursor          int
	selectionAnchor int
	selectionActive bool

	scrollLine     int
	scrollColumnPx int

	// cursor projection cache: memoised (line,col) for cursor, keyed on
	// the last cursor index and invalidated by any table mutation or
	// cursor movement.
	projLine  int
	projCol   int
	projValid bool

	undoCap        int
	coalesceWindow time.Duration
	tabSpaces      int
}

// New creates an empty Document.
func New(opts ...Option) *Document {
	return newWithBytes(nil, opts)
}

// Load creates a Document from raw bytes, normalizing CRLF and lone CR
// line endings to LF before construction.
func Load(data []byte, opts ...Option) *Document {
	return newWithBytes(normalizeLineEndings(data), opts)
}

func newWithBytes(data []byte, opts []Option) *Document {
	d := &Document{
		undoCap:        DefaultUndoCap,
		coalesceWindow: DefaultCoalesceWindow,
		tabSpaces:      DefaultTabSpaces,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.pt = piece.New(data)
	d.lc = linecache.New(d.pt)
	d.ul = undo.New(d.undoCap)
	d.ul.Window = d.coalesceWindow
	return d
}

// normalizeLineEndings drops every '\r' byte, converging CRLF and CR
// line endings to LF.
func normalizeLineEndings(data []byte) []byte {
	if !bytes.ContainsRune(data, '\r') {
		return data
	}
	return bytes.ReplaceAll(data, []byte{'\r'}, nil)
}

// ============================================================================
// Read-only accessors
// ============================================================================

// Len returns the document byte size D.
func (d *Document) Len() int {
	return d.pt.Len()
}

// Bytes returns the full document contents.
func (d *Document) Bytes() []byte {
	return d.pt.Bytes()
}

// ByteRange returns the document bytes in [lo,hi).
func (d *Document) ByteRange(lo, hi int) []byte {
	return d.pt.ReadRange(lo, hi)
}

// Cursor returns the current cursor byte offset.
func (d *Document) Cursor() int {
	return d.cursor
}

// SelectionRange returns the selection as [lo,hi) and whether a
// selection is active.
func (d *Document) SelectionRange() (lo, hi int, active bool) {
	if !d.selectionActive {
		return 0, 0, false
	}
	if d.selectionAnchor < d.cursor {
		return d.selectionAnchor, d.cursor, true
	}
	return d.cursor, d.selectionAnchor, true
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return d.lc.LineCount()
}

// Line returns the (start, length) of line i.
func (d *Document) Line(i int) (start, length int) {
	return d.lc.Line(i)
}

// ScrollLine returns the current scroll anchor line.
func (d *Document) ScrollLine() int {
	return d.scrollLine
}

// ScrollColumnPx returns the current horizontal scroll anchor in pixels.
func (d *Document) ScrollColumnPx() int {
	return d.scrollColumnPx
}

// AdvanceScroll sets the scroll anchors, clamping the line to a valid
// index.
func (d *Document) AdvanceScroll(newLine, newPx int) {
	if n := d.lc.LineCount(); newLine >= n {
		newLine = n - 1
	}
	if newLine < 0 {
		newLine = 0
	}
	if newPx < 0 {
		newPx = 0
	}
	d.scrollLine = newLine
	d.scrollColumnPx = newPx
}

// CanUndo reports whether Undo would do anything.
func (d *Document) CanUndo() bool {
	return d.ul.CanUndo()
}

// CanRedo reports whether Redo would do anything.
func (d *Document) CanRedo() bool {
	return d.ul.CanRedo()
}

// LineOf computes the (line, column) of a byte offset via the line
// cache, by binary search across line starts.
func (d *Document) LineOf(offset int) (line, col int) {
	n := d.lc.LineCount()
	lo, hi := 0, n-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		start, _ := d.lc.Line(mid)
		if start <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	start, _ := d.lc.Line(lo)
	return lo, offset - start
}

// CursorProjection returns the memoised (line, column) of the cursor,
// recomputing only if the cache was invalidated by a move or a
// mutation.
func (d *Document) CursorProjection() (line, col int) {
	if d.projValid {
		return d.projLine, d.projCol
	}
	d.projLine, d.projCol = d.LineOf(d.cursor)
	d.projValid = true
	return d.projLine, d.projCol
}

// ============================================================================
// Internal helpers shared by the operations in edit.go and movement.go
// ============================================================================

func (d *Document) setCursor(offset int) {
	d.cursor = clamp(offset, 0, d.pt.Len())
	d.projValid = false
}

func (d *Document) clearSelection() {
	d.selectionActive = false
}

// deleteRange removes [lo,hi) as a single Delete record, applying it to
// the piece table and positioning the cursor at lo.
func (d *Document) deleteRange(lo, hi int, now time.Time) {
	text := d.pt.ReadRange(lo, hi)
	d.ul.Push(undo.Record{
		Kind:         undo.Delete,
		Position:     lo,
		Length:       hi - lo,
		Text:         text,
		CursorBefore: d.cursor,
		CursorAfter:  lo,
	}, now)
	d.pt.Delete(lo, hi-lo)
	d.lc.Invalidate()
	d.setCursor(lo)
	d.clearSelection()
}

// deleteActiveSelection deletes the current selection, if any, as one
// compound edit record. Reports whether a selection was deleted.
func (d *Document) deleteActiveSelection(now time.Time) bool {
	lo, hi, active := d.SelectionRange()
	if !active {
		return false
	}
	d.deleteRange(lo, hi, now)
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
