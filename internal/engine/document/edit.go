package document

import (
	"time"

	"github.com/dshills/piecetext/internal/clipboard"
	"github.com/dshills/piecetext/internal/engine/undo"
)

// Insert inserts bytes at the cursor. If a selection is active it is
// deleted first as one compound edit record. The insertion coalesces
// with the previous undo record when possible; otherwise a new INSERT
// record is pushed. now drives the undo log's coalescing window and is
// never read from the wall clock by Document itself.
func (d *Document) Insert(data []byte, now time.Time) Status {
	hadSelection := d.deleteActiveSelection(now)
	if len(data) == 0 {
		if hadSelection {
			return OK
		}
		return NoOp
	}

	cursorBefore := d.cursor
	if !d.ul.TryCoalesceInsert(d.cursor, data, now) {
		d.ul.Push(undo.Record{
			Kind:         undo.Insert,
			Position:     d.cursor,
			Length:       len(data),
			Text:         append([]byte(nil), data...),
			CursorBefore: cursorBefore,
			CursorAfter:  d.cursor + len(data),
		}, now)
	}
	d.pt.Insert(d.cursor, data)
	d.lc.Invalidate()
	d.setCursor(d.cursor + len(data))
	return OK
}

// DeleteBackward deletes the selection if one is active, otherwise the
// single byte before the cursor, coalescing consecutive backspaces
// within the undo log's window. NoOp at offset 0 with no selection.
func (d *Document) DeleteBackward(now time.Time) Status {
	if d.deleteActiveSelection(now) {
		return OK
	}
	if d.cursor == 0 {
		return NoOp
	}

	pos := d.cursor - 1
	deleted := d.pt.ReadByte(pos)
	if !d.ul.TryCoalesceBackspace(pos, deleted, now) {
		d.ul.Push(undo.Record{
			Kind:         undo.Delete,
			Position:     pos,
			Length:       1,
			Text:         []byte{deleted},
			CursorBefore: d.cursor,
			CursorAfter:  pos,
		}, now)
	}
	d.pt.Delete(pos, 1)
	d.lc.Invalidate()
	d.setCursor(pos)
	return OK
}

// DeleteForward deletes the selection if one is active, otherwise the
// single byte at the cursor. Never coalesced. NoOp at end of document
// with no selection.
func (d *Document) DeleteForward(now time.Time) Status {
	if d.deleteActiveSelection(now) {
		return OK
	}
	if d.cursor == d.pt.Len() {
		return NoOp
	}

	deleted := d.pt.ReadByte(d.cursor)
	d.ul.Push(undo.Record{
		Kind:         undo.Delete,
		Position:     d.cursor,
		Length:       1,
		Text:         []byte{deleted},
		CursorBefore: d.cursor,
		CursorAfter:  d.cursor,
	}, now)
	d.pt.Delete(d.cursor, 1)
	d.lc.Invalidate()
	d.projValid = false
	return OK
}

// InsertNewline inserts a single '\n'. Never coalesced with neighboring
// typing, matching insert_tab's opposite default.
func (d *Document) InsertNewline(now time.Time) Status {
	d.deleteActiveSelection(now)
	cursorBefore := d.cursor
	d.ul.Push(undo.Record{
		Kind:         undo.Insert,
		Position:     d.cursor,
		Length:       1,
		Text:         []byte{'\n'},
		CursorBefore: cursorBefore,
		CursorAfter:  d.cursor + 1,
	}, now)
	d.pt.Insert(d.cursor, []byte{'\n'})
	d.lc.Invalidate()
	d.setCursor(d.cursor + 1)
	return OK
}

// InsertTab inserts the configured number of spaces (two by default).
// Coalescing with adjacent typing is allowed, so it behaves exactly
// like Insert with that fixed text.
func (d *Document) InsertTab(now time.Time) Status {
	spaces := make([]byte, d.tabSpaces)
	for i := range spaces {
		spaces[i] = ' '
	}
	return d.Insert(spaces, now)
}

// Copy hands the selection bytes to clip. NoOp if no selection is
// active.
func (d *Document) Copy(clip clipboard.Clipboard) Status {
	lo, hi, active := d.SelectionRange()
	if !active {
		return NoOp
	}
	clip.SetText(d.pt.ReadRange(lo, hi))
	return OK
}

// Cut copies the selection then deletes it. NoOp if no selection is
// active.
func (d *Document) Cut(clip clipboard.Clipboard, now time.Time) Status {
	if d.Copy(clip) == NoOp {
		return NoOp
	}
	d.deleteActiveSelection(now)
	return OK
}

// Paste normalizes CRLF/CR bytes from clip to LF and inserts them.
// NoOp if the clipboard is empty.
func (d *Document) Paste(clip clipboard.Clipboard, now time.Time) Status {
	text, ok := clip.GetText()
	if !ok {
		return NoOp
	}
	return d.Insert(normalizeLineEndings(text), now)
}

// SelectAll selects the entire document: anchor=0, cursor=D, selection
// active iff D>0.
func (d *Document) SelectAll() Status {
	n := d.pt.Len()
	d.selectionAnchor = 0
	d.setCursor(n)
	d.selectionActive = n > 0
	return OK
}

// Undo reverts the most recently applied edit record directly against
// the piece table, restores the cursor to its pre-edit position, and
// clears any selection. NoOp if there is nothing to undo.
func (d *Document) Undo() Status {
	r, ok := d.ul.Undo(d.pt, d.lc)
	if !ok {
		return NoOp
	}
	d.setCursor(r.CursorBefore)
	d.clearSelection()
	return OK
}

// Redo re-applies the next edit record, restores the cursor to its
// post-edit position, and clears any selection. NoOp if there is
// nothing to redo.
func (d *Document) Redo() Status {
	r, ok := d.ul.Redo(d.pt, d.lc)
	if !ok {
		return NoOp
	}
	d.setCursor(r.CursorAfter)
	d.clearSelection()
	return OK
}
