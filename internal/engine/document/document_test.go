package document

import (
	"bytes"
	"testing"
	"time"

	"github.com/dshills/piecetext/internal/clipboard"
)

func baseTime() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func tick(t time.Time, d time.Duration) time.Time {
	return t.Add(d)
}

func TestNewIsEmpty(t *testing.T) {
	d := New()
	if d.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", d.Len())
	}
	if d.LineCount() != 1 {
		t.Fatalf("LineCount() = %d, want 1", d.LineCount())
	}
}

func TestLoadNormalizesCRLF(t *testing.T) {
	d := Load([]byte("a\r\nb\rc\n"))
	if got := string(d.Bytes()); got != "a\nb\nc\n" {
		t.Fatalf("Bytes() = %q, want %q", got, "a\nb\nc\n")
	}
}

func TestInsertAdvancesCursor(t *testing.T) {
	d := New()
	now := baseTime()
	d.Insert([]byte("hi"), now)
	if got := string(d.Bytes()); got != "hi" {
		t.Fatalf("Bytes() = %q", got)
	}
	if d.Cursor() != 2 {
		t.Fatalf("Cursor() = %d, want 2", d.Cursor())
	}
}

func TestInsertEmptyIsNoOp(t *testing.T) {
	d := New()
	if got := d.Insert(nil, baseTime()); got != NoOp {
		t.Fatalf("Status = %v, want NoOp", got)
	}
}

// P1: Bytes() after any sequence of Insert/Delete equals a flat-buffer
// reference performing the same edits.
func TestRoundTripAgainstFlatBuffer(t *testing.T) {
	d := New()
	ref := []byte{}
	now := baseTime()

	edits := []struct {
		insert string
		delBck int
	}{
		{insert: "hello world"},
		{delBck: 6},
		{insert: " there"},
		{insert: "\n"},
		{insert: "second line"},
	}

	for _, e := range edits {
		if e.insert != "" {
			d.Insert([]byte(e.insert), now)
			ref = append(ref, []byte(e.insert)...)
		}
		for i := 0; i < e.delBck; i++ {
			d.DeleteBackward(now)
			if len(ref) > 0 {
				ref = ref[:len(ref)-1]
			}
		}
		now = tick(now, 2*time.Second)
	}

	if got := string(d.Bytes()); got != string(ref) {
		t.Fatalf("Bytes() = %q, want %q", got, ref)
	}
}

// P2: Undo after N edits restores the exact prior byte content and
// cursor position.
func TestUndoInvertsEdit(t *testing.T) {
	d := New()
	now := baseTime()
	d.Insert([]byte("hello"), now)
	before := string(d.Bytes())
	cursorBefore := d.Cursor()

	now = tick(now, 2*time.Second)
	d.Insert([]byte(" world"), now)

	if got := d.Undo(); got != OK {
		t.Fatalf("Undo() = %v, want OK", got)
	}
	if got := string(d.Bytes()); got != before {
		t.Fatalf("Bytes() after undo = %q, want %q", got, before)
	}
	if d.Cursor() != cursorBefore {
		t.Fatalf("Cursor() after undo = %d, want %d", d.Cursor(), cursorBefore)
	}
}

// P3: Redo after Undo restores the byte content and cursor position
// that was present immediately before the Undo.
func TestRedoReappliesEdit(t *testing.T) {
	d := New()
	now := baseTime()
	d.Insert([]byte("hello"), now)
	now = tick(now, 2*time.Second)
	d.Insert([]byte(" world"), now)

	after := string(d.Bytes())
	cursorAfter := d.Cursor()

	d.Undo()
	if got := d.Redo(); got != OK {
		t.Fatalf("Redo() = %v, want OK", got)
	}
	if got := string(d.Bytes()); got != after {
		t.Fatalf("Bytes() after redo = %q, want %q", got, after)
	}
	if d.Cursor() != cursorAfter {
		t.Fatalf("Cursor() after redo = %d, want %d", d.Cursor(), cursorAfter)
	}
}

// P4: any edit applied after one or more Undo calls discards the
// redo branch.
func TestNewEditAfterUndoDiscardsRedoBranch(t *testing.T) {
	d := New()
	now := baseTime()
	d.Insert([]byte("hello"), now)
	now = tick(now, 2*time.Second)
	d.Insert([]byte(" world"), now)

	d.Undo()
	if !d.CanRedo() {
		t.Fatalf("CanRedo() = false, want true before new edit")
	}

	now = tick(now, 2*time.Second)
	d.Insert([]byte("!"), now)
	if d.CanRedo() {
		t.Fatalf("CanRedo() = true, want false after new edit discards redo branch")
	}
}

// P5: LineCount/Line stay consistent with the current byte content
// after any mutation (rebuilt lazily).
func TestLineCacheStaysConsistentAfterMutation(t *testing.T) {
	d := New()
	now := baseTime()
	d.Insert([]byte("a\nb\nc"), now)
	if d.LineCount() != 3 {
		t.Fatalf("LineCount() = %d, want 3", d.LineCount())
	}

	d.setCursor(1)
	d.InsertNewline(now)
	if d.LineCount() != 4 {
		t.Fatalf("LineCount() = %d, want 4 after inserting newline", d.LineCount())
	}
	start, length := d.Line(1)
	if got := string(d.ByteRange(start, start+length)); got != "" {
		t.Fatalf("Line(1) = %q, want empty", got)
	}
}

// P6: the cursor offset is always clamped to [0, Len()].
func TestCursorAlwaysClamped(t *testing.T) {
	d := New()
	now := baseTime()
	d.Insert([]byte("abc"), now)
	d.setCursor(100)
	if d.Cursor() != 3 {
		t.Fatalf("Cursor() = %d, want clamped to 3", d.Cursor())
	}
	d.setCursor(-5)
	if d.Cursor() != 0 {
		t.Fatalf("Cursor() = %d, want clamped to 0", d.Cursor())
	}
}

// P7: SelectionRange always reports lo <= hi regardless of whether the
// anchor is before or after the cursor.
func TestSelectionRangeIsSymmetric(t *testing.T) {
	d := New()
	now := baseTime()
	d.Insert([]byte("hello world"), now)

	d.setCursor(5)
	d.SelectionExtend(Right)
	d.SelectionExtend(Right)
	lo, hi, active := d.SelectionRange()
	if !active || lo > hi {
		t.Fatalf("SelectionRange() = (%d,%d,%v), want lo<=hi and active", lo, hi, active)
	}

	d.setCursor(5)
	d.clearSelection()
	d.SelectionExtend(Left)
	d.SelectionExtend(Left)
	lo2, hi2, active2 := d.SelectionRange()
	if !active2 || lo2 > hi2 {
		t.Fatalf("SelectionRange() = (%d,%d,%v), want lo<=hi and active", lo2, hi2, active2)
	}
}

// P8: consecutive Insert calls within the coalesce window merge into a
// single undo record; calls spaced beyond the window do not.
func TestTypingCoalescesWithinWindow(t *testing.T) {
	d := New()
	now := baseTime()
	d.Insert([]byte("h"), now)
	now = tick(now, 100*time.Millisecond)
	d.Insert([]byte("i"), now)

	if d.ul.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1 (coalesced)", d.ul.UndoCount())
	}

	now = tick(now, 2*time.Second)
	d.Insert([]byte("!"), now)
	if d.ul.UndoCount() != 2 {
		t.Fatalf("UndoCount() = %d, want 2 (new record outside window)", d.ul.UndoCount())
	}
}

// P9: Load normalizes CRLF and lone CR to LF before the document is
// constructed, so no '\r' byte ever reaches the piece table.
func TestLoadStripsAllCarriageReturns(t *testing.T) {
	d := Load([]byte("line1\r\nline2\rline3"))
	if bytes.ContainsRune(d.Bytes(), '\r') {
		t.Fatalf("Bytes() contains '\\r': %q", d.Bytes())
	}
}

func TestUndoOnEmptyDocumentIsNoOp(t *testing.T) {
	d := New()
	if got := d.Undo(); got != NoOp {
		t.Fatalf("Undo() = %v, want NoOp", got)
	}
}

func TestRedoWithNoUndoIsNoOp(t *testing.T) {
	d := New()
	d.Insert([]byte("x"), baseTime())
	if got := d.Redo(); got != NoOp {
		t.Fatalf("Redo() = %v, want NoOp", got)
	}
}

func TestDeleteBackwardAtStartIsNoOp(t *testing.T) {
	d := New()
	if got := d.DeleteBackward(baseTime()); got != NoOp {
		t.Fatalf("DeleteBackward() = %v, want NoOp", got)
	}
}

func TestDeleteForwardAtEndIsNoOp(t *testing.T) {
	d := New()
	d.Insert([]byte("ab"), baseTime())
	d.DeleteForward(baseTime())
	d.DeleteForward(baseTime())
	if got := d.DeleteForward(baseTime()); got != NoOp {
		t.Fatalf("DeleteForward() = %v, want NoOp", got)
	}
}

func TestInsertDeletesActiveSelectionFirst(t *testing.T) {
	d := New()
	now := baseTime()
	d.Insert([]byte("hello world"), now)
	d.setCursor(0)
	d.clearSelection()
	d.selectionAnchor = 0
	d.setCursor(5)
	d.selectionActive = true

	now = tick(now, 2*time.Second)
	d.Insert([]byte("bye"), now)
	if got := string(d.Bytes()); got != "bye world" {
		t.Fatalf("Bytes() = %q, want %q", got, "bye world")
	}
	if _, _, active := d.SelectionRange(); active {
		t.Fatalf("selection still active after Insert")
	}
}

func TestCopyCutPasteRoundTrip(t *testing.T) {
	d := New()
	now := baseTime()
	d.Insert([]byte("hello world"), now)

	d.selectionAnchor = 0
	d.setCursor(5)
	d.selectionActive = true

	clip := clipboard.NewMemory()
	if got := d.Cut(clip, now); got != OK {
		t.Fatalf("Cut() = %v, want OK", got)
	}
	if got := string(d.Bytes()); got != " world" {
		t.Fatalf("Bytes() after cut = %q, want %q", got, " world")
	}

	now = tick(now, 2*time.Second)
	d.setCursor(d.Len())
	if got := d.Paste(clip, now); got != OK {
		t.Fatalf("Paste() = %v, want OK", got)
	}
	if got := string(d.Bytes()); got != " worldhello" {
		t.Fatalf("Bytes() after paste = %q, want %q", got, " worldhello")
	}
}

func TestCopyWithNoSelectionIsNoOp(t *testing.T) {
	d := New()
	d.Insert([]byte("x"), baseTime())
	clip := clipboard.NewMemory()
	if got := d.Copy(clip); got != NoOp {
		t.Fatalf("Copy() = %v, want NoOp", got)
	}
}

func TestSelectAllSelectsEverything(t *testing.T) {
	d := New()
	d.Insert([]byte("abcdef"), baseTime())
	d.setCursor(3)
	d.SelectAll()
	lo, hi, active := d.SelectionRange()
	if !active || lo != 0 || hi != 6 {
		t.Fatalf("SelectionRange() = (%d,%d,%v), want (0,6,true)", lo, hi, active)
	}
}

func TestSelectAllOnEmptyDocumentLeavesSelectionInactive(t *testing.T) {
	d := New()
	d.SelectAll()
	if _, _, active := d.SelectionRange(); active {
		t.Fatalf("selection active on empty document")
	}
}

func TestInsertTabUsesConfiguredSpaces(t *testing.T) {
	d := New(WithTabSpaces(4))
	d.InsertTab(baseTime())
	if got := string(d.Bytes()); got != "    " {
		t.Fatalf("Bytes() = %q, want 4 spaces", got)
	}
}

func TestAdvanceScrollClampsLine(t *testing.T) {
	d := New()
	d.Insert([]byte("a\nb\nc"), baseTime())
	d.AdvanceScroll(100, -5)
	if d.ScrollLine() != d.LineCount()-1 {
		t.Fatalf("ScrollLine() = %d, want %d", d.ScrollLine(), d.LineCount()-1)
	}
	if d.ScrollColumnPx() != 0 {
		t.Fatalf("ScrollColumnPx() = %d, want 0", d.ScrollColumnPx())
	}
}

func TestCursorProjectionMatchesLineOf(t *testing.T) {
	d := New()
	d.Insert([]byte("ab\ncd\nef"), baseTime())
	d.setCursor(4)
	line, col := d.CursorProjection()
	wantLine, wantCol := d.LineOf(4)
	if line != wantLine || col != wantCol {
		t.Fatalf("CursorProjection() = (%d,%d), want (%d,%d)", line, col, wantLine, wantCol)
	}
}
