package undo

import (
	"testing"
	"time"
)

// fakeMutator stands in for *piece.Table so Undo/Redo can be tested
// against a flat reference buffer.
type fakeMutator struct {
	data []byte
}

func (m *fakeMutator) Insert(position int, data []byte) {
	out := append([]byte{}, m.data[:position]...)
	out = append(out, data...)
	out = append(out, m.data[position:]...)
	m.data = out
}

func (m *fakeMutator) Delete(position, length int) {
	out := append([]byte{}, m.data[:position]...)
	out = append(out, m.data[position+length:]...)
	m.data = out
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) Invalidate() { f.calls++ }

func baseTime() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestPushThenUndoRedo(t *testing.T) {
	l := New(0)
	mut := &fakeMutator{data: []byte("hello")}
	inv := &fakeInvalidator{}
	now := baseTime()

	l.Push(Record{Kind: Insert, Position: 5, Length: 1, Text: []byte("!"), CursorBefore: 5, CursorAfter: 6}, now)
	mut.Insert(5, []byte("!"))
	if string(mut.data) != "hello!" {
		t.Fatalf("data = %q", mut.data)
	}

	if _, ok := l.Undo(mut, inv); !ok {
		t.Fatal("Undo() = false, want true")
	}
	if string(mut.data) != "hello" {
		t.Fatalf("after undo data = %q, want %q", mut.data, "hello")
	}
	if inv.calls != 1 {
		t.Fatalf("Invalidate called %d times, want 1", inv.calls)
	}

	if _, ok := l.Redo(mut, inv); !ok {
		t.Fatal("Redo() = false, want true")
	}
	if string(mut.data) != "hello!" {
		t.Fatalf("after redo data = %q, want %q", mut.data, "hello!")
	}
}

func TestUndoOnEmptyLogIsNoOp(t *testing.T) {
	l := New(0)
	mut := &fakeMutator{data: []byte("x")}
	inv := &fakeInvalidator{}
	if _, ok := l.Undo(mut, inv); ok {
		t.Fatal("Undo() on empty log should be a no-op")
	}
	if inv.calls != 0 {
		t.Fatalf("Invalidate should not be called on no-op undo")
	}
}

func TestPushDiscardsRedoBranch(t *testing.T) {
	l := New(0)
	now := baseTime()
	l.Push(Record{Kind: Insert, Position: 0, Length: 1, Text: []byte("a")}, now)
	l.Push(Record{Kind: Insert, Position: 1, Length: 1, Text: []byte("b")}, now)

	mut := &fakeMutator{}
	inv := &fakeInvalidator{}
	l.Undo(mut, inv) // undo "b", current=1, CanRedo true

	if !l.CanRedo() {
		t.Fatal("expected CanRedo after one undo")
	}

	l.Push(Record{Kind: Insert, Position: 1, Length: 1, Text: []byte("c")}, now)
	if l.CanRedo() {
		t.Fatal("pushing a new record must discard the redo branch")
	}
}

func TestCapEvictsOldestAndKeepsCurrentAligned(t *testing.T) {
	l := New(2)
	now := baseTime()
	l.Push(Record{Kind: Insert, Text: []byte("a")}, now)
	l.Push(Record{Kind: Insert, Text: []byte("b")}, now)
	l.Push(Record{Kind: Insert, Text: []byte("c")}, now)

	if l.UndoCount() != 2 {
		t.Fatalf("UndoCount() = %d, want 2", l.UndoCount())
	}
	if l.RedoCount() != 0 {
		t.Fatalf("RedoCount() = %d, want 0", l.RedoCount())
	}
}

func TestCoalesceInsertWithinWindow(t *testing.T) {
	l := New(0)
	now := baseTime()
	l.Push(Record{Kind: Insert, Position: 0, Length: 1, Text: []byte("a"), CursorAfter: 1}, now)

	later := now.Add(100 * time.Millisecond)
	ok := l.TryCoalesceInsert(1, []byte("b"), later)
	if !ok {
		t.Fatal("TryCoalesceInsert should succeed within the window")
	}
	if l.UndoCount() != 1 {
		t.Fatalf("coalescing must not add a new record, UndoCount() = %d", l.UndoCount())
	}
	if got := string(l.records[0].Text); got != "ab" {
		t.Fatalf("record text = %q, want %q", got, "ab")
	}
}

func TestCoalesceInsertRejectsNewline(t *testing.T) {
	l := New(0)
	now := baseTime()
	l.Push(Record{Kind: Insert, Position: 0, Length: 1, Text: []byte("a"), CursorAfter: 1}, now)

	if l.TryCoalesceInsert(1, []byte("\n"), now) {
		t.Fatal("TryCoalesceInsert must reject text containing a newline")
	}
}

func TestCoalesceInsertRejectsOutsideWindow(t *testing.T) {
	l := New(0)
	now := baseTime()
	l.Push(Record{Kind: Insert, Position: 0, Length: 1, Text: []byte("a"), CursorAfter: 1}, now)

	later := now.Add(2 * time.Second)
	if l.TryCoalesceInsert(1, []byte("b"), later) {
		t.Fatal("TryCoalesceInsert must fail once the coalesce window has elapsed")
	}
}

func TestCoalesceBackspaceWithinWindow(t *testing.T) {
	l := New(0)
	now := baseTime()
	// First backspace: deleted "c" at position 2 (cursor was 3, now 2).
	l.Push(Record{Kind: Delete, Position: 2, Length: 1, Text: []byte("c"), CursorBefore: 3, CursorAfter: 2}, now)

	later := now.Add(10 * time.Millisecond)
	ok := l.TryCoalesceBackspace(1, 'b', later)
	if !ok {
		t.Fatal("TryCoalesceBackspace should succeed within the window")
	}
	if l.UndoCount() != 1 {
		t.Fatalf("coalescing must not add a new record, UndoCount() = %d", l.UndoCount())
	}
	if got := string(l.records[0].Text); got != "bc" {
		t.Fatalf("record text = %q, want %q", got, "bc")
	}
	if l.records[0].Position != 1 {
		t.Fatalf("record position = %d, want 1", l.records[0].Position)
	}
}
