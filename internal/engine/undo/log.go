package undo

import "time"

// DefaultCoalesceWindow is the span within which consecutive typing or
// consecutive backspacing merges into the previous Record.
const DefaultCoalesceWindow = time.Second

// DefaultCap bounds how many records the log retains before the oldest
// is dropped.
const DefaultCap = 1000

// Mutator is the subset of *piece.Table the Log needs to apply a
// Record's forward or inverse mutation directly, bypassing the
// dispatcher.
type Mutator interface {
	Insert(position int, data []byte)
	Delete(position, length int)
}

// Invalidator is satisfied by *linecache.Cache.
type Invalidator interface {
	Invalidate()
}

// Log is the undo/redo history: an array of edit Records plus a
// current pointer into it.
//
// Invariants: 0 <= current <= len(records); records before current are
// applied; pushing truncates the redo branch at current; once len(records)
// exceeds the configured cap the oldest record is dropped and current
// shifts down with it so it still points at the same logical position.
type Log struct {
	records []Record
	current int
	cap     int

	// Window is the coalesce time window; Cap is the retention cap.
	// Exposed so callers (the config layer) can override the defaults.
	Window time.Duration
	Cap    int

	lastEditTime time.Time
	hasLast      bool
}

// New creates an empty Log with the given retention cap. capacity <= 0
// uses DefaultCap.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Log{
		Window: DefaultCoalesceWindow,
		Cap:    capacity,
	}
}

// CanUndo reports whether Undo would do anything.
func (l *Log) CanUndo() bool {
	return l.current > 0
}

// CanRedo reports whether Redo would do anything.
func (l *Log) CanRedo() bool {
	return l.current < len(l.records)
}

// Push appends a new Record, discarding any redo branch and evicting the
// oldest record if the cap is exceeded.
func (l *Log) Push(r Record, now time.Time) {
	if l.current < len(l.records) {
		l.records = l.records[:l.current]
	}
	l.records = append(l.records, r)
	l.current = len(l.records)

	limit := l.Cap
	if limit <= 0 {
		limit = DefaultCap
	}
	if len(l.records) > limit {
		drop := len(l.records) - limit
		l.records = l.records[drop:]
		l.current -= drop
	}

	l.markEdit(now)
}

func (l *Log) markEdit(now time.Time) {
	l.lastEditTime = now
	l.hasLast = true
}

func (l *Log) withinWindow(now time.Time) bool {
	if !l.hasLast {
		return false
	}
	window := l.Window
	if window <= 0 {
		window = DefaultCoalesceWindow
	}
	return now.Sub(l.lastEditTime) < window
}

func (l *Log) previous() (*Record, bool) {
	if l.current == 0 {
		return nil, false
	}
	return &l.records[l.current-1], true
}

// TryCoalesceInsert attempts to merge an insertion of bytes at position
// into the previous Record. It succeeds only if: there is a previous
// Record, it is an Insert whose Position+Length equals position (the
// new text lands right after it), it was recorded within the coalesce
// window, and bytes contains no newline (a newline always starts a new
// undo step).
func (l *Log) TryCoalesceInsert(position int, bytes []byte, now time.Time) bool {
	prev, ok := l.previous()
	if !ok || !l.withinWindow(now) {
		return false
	}
	if prev.Kind != Insert || prev.Position+prev.Length != position {
		return false
	}
	for _, b := range bytes {
		if b == '\n' {
			return false
		}
	}

	prev.Text = append(prev.Text, bytes...)
	prev.Length += len(bytes)
	prev.CursorAfter = position + len(bytes)
	l.markEdit(now)
	return true
}

// TryCoalesceBackspace attempts to merge a single-byte backward deletion
// at position (the position of the byte being removed) into the
// previous Record. It succeeds only if the previous Record is a Delete
// that removed the byte immediately after position (i.e. a prior
// backspace at the same cursor site) and was recorded within the
// coalesce window.
func (l *Log) TryCoalesceBackspace(position int, deletedByte byte, now time.Time) bool {
	prev, ok := l.previous()
	if !ok || !l.withinWindow(now) {
		return false
	}
	if prev.Kind != Delete || prev.Position != position+1 {
		return false
	}

	prev.Position = position
	prev.Length++
	prev.Text = append([]byte{deletedByte}, prev.Text...)
	prev.CursorAfter = position
	l.markEdit(now)
	return true
}

// Undo reverses the most recently applied Record by writing its inverse
// directly to mut and invalidating lc. It is a no-op if current == 0.
// Returns the undone Record and true, or the zero Record and false.
func (l *Log) Undo(mut Mutator, lc Invalidator) (Record, bool) {
	if l.current == 0 {
		return Record{}, false
	}
	l.current--
	r := l.records[l.current]
	switch r.Kind {
	case Insert:
		mut.Delete(r.Position, r.Length)
	case Delete:
		mut.Insert(r.Position, r.Text)
	}
	lc.Invalidate()
	return r, true
}

// Redo re-applies the next Record by writing it directly to mut and
// invalidating lc. It is a no-op if current == len(records). Returns
// the redone Record and true, or the zero Record and false.
func (l *Log) Redo(mut Mutator, lc Invalidator) (Record, bool) {
	if l.current == len(l.records) {
		return Record{}, false
	}
	r := l.records[l.current]
	switch r.Kind {
	case Insert:
		mut.Insert(r.Position, r.Text)
	case Delete:
		mut.Delete(r.Position, r.Length)
	}
	lc.Invalidate()
	l.current++
	return r, true
}

// Clear discards all history.
func (l *Log) Clear() {
	l.records = nil
	l.current = 0
	l.hasLast = false
}

// UndoCount returns the number of records available to Undo.
func (l *Log) UndoCount() int {
	return l.current
}

// RedoCount returns the number of records available to Redo.
func (l *Log) RedoCount() int {
	return len(l.records) - l.current
}
