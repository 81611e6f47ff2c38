package undo

// Kind distinguishes an insertion from a deletion in an edit Record.
type Kind uint8

const (
	// Insert records bytes that were added to the document.
	Insert Kind = iota
	// Delete records bytes that were removed from the document.
	Delete
)

func (k Kind) String() string {
	if k == Delete {
		return "delete"
	}
	return "insert"
}

// Record is a fully reversible description of one mutation. An Insert
// of Text at Position undoes to a Delete at Position of len(Text); a
// Delete of Text at Position undoes to an Insert at Position of Text.
type Record struct {
	Kind Kind
	// Position is the byte offset before the mutation was applied.
	Position int
	// Length is len(Text), kept alongside it for clarity at call sites.
	Length int
	// Text is the literal bytes inserted or deleted.
	Text []byte
	// CursorBefore and CursorAfter are the document cursor positions
	// immediately before and after this edit was applied.
	CursorBefore int
	CursorAfter  int
	// SelectionBefore records whether a selection was active before the
	// edit and its anchor, so undo can restore it exactly.
	SelectionBefore      bool
	SelectionAnchorBefore int
}
