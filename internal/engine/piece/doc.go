// Package piece implements the piece-table storage layer for the editor
// core: an ordered sequence of spans over two append-only byte regions
// (the original load and an append buffer) whose concatenation is the
// current document text.
//
// Structural edits never mutate existing bytes. Insert appends new bytes
// to the add region and splices a new Piece into the sequence; delete
// narrows or drops pieces. Both operations invalidate nothing themselves —
// callers (the document package) own cache invalidation.
package piece
