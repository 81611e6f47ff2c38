package piece

import "fmt"

// Table is an ordered sequence of Pieces whose concatenation is the
// current document bytes. The original region is fixed at construction;
// the add region only ever grows.
type Table struct {
	original []byte
	add      []byte
	pieces   []Piece
	size     int
}

// New builds a Table from the initial document bytes. data is treated as
// the original region; the caller is responsible for any line-ending
// normalization before constructing the table.
func New(data []byte) *Table {
	t := &Table{
		original: append([]byte(nil), data...),
	}
	if len(data) > 0 {
		t.pieces = append(t.pieces, Piece{Source: Original, Start: 0, Length: len(data)})
		t.size = len(data)
	}
	return t
}

// Len returns the document byte size D.
func (t *Table) Len() int {
	return t.size
}

func (t *Table) region(src Source) []byte {
	if src == Add {
		return t.add
	}
	return t.original
}

// ReadByte returns the byte at document offset i.
func (t *Table) ReadByte(i int) byte {
	if i < 0 || i >= t.size {
		panic(fmt.Sprintf("piece: ReadByte(%d) out of range [0,%d)", i, t.size))
	}
	base := 0
	for _, p := range t.pieces {
		if i < base+p.Length {
			return t.region(p.Source)[p.Start+(i-base)]
		}
		base += p.Length
	}
	panic("piece: ReadByte fell through piece list")
}

// ReadRange returns the concatenation of bytes in [lo,hi).
func (t *Table) ReadRange(lo, hi int) []byte {
	if lo < 0 || hi < lo || hi > t.size {
		panic(fmt.Sprintf("piece: ReadRange(%d,%d) out of range [0,%d]", lo, hi, t.size))
	}
	if lo == hi {
		return nil
	}
	out := make([]byte, 0, hi-lo)
	base := 0
	for _, p := range t.pieces {
		pStart, pEnd := base, base+p.Length
		base = pEnd
		if pEnd <= lo || pStart >= hi {
			continue
		}
		segStart := max(lo, pStart) - pStart
		segEnd := min(hi, pEnd) - pStart
		region := t.region(p.Source)
		out = append(out, region[p.Start+segStart:p.Start+segEnd]...)
	}
	return out
}

// Bytes returns the full document contents.
func (t *Table) Bytes() []byte {
	return t.ReadRange(0, t.size)
}

// Insert splices data into the document at position, appending data to
// the add region. position must be in [0,D].
func (t *Table) Insert(position int, data []byte) {
	if position < 0 || position > t.size {
		panic(fmt.Sprintf("piece: Insert position %d out of range [0,%d]", position, t.size))
	}
	if len(data) == 0 {
		return
	}

	addOffset := len(t.add)
	t.add = append(t.add, data...)
	newPiece := Piece{Source: Add, Start: addOffset, Length: len(data)}

	idx, inner := t.locate(position)
	switch {
	case idx == len(t.pieces):
		// position is at (or past) the end of the document: append.
		t.pieces = append(t.pieces, newPiece)
	case inner == 0:
		// position falls exactly on a piece boundary.
		t.pieces = insertPieceAt(t.pieces, idx, newPiece)
	default:
		// position falls strictly inside pieces[idx]: split it.
		old := t.pieces[idx]
		left := Piece{Source: old.Source, Start: old.Start, Length: inner}
		right := Piece{Source: old.Source, Start: old.Start + inner, Length: old.Length - inner}
		replacement := []Piece{left, newPiece, right}
		t.pieces = spliceOne(t.pieces, idx, replacement)
	}

	t.size += len(data)
}

// Delete removes the byte range [position, position+length) from the
// document. The underlying source bytes are never reclaimed.
func (t *Table) Delete(position, length int) {
	if position < 0 || length < 0 || position+length > t.size {
		panic(fmt.Sprintf("piece: Delete(%d,%d) out of range [0,%d]", position, length, t.size))
	}
	if length == 0 {
		return
	}
	lo, hi := position, position+length

	var out []Piece
	base := 0
	for _, p := range t.pieces {
		pStart, pEnd := base, base+p.Length
		base = pEnd

		switch {
		case pEnd <= lo || pStart >= hi:
			// untouched, wholly outside the deleted range
			out = append(out, p)
		case pStart >= lo && pEnd <= hi:
			// wholly contained: drop it
		case pStart < lo && pEnd > hi:
			// deletion falls strictly inside this piece: narrow into two
			leftLen := lo - pStart
			rightLen := pEnd - hi
			out = append(out,
				Piece{Source: p.Source, Start: p.Start, Length: leftLen},
				Piece{Source: p.Source, Start: p.Start + (hi - pStart), Length: rightLen},
			)
		case pStart < lo:
			// overlaps the left edge of the deletion: keep the left remainder
			out = append(out, Piece{Source: p.Source, Start: p.Start, Length: lo - pStart})
		default:
			// overlaps the right edge of the deletion: keep the right remainder
			keepFrom := hi - pStart
			out = append(out, Piece{Source: p.Source, Start: p.Start + keepFrom, Length: p.Length - keepFrom})
		}
	}
	t.pieces = out
	t.size -= length
}

// locate returns the index of the piece containing document offset pos
// and the offset within that piece. If pos is exactly at the boundary
// after the last piece (or the table is empty), idx == len(pieces) and
// inner == 0.
func (t *Table) locate(pos int) (idx, inner int) {
	base := 0
	for i, p := range t.pieces {
		if pos < base+p.Length {
			return i, pos - base
		}
		base += p.Length
	}
	return len(t.pieces), 0
}

func insertPieceAt(pieces []Piece, idx int, p Piece) []Piece {
	out := make([]Piece, 0, len(pieces)+1)
	out = append(out, pieces[:idx]...)
	out = append(out, p)
	out = append(out, pieces[idx:]...)
	return out
}

func spliceOne(pieces []Piece, idx int, replacement []Piece) []Piece {
	out := make([]Piece, 0, len(pieces)-1+len(replacement))
	out = append(out, pieces[:idx]...)
	out = append(out, replacement...)
	out = append(out, pieces[idx+1:]...)
	return out
}
