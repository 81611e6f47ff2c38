package renderer

import "github.com/dshills/piecetext/internal/engine/document"

// Adapter implements Source over a *document.Document.
type Adapter struct {
	doc *document.Document
}

// NewAdapter wraps doc as a Source.
func NewAdapter(doc *document.Document) *Adapter {
	return &Adapter{doc: doc}
}

func (a *Adapter) LineCount() int { return a.doc.LineCount() }

func (a *Adapter) Line(i int) (start, length int) { return a.doc.Line(i) }

func (a *Adapter) Bytes(start, length int) []byte { return a.doc.ByteRange(start, start+length) }

func (a *Adapter) CursorIndex() int { return a.doc.Cursor() }

func (a *Adapter) SelectionRange() (lo, hi int, active bool) { return a.doc.SelectionRange() }

func (a *Adapter) ScrollLine() int { return a.doc.ScrollLine() }

func (a *Adapter) ScrollColumnPx() int { return a.doc.ScrollColumnPx() }

func (a *Adapter) AdvanceScroll(newLine, newPx int) { a.doc.AdvanceScroll(newLine, newPx) }
