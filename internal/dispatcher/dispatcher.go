package dispatcher

import (
	"log/slog"
	"time"

	"github.com/dshills/piecetext/internal/clipboard"
	"github.com/dshills/piecetext/internal/engine/document"
)

// Dispatch applies action to doc and returns the resulting Status.
// clip is consulted only by Copy, Cut, and Paste; now drives undo-log
// coalescing and is never read from the wall clock here. Intents with
// no Document counterpart (Search, Cancel, Quit, OpenCommandPalette)
// are logged and left for the caller to act on; they never touch doc.
func Dispatch(doc *document.Document, action Action, now time.Time, clip clipboard.Clipboard) document.Status {
	switch action.Intent {
	case CursorLeft:
		return doc.CursorMove(document.Left)
	case CursorRight:
		return doc.CursorMove(document.Right)
	case CursorUp:
		return doc.CursorMove(document.Up)
	case CursorDown:
		return doc.CursorMove(document.Down)
	case CursorWordLeft:
		return doc.CursorMove(document.WordLeft)
	case CursorWordRight:
		return doc.CursorMove(document.WordRight)

	case SelectLeft:
		return doc.SelectionExtend(document.Left)
	case SelectRight:
		return doc.SelectionExtend(document.Right)
	case SelectUp:
		return doc.SelectionExtend(document.Up)
	case SelectDown:
		return doc.SelectionExtend(document.Down)
	case SelectWordLeft:
		return doc.SelectionExtend(document.WordLeft)
	case SelectWordRight:
		return doc.SelectionExtend(document.WordRight)
	case SelectAll:
		return doc.SelectAll()

	case InsertChar:
		return doc.Insert(action.Bytes, now)
	case InsertNewline:
		return doc.InsertNewline(now)
	case InsertTab:
		return doc.InsertTab(now)

	case DeleteBackward:
		return doc.DeleteBackward(now)
	case DeleteForward:
		return doc.DeleteForward(now)

	case Copy:
		return doc.Copy(clip)
	case Cut:
		return doc.Cut(clip, now)
	case Paste:
		return doc.Paste(clip, now)

	case Undo:
		return doc.Undo()
	case Redo:
		return doc.Redo()

	case Search, Cancel, Quit, OpenCommandPalette:
		slog.Debug("intent has no document-level effect", "intent", action.Intent)
		return document.NoOp

	default:
		slog.Warn("unimplemented intent", "intent", action.Intent)
		return document.NoOp
	}
}
