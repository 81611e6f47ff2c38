package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/piecetext/internal/renderer"
)

// gutterWidth is the fixed-width line-number column. No syntax
// highlighting and no dynamic gutter sizing: those are out of scope.
const gutterWidth = 4

// draw paints one frame from src onto screen. It is intentionally bare:
// proving renderer.Source is exercised end to end, not a full UI.
func draw(screen tcell.Screen, src renderer.Source) {
	screen.Clear()
	width, height := screen.Size()

	lo, hi, selActive := src.SelectionRange()
	cursorLine, cursorCol := cursorPosition(src)

	for row := 0; row < height; row++ {
		lineIdx := src.ScrollLine() + row
		if lineIdx >= src.LineCount() {
			break
		}
		start, length := src.Line(lineIdx)
		line := src.Bytes(start, length)

		drawGutter(screen, row, lineIdx+1)

		col := gutterWidth
		for i, b := range line {
			if col >= width {
				break
			}
			style := tcell.StyleDefault
			if selActive && start+i >= lo && start+i < hi {
				style = style.Reverse(true)
			}
			screen.SetContent(col, row, rune(b), nil, style)
			col++
		}
	}

	screen.ShowCursor(gutterWidth+cursorCol, cursorLine-src.ScrollLine())
	screen.Show()
}

func drawGutter(screen tcell.Screen, row, lineNumber int) {
	text := padLeft(formatNumber(lineNumber), gutterWidth-1)
	for i, r := range text {
		screen.SetContent(i, row, r, nil, tcell.StyleDefault.Dim(true))
	}
}

// formatNumber renders n (always >= 1 here) as decimal digits without
// pulling in strconv for a one-off fixed-width column.
func formatNumber(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func padLeft(s string, width int) []rune {
	out := []rune(s)
	for len(out) < width {
		out = append([]rune{' '}, out...)
	}
	return out
}

// cursorPosition turns the cursor's byte offset into a (line, column)
// pair by scanning the line containing it, since renderer.Source has
// no direct line_of operation.
func cursorPosition(src renderer.Source) (line, col int) {
	idx := src.CursorIndex()
	for i := 0; i < src.LineCount(); i++ {
		start, length := src.Line(i)
		if idx >= start && idx <= start+length {
			return i, idx - start
		}
	}
	return 0, 0
}
