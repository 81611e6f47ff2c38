package dispatcher

// Intent is the closed set of editor actions the keymap binding table
// can produce and Dispatch can apply.
type Intent uint8

const (
	CursorLeft Intent = iota
	CursorRight
	CursorUp
	CursorDown
	CursorWordLeft
	CursorWordRight

	SelectLeft
	SelectRight
	SelectUp
	SelectDown
	SelectWordLeft
	SelectWordRight
	SelectAll

	InsertChar
	InsertNewline
	InsertTab

	DeleteBackward
	DeleteForward

	Copy
	Cut
	Paste

	Undo
	Redo

	Search
	Cancel
	Quit
	OpenCommandPalette
)

// String implements fmt.Stringer.
func (i Intent) String() string {
	switch i {
	case CursorLeft:
		return "cursor_left"
	case CursorRight:
		return "cursor_right"
	case CursorUp:
		return "cursor_up"
	case CursorDown:
		return "cursor_down"
	case CursorWordLeft:
		return "cursor_word_left"
	case CursorWordRight:
		return "cursor_word_right"
	case SelectLeft:
		return "select_left"
	case SelectRight:
		return "select_right"
	case SelectUp:
		return "select_up"
	case SelectDown:
		return "select_down"
	case SelectWordLeft:
		return "select_word_left"
	case SelectWordRight:
		return "select_word_right"
	case SelectAll:
		return "select_all"
	case InsertChar:
		return "insert_char"
	case InsertNewline:
		return "insert_newline"
	case InsertTab:
		return "insert_tab"
	case DeleteBackward:
		return "delete_backward"
	case DeleteForward:
		return "delete_forward"
	case Copy:
		return "copy"
	case Cut:
		return "cut"
	case Paste:
		return "paste"
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	case Search:
		return "search"
	case Cancel:
		return "cancel"
	case Quit:
		return "quit"
	case OpenCommandPalette:
		return "open_command_palette"
	default:
		return "unknown"
	}
}

// Action pairs an Intent with the payload InsertChar needs.
type Action struct {
	Intent Intent
	Bytes  []byte
}

// intentNames maps every closed Intent's String() back to the value,
// built once from the canonical set so it can never drift from String.
var intentNames = func() map[string]Intent {
	all := []Intent{
		CursorLeft, CursorRight, CursorUp, CursorDown, CursorWordLeft, CursorWordRight,
		SelectLeft, SelectRight, SelectUp, SelectDown, SelectWordLeft, SelectWordRight, SelectAll,
		InsertChar, InsertNewline, InsertTab,
		DeleteBackward, DeleteForward,
		Copy, Cut, Paste,
		Undo, Redo,
		Search, Cancel, Quit, OpenCommandPalette,
	}
	m := make(map[string]Intent, len(all))
	for _, i := range all {
		m[i.String()] = i
	}
	return m
}()

// IntentFromName resolves the lowercase_snake_case name printed by
// Intent.String back to its Intent, for config-file keymap overrides.
func IntentFromName(name string) (Intent, bool) {
	i, ok := intentNames[name]
	return i, ok
}
