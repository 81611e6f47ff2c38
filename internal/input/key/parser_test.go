package key

import (
	"errors"
	"testing"
)

func TestParseSingleCharacter(t *testing.T) {
	tests := []struct {
		spec     string
		wantRune rune
		wantMod  Modifier
	}{
		{"a", 'a', ModNone},
		{"A", 'A', ModShift},
		{"1", '1', ModNone},
		{"@", '@', ModNone},
	}

	for _, tt := range tests {
		event, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if event.Key != KeyRune {
			t.Errorf("Parse(%q) key = %v, want KeyRune", tt.spec, event.Key)
		}
		if event.Rune != tt.wantRune {
			t.Errorf("Parse(%q) rune = %q, want %q", tt.spec, event.Rune, tt.wantRune)
		}
		if event.Modifiers != tt.wantMod {
			t.Errorf("Parse(%q) modifiers = %v, want %v", tt.spec, event.Modifiers, tt.wantMod)
		}
	}
}

func TestParseSpecialKeys(t *testing.T) {
	tests := []struct {
		spec    string
		wantKey Key
	}{
		{"Enter", KeyEnter},
		{"enter", KeyEnter},
		{"Escape", KeyEscape},
		{"escape", KeyEscape},
		{"Tab", KeyTab},
		{"Backspace", KeyBackspace},
		{"Space", KeyRune},
		{"Delete", KeyDelete},
		{"Up", KeyUp},
		{"Down", KeyDown},
		{"Left", KeyLeft},
		{"Right", KeyRight},
		{"Home", KeyHome},
		{"End", KeyEnd},
		{"PageUp", KeyPageUp},
		{"PageDown", KeyPageDown},
	}

	for _, tt := range tests {
		event, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if event.Key != tt.wantKey {
			t.Errorf("Parse(%q) key = %v, want %v", tt.spec, event.Key, tt.wantKey)
		}
	}
}

func TestParseModifierStyle(t *testing.T) {
	tests := []struct {
		spec     string
		wantKey  Key
		wantRune rune
		wantMod  Modifier
	}{
		{"Ctrl+s", KeyRune, 's', ModCtrl},
		{"Ctrl+S", KeyRune, 's', ModCtrl}, // Ctrl makes lowercase
		{"Alt+f", KeyRune, 'f', ModAlt},
		{"Ctrl+Alt+x", KeyRune, 'x', ModCtrl | ModAlt},
		{"Ctrl+Shift+p", KeyRune, 'p', ModCtrl | ModShift},
		{"Ctrl+Enter", KeyEnter, 0, ModCtrl},
		{"Alt+Left", KeyLeft, 0, ModAlt},
	}

	for _, tt := range tests {
		event, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if event.Key != tt.wantKey {
			t.Errorf("Parse(%q) key = %v, want %v", tt.spec, event.Key, tt.wantKey)
		}
		if tt.wantKey == KeyRune && event.Rune != tt.wantRune {
			t.Errorf("Parse(%q) rune = %q, want %q", tt.spec, event.Rune, tt.wantRune)
		}
		if event.Modifiers != tt.wantMod {
			t.Errorf("Parse(%q) modifiers = %v, want %v", tt.spec, event.Modifiers, tt.wantMod)
		}
	}
}

func TestParseVimStyle(t *testing.T) {
	tests := []struct {
		spec     string
		wantKey  Key
		wantRune rune
		wantMod  Modifier
	}{
		{"<C-s>", KeyRune, 's', ModCtrl},
		{"<A-f>", KeyRune, 'f', ModAlt},
		{"<C-A-x>", KeyRune, 'x', ModCtrl | ModAlt},
		{"<C-S-p>", KeyRune, 'p', ModCtrl | ModShift},
		{"<M-a>", KeyRune, 'a', ModMeta},
		{"<D-s>", KeyRune, 's', ModMeta}, // D is Vim's meta/command
		{"<CR>", KeyEnter, 0, ModNone},
		{"<Esc>", KeyEscape, 0, ModNone},
		{"<Tab>", KeyTab, 0, ModNone},
		{"<BS>", KeyBackspace, 0, ModNone},
		{"<Del>", KeyDelete, 0, ModNone},
		{"<Space>", KeyRune, ' ', ModNone},
		{"<Up>", KeyUp, 0, ModNone},
		{"<Down>", KeyDown, 0, ModNone},
		{"<Left>", KeyLeft, 0, ModNone},
		{"<Right>", KeyRight, 0, ModNone},
		{"<Home>", KeyHome, 0, ModNone},
		{"<End>", KeyEnd, 0, ModNone},
		{"<PageUp>", KeyPageUp, 0, ModNone},
		{"<PageDown>", KeyPageDown, 0, ModNone},
		{"<C-CR>", KeyEnter, 0, ModCtrl},
		{"<C-Tab>", KeyTab, 0, ModCtrl},
	}

	for _, tt := range tests {
		event, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if event.Key != tt.wantKey {
			t.Errorf("Parse(%q) key = %v, want %v", tt.spec, event.Key, tt.wantKey)
		}
		if tt.wantKey == KeyRune && event.Rune != tt.wantRune {
			t.Errorf("Parse(%q) rune = %q, want %q", tt.spec, event.Rune, tt.wantRune)
		}
		if event.Modifiers != tt.wantMod {
			t.Errorf("Parse(%q) modifiers = %v, want %v", tt.spec, event.Modifiers, tt.wantMod)
		}
	}
}

func TestParseVimAliases(t *testing.T) {
	// Test Vim-specific aliases
	tests := []struct {
		spec     string
		wantKey  Key
		wantRune rune
	}{
		{"<Return>", KeyEnter, 0},
		{"<Enter>", KeyEnter, 0},
		{"<lt>", KeyRune, '<'},
		{"<gt>", KeyRune, '>'},
		{"<Bar>", KeyRune, '|'},
		{"<Bslash>", KeyRune, '\\'},
	}

	for _, tt := range tests {
		event, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if event.Key != tt.wantKey {
			t.Errorf("Parse(%q) key = %v, want %v", tt.spec, event.Key, tt.wantKey)
		}
		if tt.wantKey == KeyRune && event.Rune != tt.wantRune {
			t.Errorf("Parse(%q) rune = %q, want %q", tt.spec, event.Rune, tt.wantRune)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr error
	}{
		{"", ErrEmptySpec},
		{"  ", ErrEmptySpec},
		{"<>", ErrInvalidSpec},
		{"<C->", ErrInvalidSpec},
		{"<X-a>", ErrInvalidSpec}, // Unknown modifier
		{"Ctrl+", ErrInvalidSpec},
		{"Unknown+a", ErrInvalidSpec},
		{"unknownkey", ErrInvalidSpec},
	}

	for _, tt := range tests {
		_, err := Parse(tt.spec)
		if err == nil {
			t.Errorf("Parse(%q) expected error", tt.spec)
			continue
		}
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.spec, err, tt.wantErr)
		}
	}
}
