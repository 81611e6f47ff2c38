package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/piecetext/internal/dispatcher"
	"github.com/dshills/piecetext/internal/engine/document"
	"github.com/dshills/piecetext/internal/input/key"
)

func TestDefaultMatchesDocumentDefaults(t *testing.T) {
	cfg := Default()
	if got := time.Duration(cfg.Editor.CoalesceWindowMS) * time.Millisecond; got != document.DefaultCoalesceWindow {
		t.Fatalf("CoalesceWindowMS -> %v, want %v", got, document.DefaultCoalesceWindow)
	}
	if cfg.Editor.UndoCap != document.DefaultUndoCap {
		t.Fatalf("UndoCap = %d, want %d", cfg.Editor.UndoCap, document.DefaultUndoCap)
	}
	if cfg.Editor.TabSpaces != document.DefaultTabSpaces {
		t.Fatalf("TabSpaces = %d, want %d", cfg.Editor.TabSpaces, document.DefaultTabSpaces)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load() err = %v, want nil", err)
	}
	if cfg.Editor.TabSpaces != document.DefaultTabSpaces {
		t.Fatalf("TabSpaces = %d, want default %d", cfg.Editor.TabSpaces, document.DefaultTabSpaces)
	}
}

func TestParsePartialOverridesOnlyGivenFields(t *testing.T) {
	cfg, err := Parse([]byte(`
[editor]
tab_spaces = 4
`))
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}
	if cfg.Editor.TabSpaces != 4 {
		t.Fatalf("TabSpaces = %d, want 4", cfg.Editor.TabSpaces)
	}
	if cfg.Editor.UndoCap != document.DefaultUndoCap {
		t.Fatalf("UndoCap = %d, want unchanged default %d", cfg.Editor.UndoCap, document.DefaultUndoCap)
	}
}

func TestParseInvalidTOMLErrors(t *testing.T) {
	if _, err := Parse([]byte("not = [valid")); err == nil {
		t.Fatal("Parse() err = nil, want error for malformed TOML")
	}
}

func TestDocumentOptionsAppliesToNewDocument(t *testing.T) {
	cfg, err := Parse([]byte(`
[editor]
tab_spaces = 4
`))
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}
	doc := document.New(cfg.DocumentOptions()...)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	doc.InsertTab(now)
	if got := string(doc.Bytes()); got != "    " {
		t.Fatalf("Bytes() = %q, want 4 spaces", got)
	}
}

func TestKeymapOverridesParsesValidEntries(t *testing.T) {
	cfg, err := Parse([]byte(`
[keymap]
"Ctrl+S" = "quit"
`))
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}
	bindings := cfg.KeymapOverrides()
	if len(bindings) != 1 {
		t.Fatalf("len(bindings) = %d, want 1", len(bindings))
	}
	b := bindings[0]
	if b.Key != key.KeyRune || b.Rune != 's' || b.Mods != key.ModCtrl || b.Intent != dispatcher.Quit {
		t.Fatalf("binding = %+v, want Ctrl+s -> Quit", b)
	}
}

func TestKeymapOverridesSkipsUnknownIntent(t *testing.T) {
	cfg, err := Parse([]byte(`
[keymap]
"Ctrl+S" = "not_a_real_intent"
`))
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}
	if bindings := cfg.KeymapOverrides(); len(bindings) != 0 {
		t.Fatalf("len(bindings) = %d, want 0 for unknown intent", len(bindings))
	}
}

func TestKeymapOverridesStrictReportsUnknownIntent(t *testing.T) {
	cfg, err := Parse([]byte(`
[keymap]
"Ctrl+S" = "not_a_real_intent"
`))
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}
	if _, err := cfg.KeymapOverridesStrict(); err == nil {
		t.Fatal("KeymapOverridesStrict() err = nil, want error")
	}
}

func TestWatchEmitsReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "piecetext.toml")
	if err := os.WriteFile(path, []byte("[editor]\ntab_spaces = 2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() err = %v", err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch() err = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[editor]\ntab_spaces = 4\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() err = %v", err)
	}

	select {
	case reload := <-w.Reloads():
		if reload.Err != nil {
			t.Fatalf("reload.Err = %v", reload.Err)
		}
		if reload.Config.Editor.TabSpaces != 4 {
			t.Fatalf("TabSpaces = %d, want 4", reload.Config.Editor.TabSpaces)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
