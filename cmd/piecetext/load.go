package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dshills/piecetext/internal/clipboard"
	"github.com/dshills/piecetext/internal/config"
	"github.com/dshills/piecetext/internal/engine/document"
	"github.com/dshills/piecetext/internal/input/keymap"
)

// errQuit signals a normal, user-requested exit from runLoop.
var errQuit = errors.New("piecetext: quit")

// session bundles the document and its outer-ring collaborators for
// one run of the editor: the terminal backend, clipboard, key table,
// and config.
type session struct {
	doc  *document.Document
	path string // bound save path; empty if none
	dir  string // browsing root if the positional arg was a directory

	cfg   *config.Config
	clip  clipboard.Clipboard
	table *keymap.Table
}

// openSession resolves the optional positional path argument per
// spec.md §6: a regular file is loaded and bound for save, a directory
// is bound as a browsing root with an empty document, anything absent
// or nonexistent starts an empty unbound document.
func openSession(path string) (*session, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	s := &session{
		cfg:   cfg,
		clip:  clipboard.NewOS(),
		table: keymap.New(append(keymap.DefaultBindings(), cfg.KeymapOverrides()...)),
	}

	if path == "" {
		s.doc = document.New(cfg.DocumentOptions()...)
		return s, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.doc = document.New(cfg.DocumentOptions()...)
			return s, nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		s.dir = path
		s.doc = document.New(cfg.DocumentOptions()...)
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s.doc = document.Load(data, cfg.DocumentOptions()...)
	s.path = path
	return s, nil
}

// save writes the document's current bytes back to the bound path.
// It is a no-op if no path is bound (unsaved scratch buffer).
func (s *session) save() error {
	if s.path == "" {
		return nil
	}
	if err := os.WriteFile(s.path, s.doc.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

func configPath() string {
	if p := os.Getenv("PIECETEXT_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "piecetext.toml"
	}
	return dir + "/piecetext/piecetext.toml"
}
