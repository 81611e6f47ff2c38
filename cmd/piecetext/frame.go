package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/piecetext/internal/config"
	"github.com/dshills/piecetext/internal/dispatcher"
	"github.com/dshills/piecetext/internal/input/keymap"
	"github.com/dshills/piecetext/internal/renderer"
)

// runLoop owns the terminal backend and is the only place in the
// module that calls time.Now: the document and dispatcher below it
// stay deterministic and take `now` as a parameter.
func (s *session) runLoop() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()

	watcher, err := config.Watch(configPath())
	var reloads <-chan config.Reload
	if err == nil {
		reloads = watcher.Reloads()
		defer watcher.Close()
	}

	src := renderer.NewAdapter(s.doc)

	for {
		draw(screen, src)

		select {
		case reload, open := <-reloads:
			if !open {
				reloads = nil
				continue
			}
			if reload.Err == nil {
				s.cfg = reload.Config
				s.table = keymap.New(append(keymap.DefaultBindings(), s.cfg.KeymapOverrides()...))
			}
			continue
		default:
		}

		switch tev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()

		case *tcell.EventKey:
			action, ok := s.table.Lookup(keymap.ModeText, translateKey(tev))
			if !ok {
				continue
			}
			if action.Intent == dispatcher.Quit {
				if err := s.save(); err != nil {
					return err
				}
				return errQuit
			}
			dispatcher.Dispatch(s.doc, action, time.Now(), s.clip)
		}
	}
}
