package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a single config file and emits a Reload each time it
// changes on disk, carrying the freshly parsed Config.
type Watcher struct {
	fsw  *fsnotify.Watcher
	path string

	reloads chan Reload

	mu     sync.Mutex
	closed bool
}

// Reload is one change notification from Watch.
type Reload struct {
	Config *Config
	Err    error
}

// Watch starts watching path for writes and emits a Reload on every one
// that parses successfully (or fails to parse, with Err set). The
// caller drains Reloads() once per frame and closes with Close.
func Watch(path string) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: creating watcher: %w", err)
	}

	// fsnotify needs the containing directory watched, since editors
	// commonly replace a file (write-rename) rather than write in place.
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("config: watching %s: %w", filepath.Dir(absPath), err)
	}

	w := &Watcher{
		fsw:     fsw,
		path:    absPath,
		reloads: make(chan Reload, 8),
	}
	go w.run()
	return w, nil
}

// Reloads returns the channel of config reloads.
func (w *Watcher) Reloads() <-chan Reload {
	return w.reloads
}

// Close stops the watcher and releases its fsnotify handle.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *Watcher) run() {
	defer close(w.reloads)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(w.path)
			w.reloads <- Reload{Config: cfg, Err: err}

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}
