// Package config loads piecetext.toml, watches it for changes, and
// turns the result into document.Option values and keymap.Binding
// overrides the frame loop applies at startup and on reload.
//
// # Usage
//
//	cfg, err := config.Load(path)
//	doc := document.New(cfg.DocumentOptions()...)
//	table := keymap.New(append(keymap.DefaultBindings(), cfg.KeymapOverrides()...))
package config
