package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/piecetext/internal/engine/document"
	"github.com/dshills/piecetext/internal/input/keymap"
)

// Config is the decoded contents of piecetext.toml plus the defaults
// for anything the file omits.
type Config struct {
	Editor editorSection    `toml:"editor"`
	Keymap map[string]string `toml:"keymap"`
}

type editorSection struct {
	CoalesceWindowMS int `toml:"coalesce_window_ms"`
	UndoCap          int `toml:"undo_cap"`
	TabSpaces        int `toml:"tab_spaces"`
}

// Default returns a Config holding document's built-in defaults and no
// keymap overrides.
func Default() *Config {
	return &Config{
		Editor: editorSection{
			CoalesceWindowMS: int(document.DefaultCoalesceWindow / time.Millisecond),
			UndoCap:          document.DefaultUndoCap,
			TabSpaces:        document.DefaultTabSpaces,
		},
	}
}

// Load reads and decodes the TOML file at path. A missing file is not
// an error: Load returns Default() instead, since the editor runs fine
// with no config file present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML bytes over the defaults, so a file that sets only
// one field leaves the rest at their document package defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing TOML: %w", err)
	}
	return cfg, nil
}

// DocumentOptions turns the editor section into document.Option values.
func (c *Config) DocumentOptions() []document.Option {
	return []document.Option{
		document.WithCoalesceWindow(time.Duration(c.Editor.CoalesceWindowMS) * time.Millisecond),
		document.WithUndoCap(c.Editor.UndoCap),
		document.WithTabSpaces(c.Editor.TabSpaces),
	}
}

// KeymapOverrides parses the [keymap] table's "<key spec>" = "intent_name"
// entries into Binding values for keymap.ModeText. Entries with an
// unparseable key spec or unrecognized intent name are skipped; callers
// that need to surface that should call KeymapOverridesStrict instead.
func (c *Config) KeymapOverrides() []keymap.Binding {
	bindings, _ := c.keymapOverrides(false)
	return bindings
}

// KeymapOverridesStrict is KeymapOverrides but returns an error
// describing the first bad entry instead of silently skipping it.
func (c *Config) KeymapOverridesStrict() ([]keymap.Binding, error) {
	return c.keymapOverrides(true)
}

func (c *Config) keymapOverrides(strict bool) ([]keymap.Binding, error) {
	bindings := make([]keymap.Binding, 0, len(c.Keymap))
	for spec, name := range c.Keymap {
		b, err := parseOverride(spec, name)
		if err != nil {
			if strict {
				return nil, err
			}
			continue
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}
