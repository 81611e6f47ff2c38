package clipboard

import "github.com/atotto/clipboard"

// OS backs Clipboard with the real system clipboard (xclip/xsel on
// Linux, pbcopy/pbpaste on macOS, clip.exe on Windows). It is the
// implementation the CLI wires up; the engine itself never imports it.
type OS struct{}

// NewOS creates an OS-backed clipboard.
func NewOS() *OS {
	return &OS{}
}

// GetText implements Clipboard. A read error (no clipboard utility
// installed, headless session, ...) is treated the same as an empty
// clipboard: ok is false.
func (OS) GetText() ([]byte, bool) {
	text, err := clipboard.ReadAll()
	if err != nil || text == "" {
		return nil, false
	}
	return []byte(text), true
}

// SetText implements Clipboard. A write error is swallowed: the
// clipboard is a best-effort shared resource, never a source of fatal
// failure for the editor.
func (OS) SetText(text []byte) {
	_ = clipboard.WriteAll(string(text))
}
