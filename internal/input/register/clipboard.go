package register

import "github.com/atotto/clipboard"

// ClipboardProvider gives the + and * registers access to a clipboard.
type ClipboardProvider interface {
	Get() (string, error)
	Set(text string) error
}

// SystemClipboard uses the operating system clipboard.
type SystemClipboard struct{}

// Get implements ClipboardProvider.
func (SystemClipboard) Get() (string, error) {
	return clipboard.ReadAll()
}

// Set implements ClipboardProvider.
func (SystemClipboard) Set(text string) error {
	return clipboard.WriteAll(text)
}

// SystemClipboardAvailable reports whether a system clipboard tool was
// found.
func SystemClipboardAvailable() bool {
	return !clipboard.Unsupported
}

// MemoryClipboard is a process-local clipboard.
type MemoryClipboard struct {
	text string
}

// Get implements ClipboardProvider.
func (c *MemoryClipboard) Get() (string, error) { return c.text, nil }

// Set implements ClipboardProvider.
func (c *MemoryClipboard) Set(text string) error {
	c.text = text
	return nil
}
