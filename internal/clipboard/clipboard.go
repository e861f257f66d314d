package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

var ErrEmptyText = errors.New("nothing to copy: text is empty")

// System is the OS clipboard.
type System struct{}

// ReadAll returns the clipboard text.
func (System) ReadAll() (string, error) {
	return clipboard.ReadAll()
}

// WriteAll puts text on the clipboard. Empty text is refused.
func (System) WriteAll(text string) error {
	if text == "" {
		return ErrEmptyText
	}
	return clipboard.WriteAll(text)
}

// Equals reports whether the clipboard currently holds exactly text.
// A read error counts as "not equal".
func (s System) Equals(text string) bool {
	current, err := s.ReadAll()
	if err != nil {
		return false
	}
	return current == text
}

// Available reports whether a clipboard backend exists (xclip, pbcopy...).
func Available() bool {
	return !clipboard.Unsupported
}
