package display

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

const DefaultWidth = 80

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return wordwrap.String(text, DefaultWidth)
}

// Sentence formats one line of event narration: first character
// uppercased, wrapped to DefaultWidth.
func Sentence(text string) string {
	if text == "" {
		return text
	}
	return Wrap(strings.ToUpper(text[:1]) + text[1:])
}
