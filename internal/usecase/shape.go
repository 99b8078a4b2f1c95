package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var sentenceEnds = []string{".", "!", "?", "।"}

// Shape trims the answer, terminates it with a period when it lacks
// sentence-ending punctuation and upper-cases the first rune.
func Shape(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	terminated := false
	for _, end := range sentenceEnds {
		if strings.HasSuffix(text, end) {
			terminated = true
			break
		}
	}
	if !terminated {
		text += "."
	}

	first, size := utf8.DecodeRuneInString(text)
	if upper := unicode.ToUpper(first); upper != first {
		text = string(upper) + text[size:]
	}
	return text
}
