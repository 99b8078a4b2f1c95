package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxSnippetRunes = 500

// CleanSnippet strips markup that providers leave in result excerpts,
// collapses whitespace and caps the length at a word boundary.
func CleanSnippet(raw string) string {
	text := raw
	if strings.ContainsAny(raw, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
			doc.Find("script, style").Remove()
			text = doc.Text()
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	return truncateRunes(text, maxSnippetRunes)
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > len(cut)/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}
