package extract

import (
	"strings"
	"unicode/utf8"
)

// Stats holds basic counts about a document's text.
type Stats struct {
	Words      int
	Characters int
	Paragraphs int
}

// ComputeStats counts whitespace-separated words, characters (runes) and
// non-blank paragraphs separated by an empty line.
func ComputeStats(text string) Stats {
	paragraphs := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}
	return Stats{
		Words:      len(strings.Fields(text)),
		Characters: utf8.RuneCountInString(text),
		Paragraphs: paragraphs,
	}
}
