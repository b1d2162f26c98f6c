package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	misspelled = " iz "
	corrected  = " is "
)

// NormalizeText lowercases text and fixes the standalone "iz" misspelling.
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	// ReplaceAll does not see overlapping tokens like " iz iz ", loop until none left
	for strings.Contains(text, misspelled) {
		text = strings.ReplaceAll(text, misspelled, corrected)
	}
	return text
}

// CapitalizeFirstWord capitalizes every sentence fragment of text and joins
// fragments back with a single space.
func CapitalizeFirstWord(text string) string {
	fragments := splitSentences(text)
	for i, f := range fragments {
		fragments[i] = capitalize(f)
	}
	return strings.Join(fragments, " ")
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
// Words are separated by spaces or hyphens.
func TitleCase(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	start := true
	for _, r := range strings.TrimSpace(text) {
		switch {
		case r == ' ' || r == '-':
			start = true
			b.WriteRune(r)
		case start:
			b.WriteRune(unicode.ToUpper(r))
			start = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func isBoundary(r rune) bool {
	switch r {
	case '.', '?', '!', ':', '\n':
		return true
	}
	return false
}

// splitSentences cuts text after a boundary mark that is followed by
// whitespace, or after a newline. The mark stays in its fragment, the
// whitespace after it is dropped.
func splitSentences(text string) []string {
	var fragments []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if !isBoundary(r) {
			continue
		}
		end := i
		for end < len(text) {
			next, n := utf8.DecodeRuneInString(text[end:])
			if !unicode.IsSpace(next) {
				break
			}
			end += n
		}
		if end == i && r != '\n' {
			continue
		}
		fragments = append(fragments, text[start:i])
		start = end
		i = end
	}
	return append(fragments, text[start:])
}

func capitalize(fragment string) string {
	if fragment == "" {
		return fragment
	}
	first, size := utf8.DecodeRuneInString(fragment)
	return string(unicode.ToUpper(first)) + strings.ToLower(fragment[size:])
}
