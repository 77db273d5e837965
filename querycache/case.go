package querycache

import (
	"strings"
	"unicode"
)

// toSnake splits s into words at case changes, digit runs and punctuation,
// and joins them lowercased with underscores. "HTTPHandler" becomes
// "http_handler" and "*catalog.Item" becomes "catalog_item".
func toSnake(s string) string {
	runes := []rune(s)
	words := make([]string, 0, 4)
	word := make([]rune, 0, len(runes))

	flush := func() {
		if len(word) > 0 {
			words = append(words, strings.ToLower(string(word)))
			word = word[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}

		if n := len(word); n > 0 {
			prev := word[n-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			switch {
			case unicode.IsUpper(r) && !unicode.IsUpper(prev):
				flush()
			case unicode.IsUpper(r) && nextLower:
				flush()
			case unicode.IsDigit(r) && !unicode.IsDigit(prev):
				flush()
			}
		}
		word = append(word, r)
	}
	flush()

	return strings.Join(words, "_")
}
