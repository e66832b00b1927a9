package semdict

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeWord performs Unicode normalization, trims whitespace and
// lowercases the token. Dictionary keys are always in this form.
func NormalizeWord(word string) string {
	normed := norm.NFKC.String(word)
	normed = strings.TrimSpace(normed)
	normed = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return strings.ToLower(normed)
}

// isAlphabetic reports whether the token consists solely of letters.
func isAlphabetic(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
