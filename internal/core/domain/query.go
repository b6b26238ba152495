package domain

import (
	"strings"
	"unicode"
)

// NormalizeQuery derives the canonical identity of a user query: lower-cased,
// punctuation stripped, whitespace collapsed to single spaces, surrounding
// whitespace removed. The cache and the dedup layer both key on this value,
// so it must stay pure and idempotent.
func NormalizeQuery(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for _, r := range query {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
