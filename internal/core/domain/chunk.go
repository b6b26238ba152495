package domain

import (
	"fmt"
	"strings"
)

// dedupPrefixRunes is the number of leading content characters that take part
// in a chunk's identity. Long enough to tell sibling chunks apart, short
// enough to survive trailing-whitespace differences between backends.
const dedupPrefixRunes = 50

// DocumentChunk is one retrieved fragment of a source document. It is
// immutable once produced by retrieval; Score is the only field assigned
// later, by the rerank gate.
type DocumentChunk struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Company string  `json:"company,omitempty"`
	Year    int     `json:"year,omitempty"`
	DocType string  `json:"doctype,omitempty"`
	Page    int     `json:"page,omitempty"`
	Score   float64 `json:"relevance_score,omitempty"`
}

// IdentityKey is the stable dedup identity of a chunk: the same fragment
// retrieved by both the lexical and the semantic branch maps to one key.
func (c DocumentChunk) IdentityKey() string {
	prefix := c.Content
	if runes := []rune(prefix); len(runes) > dedupPrefixRunes {
		prefix = string(runes[:dedupPrefixRunes])
	}
	return fmt.Sprintf("%s|%d|%s", strings.TrimSpace(c.Source), c.Page, prefix)
}
