package usecase

import (
	"strings"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
)

// BuildContext concatenates the content of the top maxChunks candidates, in
// their given order, separated by a blank line. Truncation is by chunk count
// only; there is no token budget.
func BuildContext(ranked []domain.DocumentChunk, maxChunks int) string {
	if maxChunks <= 0 || maxChunks > len(ranked) {
		maxChunks = len(ranked)
	}

	parts := make([]string, 0, maxChunks)
	for _, chunk := range ranked[:maxChunks] {
		parts = append(parts, chunk.Content)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}
