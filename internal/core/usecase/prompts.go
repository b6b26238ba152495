package usecase

import (
	"fmt"
	"strings"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
)

func buildRouterPrompt(query string) string {
	return fmt.Sprintf(`Decide whether the user query requires retrieving information from a financial document dataset.

Return ONLY one word:
- "rag" - if the answer depends on financial reports (Amazon, Apple, Microsoft, Meta, NVIDIA annual reports)
- "direct" - if the query can be answered directly without retrieval.

User query: %s
`, query)
}

func buildGroundedAnswerPrompt(contextText, query string) string {
	return fmt.Sprintf(`You are a financial research assistant. Answer the question using ONLY the context below.
If the context does not contain the answer, say you do not know.

Context:
%s

Question: %s
`, contextText, query)
}

func buildChatPrompt(history []domain.Turn, query string) string {
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, text))
	}
	if len(lines) == 0 {
		lines = append(lines, "(no prior turns)")
	}

	return fmt.Sprintf(`You are a helpful financial assistant. Continue the conversation naturally.

Conversation so far:
%s

user: %s
assistant:`, strings.Join(lines, "\n"), query)
}
