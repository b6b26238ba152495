package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
	"github.com/akozyrev/finreport-rag/internal/core/ports"
)

// RerankGate rescores fused candidates with an external cross-encoder and
// produces the single authoritative ordering of the pipeline.
type RerankGate struct {
	scorer ports.Reranker
}

func NewRerankGate(scorer ports.Reranker) *RerankGate {
	return &RerankGate{scorer: scorer}
}

// Rerank attaches one relevance score per candidate, sorts descending and
// truncates to topK. The sort is stable so equal scores keep the fused order.
// Output length never exceeds the input length.
func (g *RerankGate) Rerank(ctx context.Context, query string, candidates []domain.DocumentChunk, topK int) ([]domain.DocumentChunk, error) {
	if len(candidates) == 0 {
		return []domain.DocumentChunk{}, nil
	}

	texts := make([]string, len(candidates))
	for i, chunk := range candidates {
		texts[i] = chunk.Content
	}

	scores, err := g.scorer.Score(ctx, query, texts)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCollaboratorUnavailable, "rerank", err)
	}
	if len(scores) != len(candidates) {
		return nil, domain.WrapError(
			domain.ErrMalformedResponse,
			"rerank",
			fmt.Errorf("got %d scores for %d candidates", len(scores), len(candidates)),
		)
	}

	ranked := make([]domain.DocumentChunk, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		ranked[i].Score = scores[i]
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topK > 0 && topK < len(ranked) {
		ranked = ranked[:topK]
	}
	return ranked, nil
}
