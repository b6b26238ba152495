package usecase

import (
	"context"
	"sync"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
	"github.com/akozyrev/finreport-rag/internal/core/ports"
)

// RetrievalResult is a fused, deduplicated candidate set plus the per-branch
// counts recorded in pipeline metadata.
type RetrievalResult struct {
	Chunks        []domain.DocumentChunk
	LexicalCount  int
	SemanticCount int
}

// HybridRetriever issues the lexical and semantic sub-queries concurrently
// and fuses the results lexical-first. Cross-signal score reconciliation is
// deliberately left to the rerank gate; fusion only decides membership and
// first-seen order.
type HybridRetriever struct {
	embedder ports.Embedder
	lexical  ports.LexicalSearcher
	semantic ports.VectorSearcher
}

func NewHybridRetriever(
	embedder ports.Embedder,
	lexical ports.LexicalSearcher,
	semantic ports.VectorSearcher,
) *HybridRetriever {
	return &HybridRetriever{
		embedder: embedder,
		lexical:  lexical,
		semantic: semantic,
	}
}

// Retrieve runs both branches and fuses. Either branch returning fewer than
// requested chunks is normal; an empty corpus yields an empty candidate set.
// A failed branch fails the whole retrieval: partial retrieval would silently
// bias answers toward one signal.
func (r *HybridRetriever) Retrieve(ctx context.Context, query string, kLexical, kSemantic int) (RetrievalResult, error) {
	var (
		wg            sync.WaitGroup
		lexicalChunks []domain.DocumentChunk
		lexicalErr    error
		vectorChunks  []domain.DocumentChunk
		vectorErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		chunks, err := r.lexical.Search(ctx, query, kLexical)
		if err != nil {
			lexicalErr = domain.WrapError(domain.ErrCollaboratorUnavailable, "lexical search", err)
			return
		}
		lexicalChunks = chunks
	}()
	go func() {
		defer wg.Done()
		vector, err := r.embedder.EmbedQuery(ctx, query)
		if err != nil {
			vectorErr = domain.WrapError(domain.ErrCollaboratorUnavailable, "embed query", err)
			return
		}
		chunks, err := r.semantic.Search(ctx, vector, kSemantic)
		if err != nil {
			vectorErr = domain.WrapError(domain.ErrCollaboratorUnavailable, "vector search", err)
			return
		}
		vectorChunks = chunks
	}()
	wg.Wait()

	if lexicalErr != nil {
		return RetrievalResult{}, lexicalErr
	}
	if vectorErr != nil {
		return RetrievalResult{}, vectorErr
	}

	return RetrievalResult{
		Chunks:        fuseCandidates(lexicalChunks, vectorChunks),
		LexicalCount:  len(lexicalChunks),
		SemanticCount: len(vectorChunks),
	}, nil
}

// fuseCandidates concatenates lexical-then-semantic and deduplicates by the
// chunk identity key, keeping first-seen order. A chunk found by both signals
// retains its lexical-branch position.
func fuseCandidates(lexical, semantic []domain.DocumentChunk) []domain.DocumentChunk {
	seen := make(map[string]struct{}, len(lexical)+len(semantic))
	out := make([]domain.DocumentChunk, 0, len(lexical)+len(semantic))

	for _, list := range [][]domain.DocumentChunk{lexical, semantic} {
		for _, chunk := range list {
			key := chunk.IdentityKey()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, chunk)
		}
	}
	return out
}
