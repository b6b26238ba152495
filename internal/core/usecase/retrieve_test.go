package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
)

type embedderFake struct {
	err error
}

func (f *embedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type lexicalFake struct {
	chunks []domain.DocumentChunk
	err    error
	k      int
}

func (f *lexicalFake) Search(_ context.Context, _ string, k int) ([]domain.DocumentChunk, error) {
	f.k = k
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

type vectorFake struct {
	chunks []domain.DocumentChunk
	err    error
	k      int
}

func (f *vectorFake) Search(_ context.Context, _ []float32, k int) ([]domain.DocumentChunk, error) {
	f.k = k
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

func chunk(content string) domain.DocumentChunk {
	return domain.DocumentChunk{Content: content, Source: "doc.pdf", Page: 1}
}

func TestRetrieveFusesLexicalFirstAndDeduplicates(t *testing.T) {
	retriever := NewHybridRetriever(
		&embedderFake{},
		&lexicalFake{chunks: []domain.DocumentChunk{chunk("A"), chunk("B")}},
		&vectorFake{chunks: []domain.DocumentChunk{chunk("B"), chunk("C")}},
	)

	result, err := retriever.Retrieve(context.Background(), "q", 10, 10)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	got := make([]string, 0, len(result.Chunks))
	for _, c := range result.Chunks {
		got = append(got, c.Content)
	}
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("expected %d fused chunks, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}

	if result.LexicalCount != 2 || result.SemanticCount != 2 {
		t.Fatalf("expected branch counts 2/2, got %d/%d", result.LexicalCount, result.SemanticCount)
	}
}

func TestRetrievePassesBranchLimits(t *testing.T) {
	lexical := &lexicalFake{}
	vector := &vectorFake{}
	retriever := NewHybridRetriever(&embedderFake{}, lexical, vector)

	if _, err := retriever.Retrieve(context.Background(), "q", 7, 3); err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if lexical.k != 7 {
		t.Fatalf("expected lexical k=7, got %d", lexical.k)
	}
	if vector.k != 3 {
		t.Fatalf("expected semantic k=3, got %d", vector.k)
	}
}

func TestRetrieveEmptyBranchesYieldEmptySet(t *testing.T) {
	retriever := NewHybridRetriever(&embedderFake{}, &lexicalFake{}, &vectorFake{})

	result, err := retriever.Retrieve(context.Background(), "q", 10, 10)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(result.Chunks) != 0 {
		t.Fatalf("expected empty candidate set, got %d chunks", len(result.Chunks))
	}
}

func TestRetrieveLexicalFailureFailsWhole(t *testing.T) {
	retriever := NewHybridRetriever(
		&embedderFake{},
		&lexicalFake{err: errors.New("index down")},
		&vectorFake{chunks: []domain.DocumentChunk{chunk("C")}},
	)

	_, err := retriever.Retrieve(context.Background(), "q", 10, 10)
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.ErrCollaboratorUnavailable) {
		t.Fatalf("expected collaborator unavailable kind, got %v", err)
	}
}

func TestRetrieveEmbedFailureFailsWhole(t *testing.T) {
	retriever := NewHybridRetriever(
		&embedderFake{err: errors.New("embedder down")},
		&lexicalFake{chunks: []domain.DocumentChunk{chunk("A")}},
		&vectorFake{},
	)

	_, err := retriever.Retrieve(context.Background(), "q", 10, 10)
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.ErrCollaboratorUnavailable) {
		t.Fatalf("expected collaborator unavailable kind, got %v", err)
	}
}

func TestRetrieveVectorFailureFailsWhole(t *testing.T) {
	retriever := NewHybridRetriever(
		&embedderFake{},
		&lexicalFake{},
		&vectorFake{err: errors.New("qdrant down")},
	)

	if _, err := retriever.Retrieve(context.Background(), "q", 10, 10); err == nil {
		t.Fatal("expected error")
	}
}
