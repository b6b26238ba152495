package usecase

import (
	"testing"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
)

func TestBuildContextJoinsTopChunks(t *testing.T) {
	ranked := []domain.DocumentChunk{chunk("one"), chunk("two"), chunk("three")}

	got := BuildContext(ranked, 2)
	want := "one\n\ntwo"
	if got != want {
		t.Fatalf("BuildContext() = %q, want %q", got, want)
	}
}

func TestBuildContextFewerChunksThanLimit(t *testing.T) {
	ranked := []domain.DocumentChunk{chunk("only")}

	if got := BuildContext(ranked, 6); got != "only" {
		t.Fatalf("BuildContext() = %q, want %q", got, "only")
	}
}

func TestBuildContextZeroLimitTakesAll(t *testing.T) {
	ranked := []domain.DocumentChunk{chunk("a"), chunk("b")}

	if got := BuildContext(ranked, 0); got != "a\n\nb" {
		t.Fatalf("BuildContext() = %q", got)
	}
}

func TestBuildContextEmptyInput(t *testing.T) {
	if got := BuildContext(nil, 6); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}

func TestBuildContextTrimsSurroundingWhitespace(t *testing.T) {
	ranked := []domain.DocumentChunk{{Content: "  padded  "}}

	if got := BuildContext(ranked, 1); got != "padded" {
		t.Fatalf("BuildContext() = %q", got)
	}
}
