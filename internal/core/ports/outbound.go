package ports

import (
	"context"
	"time"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
)

// TextGenerator maps prompt text to generated text. Used for grounded answer
// generation, memory-aware direct answers, and the router's classification
// prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder maps query text to a fixed-length vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// LexicalSearcher runs keyword retrieval ranked by the backend's native
// scoring. Scores are not comparable with the semantic branch.
type LexicalSearcher interface {
	Search(ctx context.Context, query string, k int) ([]domain.DocumentChunk, error)
}

// VectorSearcher runs nearest-neighbour retrieval over embedding vectors.
type VectorSearcher interface {
	Search(ctx context.Context, vector []float32, k int) ([]domain.DocumentChunk, error)
}

// Reranker scores each (query, text) pair independently with a cross-encoder
// model. The result carries one score per input text, in input order.
type Reranker interface {
	Score(ctx context.Context, query string, texts []string) ([]float64, error)
}

// Guardrail screens content at the pipeline boundary. ScreenOutbound is
// non-blocking: it always returns an answer, possibly redacted.
type Guardrail interface {
	CheckInbound(ctx context.Context, text string) (domain.GuardrailVerdict, error)
	ScreenOutbound(ctx context.Context, text string) (string, error)
}

// AnswerCache is the cache-aside answer store, keyed on the normalized query.
// A connectivity failure is an error the orchestrator degrades to a miss;
// failures are never cached.
type AnswerCache interface {
	Get(ctx context.Context, query string) (string, bool, error)
	Set(ctx context.Context, query, answer string, ttl time.Duration) error
}

// SessionStore is the ordered, per-session transcript with store-level
// expiry. Append failures degrade to a silent no-op at the call site.
type SessionStore interface {
	Append(ctx context.Context, sessionID, role, text string) error
	History(ctx context.Context, sessionID string) ([]domain.Turn, error)
}

// AuditQueue publishes and consumes per-request audit events.
type AuditQueue interface {
	PublishQueryAnswered(ctx context.Context, record domain.QueryAuditRecord) error
	SubscribeQueryAnswered(ctx context.Context, handler func(context.Context, domain.QueryAuditRecord) error) error
}

// AuditStore persists audit records durably (worker side).
type AuditStore interface {
	Insert(ctx context.Context, record domain.QueryAuditRecord) error
}
