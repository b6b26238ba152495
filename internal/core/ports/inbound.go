package ports

import (
	"context"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
)

// AnswerService is the inbound contract of the query pipeline: one call per
// user query, returning the final answer plus the metadata audit trail.
type AnswerService interface {
	Answer(ctx context.Context, query, sessionID string) (*domain.PipelineResult, error)
}
