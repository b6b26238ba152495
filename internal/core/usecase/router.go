package usecase

import (
	"context"
	"strings"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
	"github.com/akozyrev/finreport-rag/internal/core/ports"
)

// Router asks the generation collaborator for a single classification token
// and parses it fail-open: only a reply containing "rag" routes to retrieval,
// everything else, including a failed call, answers directly. A broken
// classifier must never block the user from getting some answer.
type Router struct {
	generator ports.TextGenerator
}

func NewRouter(generator ports.TextGenerator) *Router {
	return &Router{generator: generator}
}

func (r *Router) Route(ctx context.Context, query string) domain.RouteDecision {
	raw, err := r.generator.Generate(ctx, buildRouterPrompt(query))
	if err != nil {
		return domain.RouteDirect
	}
	return parseRouteDecision(raw)
}

func parseRouteDecision(raw string) domain.RouteDecision {
	if strings.Contains(strings.ToLower(strings.TrimSpace(raw)), "rag") {
		return domain.RouteRAG
	}
	return domain.RouteDirect
}
