package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
	"github.com/akozyrev/finreport-rag/internal/core/ports"
)

// PipelineParams are the tuning knobs of one orchestrator instance.
type PipelineParams struct {
	LexicalK         int
	SemanticK        int
	RerankTopK       int
	MaxContextChunks int
	CacheTTL         time.Duration
}

// Orchestrator composes guardrail, router, cache, hybrid retrieval, rerank,
// generation and session memory into the end-to-end request flow:
//
//	inbound check -> route -> direct answer | cache -> retrieve -> rerank ->
//	assemble -> generate -> outbound check -> memory write
//
// Cache and session store failures degrade (miss / no-op append); retrieval,
// rerank, generation and guardrail failures surface as typed errors.
type Orchestrator struct {
	guardrail ports.Guardrail
	router    *Router
	retriever *HybridRetriever
	reranker  *RerankGate
	generator ports.TextGenerator
	cache     ports.AnswerCache
	sessions  ports.SessionStore
	audit     ports.AuditQueue
	params    PipelineParams
}

func NewOrchestrator(
	guardrail ports.Guardrail,
	router *Router,
	retriever *HybridRetriever,
	reranker *RerankGate,
	generator ports.TextGenerator,
	cache ports.AnswerCache,
	sessions ports.SessionStore,
	audit ports.AuditQueue,
	params PipelineParams,
) *Orchestrator {
	if params.LexicalK <= 0 {
		params.LexicalK = 10
	}
	if params.SemanticK <= 0 {
		params.SemanticK = 10
	}
	if params.RerankTopK <= 0 {
		params.RerankTopK = 10
	}
	if params.MaxContextChunks <= 0 {
		params.MaxContextChunks = 6
	}
	if params.CacheTTL <= 0 {
		params.CacheTTL = 24 * time.Hour
	}

	return &Orchestrator{
		guardrail: guardrail,
		router:    router,
		retriever: retriever,
		reranker:  reranker,
		generator: generator,
		cache:     cache,
		sessions:  sessions,
		audit:     audit,
		params:    params,
	}
}

func (o *Orchestrator) Answer(ctx context.Context, query, sessionID string) (*domain.PipelineResult, error) {
	meta := domain.NewPipelineMetadata()

	verdict, err := o.guardrail.CheckInbound(ctx, query)
	if err != nil {
		meta.Record(domain.MetaFailedStage, "guardrail_in")
		return resultWith(meta), domain.WrapError(domain.ErrCollaboratorUnavailable, "inbound guardrail", err)
	}
	if !verdict.Allowed {
		meta.Record(domain.MetaGuardrailBlocked, true)
		meta.Record(domain.MetaGuardrailReason, verdict.Reason)
		o.appendTurnPair(ctx, sessionID, query, verdict.Refusal)
		return &domain.PipelineResult{
			Answer:   verdict.Refusal,
			Blocked:  true,
			Metadata: meta.Flat(),
		}, nil
	}
	meta.Record(domain.MetaGuardrailBlocked, false)

	cleaned := verdict.CleanedQuery
	if cleaned == "" {
		cleaned = query
	}

	decision := o.router.Route(ctx, cleaned)
	meta.Record(domain.MetaRouter, string(decision))

	var answer string
	switch decision {
	case domain.RouteRAG:
		answer, err = o.answerWithRetrieval(ctx, cleaned, meta)
	default:
		answer, err = o.answerDirect(ctx, cleaned, sessionID)
		if err == nil {
			meta.Record(domain.MetaGenerationPerformed, true)
		}
	}
	if err != nil {
		// The RAG branch records its own failed stage; this covers the
		// direct branch and is a no-op otherwise.
		meta.Record(domain.MetaFailedStage, "generate")
		return resultWith(meta), err
	}

	safeAnswer, err := o.guardrail.ScreenOutbound(ctx, answer)
	if err != nil {
		meta.Record(domain.MetaFailedStage, "guardrail_out")
		return resultWith(meta), domain.WrapError(domain.ErrCollaboratorUnavailable, "outbound guardrail", err)
	}

	// Only freshly generated RAG answers are cached, after outbound
	// screening: the screened text is what later hits must return.
	if decision == domain.RouteRAG && meta.Flat()[domain.MetaCache] == domain.CacheMiss {
		if err := o.cache.Set(ctx, cleaned, safeAnswer, o.params.CacheTTL); err != nil {
			slog.Warn("answer_cache_set_failed", "error", err)
		}
	}

	o.appendTurnPair(ctx, sessionID, cleaned, safeAnswer)
	o.publishAudit(ctx, sessionID, cleaned, safeAnswer, meta)

	return &domain.PipelineResult{
		Answer:   safeAnswer,
		Metadata: meta.Flat(),
	}, nil
}

// answerWithRetrieval is the cache-aside RAG branch.
func (o *Orchestrator) answerWithRetrieval(ctx context.Context, query string, meta *domain.PipelineMetadata) (string, error) {
	cached, ok, err := o.cache.Get(ctx, query)
	if err != nil {
		// Availability over freshness: an unreachable cache is a miss.
		slog.Warn("answer_cache_get_failed", "error", err)
		ok = false
	}
	if ok {
		meta.Record(domain.MetaCache, domain.CacheHit)
		meta.Record(domain.MetaGenerationPerformed, false)
		return cached, nil
	}
	meta.Record(domain.MetaCache, domain.CacheMiss)

	retrieval, err := o.retriever.Retrieve(ctx, query, o.params.LexicalK, o.params.SemanticK)
	if err != nil {
		meta.Record(domain.MetaFailedStage, "retrieve")
		return "", err
	}
	meta.Record(domain.MetaLexicalRetrieved, retrieval.LexicalCount)
	meta.Record(domain.MetaSemanticRetrieved, retrieval.SemanticCount)
	meta.Record(domain.MetaFusedCandidates, len(retrieval.Chunks))

	ranked, err := o.reranker.Rerank(ctx, query, retrieval.Chunks, o.params.RerankTopK)
	if err != nil {
		meta.Record(domain.MetaFailedStage, "rerank")
		return "", err
	}
	meta.Record(domain.MetaReranked, len(ranked))

	contextText := BuildContext(ranked, o.params.MaxContextChunks)
	answer, err := o.generator.Generate(ctx, buildGroundedAnswerPrompt(contextText, query))
	if err != nil {
		meta.Record(domain.MetaFailedStage, "generate")
		return "", domain.WrapError(domain.ErrCollaboratorUnavailable, "generate answer", err)
	}
	meta.Record(domain.MetaGenerationPerformed, true)
	return answer, nil
}

// answerDirect answers without retrieval, giving the generator the session
// transcript as conversational context.
func (o *Orchestrator) answerDirect(ctx context.Context, query, sessionID string) (string, error) {
	history, err := o.sessions.History(ctx, sessionID)
	if err != nil {
		slog.Warn("session_history_failed", "session_id", sessionID, "error", err)
		history = nil
	}

	answer, err := o.generator.Generate(ctx, buildChatPrompt(history, query))
	if err != nil {
		return "", domain.WrapError(domain.ErrCollaboratorUnavailable, "generate direct answer", err)
	}
	return answer, nil
}

// appendTurnPair records exactly one user turn and one assistant turn, in
// that order. Store failures degrade to a no-op: memory loss hurts later
// context, not the current answer.
func (o *Orchestrator) appendTurnPair(ctx context.Context, sessionID, userText, assistantText string) {
	if err := o.sessions.Append(ctx, sessionID, domain.RoleUser, userText); err != nil {
		slog.Warn("session_append_failed", "session_id", sessionID, "role", domain.RoleUser, "error", err)
		return
	}
	if err := o.sessions.Append(ctx, sessionID, domain.RoleAssistant, assistantText); err != nil {
		slog.Warn("session_append_failed", "session_id", sessionID, "role", domain.RoleAssistant, "error", err)
	}
}

func (o *Orchestrator) publishAudit(ctx context.Context, sessionID, query, answer string, meta *domain.PipelineMetadata) {
	if o.audit == nil {
		return
	}
	record := domain.QueryAuditRecord{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Query:     query,
		Answer:    answer,
		Metadata:  meta.Flat(),
		CreatedAt: time.Now().UTC(),
	}
	if err := o.audit.PublishQueryAnswered(ctx, record); err != nil {
		slog.Warn("audit_publish_failed", "error", err)
	}
}

func resultWith(meta *domain.PipelineMetadata) *domain.PipelineResult {
	return &domain.PipelineResult{Metadata: meta.Flat()}
}
