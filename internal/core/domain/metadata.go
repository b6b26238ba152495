package domain

// Metadata field keys. Each key is written at most once per request; together
// they are the audit trail of which pipeline path a request took.
const (
	MetaGuardrailBlocked    = "guardrail_blocked"
	MetaGuardrailReason     = "guardrail_reason"
	MetaRouter              = "router"
	MetaCache               = "cache"
	MetaLexicalRetrieved    = "lexical_retrieved"
	MetaSemanticRetrieved   = "semantic_retrieved"
	MetaFusedCandidates     = "fused_candidates"
	MetaReranked            = "reranked"
	MetaGenerationPerformed = "generation_performed"
	MetaFailedStage         = "failed_stage"
)

// Cache outcome values recorded under MetaCache.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// RouteDecision is the router's binary verdict.
type RouteDecision string

const (
	RouteDirect RouteDecision = "direct"
	RouteRAG    RouteDecision = "rag"
)

// PipelineMetadata accumulates per-request observations. Writes are
// first-wins so a recorded field can never be silently rewritten by a later
// stage.
type PipelineMetadata struct {
	fields map[string]any
}

func NewPipelineMetadata() *PipelineMetadata {
	return &PipelineMetadata{fields: make(map[string]any, 8)}
}

func (m *PipelineMetadata) Record(key string, value any) {
	if _, exists := m.fields[key]; exists {
		return
	}
	m.fields[key] = value
}

// Flat returns a copy suitable for serialization at the boundary.
func (m *PipelineMetadata) Flat() map[string]any {
	out := make(map[string]any, len(m.fields))
	for k, v := range m.fields {
		out[k] = v
	}
	return out
}
