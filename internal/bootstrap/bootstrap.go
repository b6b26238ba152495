package bootstrap

import (
	"context"
	"fmt"

	"github.com/akozyrev/finreport-rag/internal/config"
	"github.com/akozyrev/finreport-rag/internal/core/ports"
	"github.com/akozyrev/finreport-rag/internal/core/usecase"
	"github.com/akozyrev/finreport-rag/internal/infrastructure/guardrail"
	"github.com/akozyrev/finreport-rag/internal/infrastructure/llm/ollama"
	"github.com/akozyrev/finreport-rag/internal/infrastructure/queue/nats"
	"github.com/akozyrev/finreport-rag/internal/infrastructure/redisstore"
	"github.com/akozyrev/finreport-rag/internal/infrastructure/repository/postgres"
	"github.com/akozyrev/finreport-rag/internal/infrastructure/rerank/crossencoder"
	"github.com/akozyrev/finreport-rag/internal/infrastructure/resilience"
	"github.com/akozyrev/finreport-rag/internal/infrastructure/search/opensearch"
	"github.com/akozyrev/finreport-rag/internal/infrastructure/vector/qdrant"
	"github.com/akozyrev/finreport-rag/internal/observability/metrics"
)

// API holds the wired dependency graph of the query-serving process.
type API struct {
	Config  config.Config
	Answers ports.AnswerService
	Metrics *metrics.PipelineMetrics

	closeFn func()
}

func NewAPI(ctx context.Context, cfg config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	redisClient, err := redisstore.Open(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("open redis: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{})
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("init audit queue: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
	generator := ollama.NewGenerator(ollamaClient)
	embedder := ollama.NewEmbedder(ollamaClient)

	lexical := opensearch.New(cfg.OpenSearchURL, cfg.OpenSearchIndex, executor)
	semantic := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection, executor)
	scorer := crossencoder.New(cfg.RerankerURL, executor)
	screen := guardrail.New(cfg.GuardrailURL, executor)

	cache := redisstore.NewAnswerCache(redisClient)
	sessions := redisstore.NewSessionStore(redisClient, cfg.SessionTTL)

	orchestrator := usecase.NewOrchestrator(
		screen,
		usecase.NewRouter(generator),
		usecase.NewHybridRetriever(embedder, lexical, semantic),
		usecase.NewRerankGate(scorer),
		generator,
		cache,
		sessions,
		queue,
		usecase.PipelineParams{
			LexicalK:         cfg.LexicalK,
			SemanticK:        cfg.SemanticK,
			RerankTopK:       cfg.RerankTopK,
			MaxContextChunks: cfg.MaxContextChunks,
			CacheTTL:         cfg.CacheTTL,
		},
	)

	return &API{
		Config:  cfg,
		Answers: orchestrator,
		Metrics: metrics.NewPipelineMetrics(),

		closeFn: func() {
			queue.Close()
			_ = redisClient.Close()
		},
	}, nil
}

func (a *API) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// Worker holds the wired dependency graph of the audit-log process.
type Worker struct {
	Config  config.Config
	Queue   *nats.Queue
	Audit   ports.AuditStore
	Metrics *metrics.PipelineMetrics

	closeFn func()
}

func NewWorker(ctx context.Context, cfg config.Config) (*Worker, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewAuditRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init audit queue: %w", err)
	}

	return &Worker{
		Config:  cfg,
		Queue:   queue,
		Audit:   repo,
		Metrics: metrics.NewPipelineMetrics(),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (w *Worker) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}
