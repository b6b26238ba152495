package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
)

// PipelineMetrics exposes the per-request pipeline observations: which route
// was taken, whether the cache answered, how much was retrieved, and how
// often the guardrail blocked.
type PipelineMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	routeTotal          *prometheus.CounterVec
	cacheTotal          *prometheus.CounterVec
	guardrailBlockTotal *prometheus.CounterVec
	fusedCandidates     *prometheus.HistogramVec
	stageFailureTotal   *prometheus.CounterVec

	auditRecordsTotal *prometheus.CounterVec
}

func NewPipelineMetrics() *PipelineMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finrag",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "finrag",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	routeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finrag",
			Subsystem: "pipeline",
			Name:      "route_total",
			Help:      "Router decisions by outcome.",
		},
		[]string{"service", "decision"},
	)
	cacheTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finrag",
			Subsystem: "pipeline",
			Name:      "cache_total",
			Help:      "Answer cache lookups by outcome.",
		},
		[]string{"service", "outcome"},
	)
	guardrailBlockTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finrag",
			Subsystem: "pipeline",
			Name:      "guardrail_blocks_total",
			Help:      "Requests blocked by the inbound guardrail, by reason.",
		},
		[]string{"service", "reason"},
	)
	fusedCandidates := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "finrag",
			Subsystem: "pipeline",
			Name:      "fused_candidates",
			Help:      "Distribution of fused unique candidates per retrieval.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		},
		[]string{"service"},
	)
	stageFailureTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finrag",
			Subsystem: "pipeline",
			Name:      "stage_failures_total",
			Help:      "Pipeline failures by stage.",
		},
		[]string{"service", "stage"},
	)
	auditRecordsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finrag",
			Subsystem: "audit",
			Name:      "records_total",
			Help:      "Audit records processed by the worker, by status.",
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		routeTotal,
		cacheTotal,
		guardrailBlockTotal,
		fusedCandidates,
		stageFailureTotal,
		auditRecordsTotal,
	)

	return &PipelineMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		routeTotal:          routeTotal,
		cacheTotal:          cacheTotal,
		guardrailBlockTotal: guardrailBlockTotal,
		fusedCandidates:     fusedCandidates,
		stageFailureTotal:   stageFailureTotal,
		auditRecordsTotal:   auditRecordsTotal,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObservePipeline records one completed request from its metadata trail.
func (m *PipelineMetrics) ObservePipeline(service string, metadata map[string]any) {
	if blocked, ok := metadata[domain.MetaGuardrailBlocked].(bool); ok && blocked {
		reason, _ := metadata[domain.MetaGuardrailReason].(string)
		if reason == "" {
			reason = "unknown"
		}
		m.guardrailBlockTotal.WithLabelValues(service, reason).Inc()
		return
	}
	if decision, ok := metadata[domain.MetaRouter].(string); ok {
		m.routeTotal.WithLabelValues(service, decision).Inc()
	}
	if outcome, ok := metadata[domain.MetaCache].(string); ok {
		m.cacheTotal.WithLabelValues(service, outcome).Inc()
	}
	if fused, ok := metadata[domain.MetaFusedCandidates].(int); ok {
		m.fusedCandidates.WithLabelValues(service).Observe(float64(fused))
	}
	if stage, ok := metadata[domain.MetaFailedStage].(string); ok {
		m.stageFailureTotal.WithLabelValues(service, stage).Inc()
	}
}

func (m *PipelineMetrics) RecordAuditRecord(service, status string) {
	if status == "" {
		status = "unknown"
	}
	m.auditRecordsTotal.WithLabelValues(service, status).Inc()
}

// ObserveRequest records one served HTTP request. The adapter layer owns the
// response instrumentation and reports the final status here.
func (m *PipelineMetrics) ObserveRequest(service, method, path string, status int, duration time.Duration) {
	m.requestTotal.WithLabelValues(service, method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}
