package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/akozyrev/finreport-rag/internal/core/ports"
	"github.com/akozyrev/finreport-rag/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	answers ports.AnswerService
	metrics *metrics.PipelineMetrics
}

func NewRouter(answers ports.AnswerService, pipelineMetrics *metrics.PipelineMetrics) *Router {
	return &Router{
		answers: answers,
		metrics: pipelineMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/query", rt.query)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	return requestIDMiddleware(rt.accessLogMiddleware(mux))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) query(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Query     string `json:"query"`
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	result, err := rt.answers.Answer(r.Context(), req.Query, req.SessionID)
	if result != nil && rt.metrics != nil {
		rt.metrics.ObservePipeline(serviceName, result.Metadata)
	}
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		body := map[string]any{"error": err.Error()}
		if result != nil && len(result.Metadata) > 0 {
			body["metadata"] = result.Metadata
		}
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
