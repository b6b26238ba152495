package domain

import "time"

// QueryAuditRecord is the durable trace of one answered request, published to
// the audit queue and persisted by the worker.
type QueryAuditRecord struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Query     string         `json:"query"`
	Answer    string         `json:"answer"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}
