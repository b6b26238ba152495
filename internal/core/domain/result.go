package domain

// GuardrailVerdict is the inbound screening outcome. When blocked, Refusal
// carries the message returned to the user in place of an answer.
type GuardrailVerdict struct {
	Allowed      bool
	Reason       string
	Refusal      string
	CleanedQuery string
}

// PipelineResult is what one request produces: the final answer text (or
// refusal) plus the flat metadata audit trail.
type PipelineResult struct {
	Answer   string         `json:"answer"`
	Blocked  bool           `json:"blocked"`
	Metadata map[string]any `json:"metadata"`
}
