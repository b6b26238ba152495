package domain

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a session transcript. Sessions are append-only and
// expire at the store level; the pipeline never deletes them.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
