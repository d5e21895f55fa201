package model

// Roles used in a conversation message sequence.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single conversation turn. History is supplied by the caller and
// never mutated or persisted server-side.
type Message struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// BookRecord is one persisted corpus entry, keyed by exact title match.
type BookRecord struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Summary string `json:"summary"`
}

// BookCandidate is one retrieval result, in nearest-first index order.
type BookCandidate struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Summary string `json:"summary"`
}
