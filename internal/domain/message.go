package domain

import "time"

// Transcript roles. The system message is synthesized once at load time and
// is never persisted; user and assistant messages carry submission timestamps.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single transcript entry.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Stamped builds a message carrying the given submission time.
func Stamped(role, content string, at time.Time) Message {
	return Message{Role: role, Content: content, Timestamp: &at}
}

// ChatMessage is the provider-agnostic wire shape used by the relay client,
// the forwarder and the upstream integration: role and content only.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
