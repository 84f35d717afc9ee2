package models

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single entry in a session transcript. The JSON shape
// doubles as the wire-independent serialization format used by the
// flat-key storage tier.
type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// IsSystem reports whether the message carries the system role.
func (m ChatMessage) IsSystem() bool {
	return m.Role == RoleSystem
}
