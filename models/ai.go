package models

// Conversation roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a provider-agnostic conversation turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AIRequest is the payload of POST /api/assistant.
type AIRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

// AIResponse is what the assistant endpoint returns.
type AIResponse struct {
	Content        string       `json:"content"`
	ConversationID string       `json:"conversationId"`
	Booking        *Appointment `json:"booking,omitempty"` // set when the turn created an appointment
}
