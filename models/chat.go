package models

import "time"

type ChatRequest struct {
	UserID      int64  `json:"user_id"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message" binding:"required"`
	SessionID   string `json:"session_id"`
}

type ChatResponse struct {
	Response   string         `json:"response"`
	AgentsUsed []string       `json:"agents_used"`
	Data       map[string]any `json:"data,omitempty"`
	UIActions  []UIAction     `json:"ui_actions,omitempty"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
}

// UIAction tells the frontend to refresh a view after an agent mutated data.
type UIAction struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

type Conversation struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	SessionID  string    `json:"session_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

type ChatMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// Stream event types sent over the SSE channel while a chat job runs.
const (
	StreamEventAgentStart = "agent_start"
	StreamEventAgentDone  = "agent_done"
	StreamEventResponse   = "response"
	StreamEventError      = "error"
)

type StreamEvent struct {
	SessionID string   `json:"session_id"`
	Type      string   `json:"type"`
	Agent     string   `json:"agent,omitempty"`
	Message   string   `json:"message,omitempty"`
	Agents    []string `json:"agents_used,omitempty"`
	Last      bool     `json:"last_message"`
}
