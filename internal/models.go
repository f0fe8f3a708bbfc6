package internal

import "time"

// Role identifies who authored a transcript message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents one entry in a session transcript. User content is
// immutable once created; assistant content grows while tokens stream in.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Source represents a citation attached to a completed assistant turn
type Source struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// SessionSummary describes one known session for listing
type SessionSummary struct {
	SessionID string    `json:"sessionId" yaml:"session_id"`
	Title     string    `json:"title,omitempty" yaml:"title,omitempty"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// SessionRecord bundles a session summary with its fetched transcript,
// used for display and export
type SessionRecord struct {
	SessionID string    `json:"sessionId" yaml:"session_id"`
	Title     string    `json:"title,omitempty" yaml:"title,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
	Messages  []Message `json:"messages" yaml:"messages"`
}

// CreateSessionResponse is the body of POST /api/session. The backend may
// include the current session list alongside the new id.
type CreateSessionResponse struct {
	SessionID string           `json:"sessionId"`
	Sessions  []SessionSummary `json:"sessions,omitempty"`
}

// ListSessionsResponse is the body of GET /api/session
type ListSessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

// HistoryResponse is the body of GET /api/session/{id}/history
type HistoryResponse struct {
	History []Message `json:"history"`
}

// ChatRequest is the body of POST /api/chat. ChannelID names the client's
// private push channel so the backend can stream tokens back to it.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	ChannelID string `json:"channelId"`
}

// ChatResponse is the body of POST /api/chat
type ChatResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources,omitempty"`
}
