package dto

import (
	"github.com/google/uuid"

	"ai-docchat-be/pkg/rag/envelope"
)

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	DocIds   []uuid.UUID   `json:"doc_ids"`
	ForceWeb bool          `json:"force_web"`
}

type ChatResponse struct {
	Answer    string              `json:"answer"`
	Citations []envelope.Citation `json:"citations"`
	Sources   envelope.Sources    `json:"sources"`
}

// Stream frame types for the websocket chat endpoint. Token frames arrive in
// generation order; the envelope frame is always the terminal frame.
const (
	StreamFrameToken    = "token"
	StreamFrameEnvelope = "envelope"
	StreamFrameError    = "error"
)

type ChatStreamFrame struct {
	Type     string             `json:"type"`
	Token    string             `json:"token,omitempty"`
	Envelope *envelope.Envelope `json:"envelope,omitempty"`
	Message  string             `json:"message,omitempty"`
}
