package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_ANSWERED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic Event implementation used across the app.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// ChatAnsweredType is published after every completed chat orchestration.
const ChatAnsweredType = "CHAT_ANSWERED"

// NewChatAnswered builds the analytics event for one answered chat turn.
func NewChatAnswered(query, sourceType string, sourceCount, tokenCount int, durationMs int64) BaseEvent {
	return BaseEvent{
		Type: ChatAnsweredType,
		Data: map[string]interface{}{
			"query":        query,
			"source_type":  sourceType,
			"source_count": sourceCount,
			"token_count":  tokenCount,
			"duration_ms":  durationMs,
		},
		OccurredAt: time.Now(),
	}
}
