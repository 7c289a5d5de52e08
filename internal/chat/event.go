// Package chat implements the streaming dispatch engine: one inbound
// message drives a coordinator run whose steps are persisted and pushed
// to the client as an ordered event stream with a single terminal event.
package chat

import (
	"encoding/json"
	"time"
)

// EventType discriminates wire events.
type EventType string

const (
	// EventMessage carries one agent-attributed answer step.
	EventMessage EventType = "message"

	// EventStreamEnd terminates every stream exactly once.
	EventStreamEnd EventType = "stream_end"
)

// Event is one frame on the server-push stream. CreatedDate is the
// request-start timestamp and is identical across all events of one
// response.
type Event struct {
	Type        EventType `json:"type"`
	AgentCode   string    `json:"agent_code"`
	Content     string    `json:"content"`
	Tokens      int64     `json:"tokens"`
	CreatedDate string    `json:"created_date"`
}

// MarshalJSON reduces the terminal frame to its type tag. Message frames
// carry every field, zero values included.
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Type == EventStreamEnd {
		return json.Marshal(map[string]EventType{"type": e.Type})
	}
	type frame Event
	return json.Marshal(frame(e))
}

func messageEvent(agentCode, content string, tokens int64, createdDate time.Time) Event {
	return Event{
		Type:        EventMessage,
		AgentCode:   agentCode,
		Content:     content,
		Tokens:      tokens,
		CreatedDate: createdDate.UTC().Format(time.RFC3339),
	}
}

func streamEndEvent() Event {
	return Event{Type: EventStreamEnd}
}
