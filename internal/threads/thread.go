// Package threads provides the domain system for conversation threads
// and their append-only message history.
package threads

import (
	"time"

	"github.com/google/uuid"
)

// Defaults applied to newly created threads. A thread keeps the default
// title until the titler derives one from its history.
const (
	DefaultTitle = "New Chat"
	DefaultIcon  = "💬"
)

// Message roles recorded in thread history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Thread represents one conversation owned by a user. Aggregate counters
// are maintained in the same transaction as each append.
type Thread struct {
	ID                uuid.UUID `json:"id"`
	UserEmail         string    `json:"user_email"`
	Title             string    `json:"title"`
	Icon              string    `json:"icon"`
	Active            bool      `json:"active"`
	TotalMessages     int       `json:"total_messages"`
	TotalInputTokens  int64     `json:"total_input_tokens"`
	TotalOutputTokens int64     `json:"total_output_tokens"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Message is one entry in a thread's ordered history. Position is
// 1-based and dense within a thread. AgentCode attributes assistant
// messages to the agent that produced them.
type Message struct {
	ID           uuid.UUID `json:"id"`
	ThreadID     uuid.UUID `json:"thread_id"`
	Position     int       `json:"position"`
	Role         string    `json:"role"`
	AgentCode    string    `json:"agent_code"`
	Content      string    `json:"content"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	CreatedAt    time.Time `json:"created_at"`
}

// AppendCommand contains the data required to append one message.
type AppendCommand struct {
	Role         string `json:"role"`
	AgentCode    string `json:"agent_code"`
	Content      string `json:"content"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
}
