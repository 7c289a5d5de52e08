// Package sessions provides the domain system for per-user state: the
// session record, which specialists a user has enabled for delegation,
// and monthly token usage rollups.
package sessions

import (
	"time"

	"github.com/google/uuid"
)

// Session represents a user's persistent session, keyed by email.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserEmail string    `json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AgentBinding describes one specialist's availability for a session.
type AgentBinding struct {
	AgentID   uuid.UUID `json:"agent_id"`
	AgentCode string    `json:"agent_code"`
	AgentName string    `json:"agent_name"`
	Icon      string    `json:"icon"`
	Active    bool      `json:"active"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MonthlyUsage aggregates token consumption for one calendar month.
type MonthlyUsage struct {
	Month        time.Time `json:"month"`
	Messages     int       `json:"messages"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
}
