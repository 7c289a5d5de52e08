// Package agents provides the domain system for the agent catalog: the
// primary assistant plus the specialist agents available for delegation.
package agents

import (
	"time"

	"github.com/google/uuid"
)

// PrimaryAssistant is the code of the coordinator agent. It is always
// present in the catalog and is never exposed as a delegation target.
const PrimaryAssistant = "Parlor_Assistant"

// Agent represents a catalog entry stored in the database. Code is the
// stable identifier used for delegation routing and message attribution.
type Agent struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	SystemPrompt string    `json:"system_prompt"`
	Icon         string    `json:"icon"`
	Tags         []string  `json:"tags"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsPrimary reports whether this agent is the coordinator.
func (a *Agent) IsPrimary() bool {
	return a.Code == PrimaryAssistant
}

// CreateCommand contains the data required to register a new agent.
type CreateCommand struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	SystemPrompt string   `json:"system_prompt"`
	Icon         string   `json:"icon"`
	Tags         []string `json:"tags"`
}

// UpdateCommand contains the data required to update an existing agent.
type UpdateCommand struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	SystemPrompt string   `json:"system_prompt"`
	Icon         string   `json:"icon"`
	Tags         []string `json:"tags"`
	Active       bool     `json:"active"`
}
