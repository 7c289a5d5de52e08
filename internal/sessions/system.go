package sessions

import (
	"context"

	"github.com/google/uuid"
)

// System defines the interface for session storage and retrieval operations.
type System interface {
	// Load returns the session for the given email, creating it on first
	// contact. Repeated calls for the same email return the same session.
	Load(ctx context.Context, userEmail string) (*Session, error)

	// Bindings lists every active specialist with its enabled state for
	// the session. The primary assistant is never listed.
	Bindings(ctx context.Context, sessionID uuid.UUID) ([]AgentBinding, error)

	// SetAgent enables or disables a specialist for the session.
	SetAgent(ctx context.Context, sessionID uuid.UUID, agentCode string, enabled bool) error

	// Usage returns monthly token rollups for the session's user, most
	// recent month first.
	Usage(ctx context.Context, userEmail string) ([]MonthlyUsage, error)
}
