package sessions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parlorlabs/parlor/internal/agents"
	"github.com/parlorlabs/parlor/internal/delegation"
	"github.com/parlorlabs/parlor/internal/llm"
)

// Assembly is the per-request delegation setup for one user: the
// coordinator's instructions plus the toolset built from the user's
// enabled specialists.
type Assembly struct {
	Session      *Session
	Instructions string
	Tools        []delegation.Tool
}

// Assembler builds a fresh Assembly for each inbound message so binding
// changes take effect immediately.
type Assembler struct {
	sessions  System
	agents    agents.System
	completer llm.Completer
	logger    *slog.Logger
}

// NewAssembler creates an assembler over the session and agent systems.
func NewAssembler(sessions System, agentSys agents.System, completer llm.Completer, logger *slog.Logger) *Assembler {
	return &Assembler{
		sessions:  sessions,
		agents:    agentSys,
		completer: completer,
		logger:    logger.With("system", "assembler"),
	}
}

// Assemble resolves the user's session and builds the coordinator setup.
// Bindings that cannot be resolved are skipped with a warning so one bad
// catalog entry does not take down dispatch. The primary assistant is
// never exposed as a tool.
func (a *Assembler) Assemble(ctx context.Context, userEmail string) (*Assembly, error) {
	sess, err := a.sessions.Load(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	primary, err := a.agents.Resolve(ctx, agents.PrimaryAssistant)
	if err != nil {
		return nil, fmt.Errorf("resolve primary assistant: %w", err)
	}

	bindings, err := a.sessions.Bindings(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("list bindings: %w", err)
	}

	var tools []delegation.Tool
	for _, b := range bindings {
		if !b.Enabled {
			continue
		}
		if b.AgentCode == agents.PrimaryAssistant {
			continue
		}

		agent, err := a.agents.Resolve(ctx, b.AgentCode)
		if err != nil {
			a.logger.Warn("skipping unresolvable binding", "agent", b.AgentCode, "error", err)
			continue
		}
		if !agent.Active || agent.SystemPrompt == "" {
			a.logger.Warn("skipping unusable binding", "agent", b.AgentCode, "active", agent.Active)
			continue
		}

		specialist := delegation.NewSpecialist(
			a.completer,
			agent.Code,
			agent.Name,
			agent.Description,
			agent.SystemPrompt,
		)
		tools = append(tools, delegation.NewAgentTool(specialist))
	}

	return &Assembly{
		Session:      sess,
		Instructions: primary.SystemPrompt,
		Tools:        tools,
	}, nil
}
