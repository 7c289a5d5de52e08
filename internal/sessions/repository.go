package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/parlorlabs/parlor/internal/agents"
	"github.com/parlorlabs/parlor/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a new sessions repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "sessions"),
	}
}

func scanSession(s repository.Scanner) (Session, error) {
	var sess Session
	err := s.Scan(&sess.ID, &sess.UserEmail, &sess.CreatedAt, &sess.UpdatedAt)
	return sess, err
}

func scanBinding(s repository.Scanner) (AgentBinding, error) {
	var b AgentBinding
	err := s.Scan(&b.AgentID, &b.AgentCode, &b.AgentName, &b.Icon, &b.Active, &b.Enabled, &b.UpdatedAt)
	return b, err
}

func scanUsage(s repository.Scanner) (MonthlyUsage, error) {
	var u MonthlyUsage
	err := s.Scan(&u.Month, &u.Messages, &u.InputTokens, &u.OutputTokens)
	return u, err
}

func (r *repo) Load(ctx context.Context, userEmail string) (*Session, error) {
	if userEmail == "" {
		return nil, fmt.Errorf("%w: empty user email", ErrNotFound)
	}

	q := `
		INSERT INTO sessions (user_email)
		VALUES ($1)
		ON CONFLICT (user_email) DO UPDATE SET updated_at = NOW()
		RETURNING id, user_email, created_at, updated_at`

	sess, err := repository.QueryOne(ctx, r.db, q, []any{userEmail}, scanSession)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &sess, nil
}

func (r *repo) Bindings(ctx context.Context, sessionID uuid.UUID) ([]AgentBinding, error) {
	q := `
		SELECT a.id, a.code, a.name, a.icon, a.active,
			COALESCE(sa.enabled, FALSE),
			COALESCE(sa.updated_at, a.updated_at)
		FROM agents a
		LEFT JOIN session_agents sa
			ON sa.agent_id = a.id AND sa.session_id = $1
		WHERE a.active = TRUE AND a.code <> $2
		ORDER BY a.name`

	bindings, err := repository.QueryMany(ctx, r.db, q, []any{sessionID, agents.PrimaryAssistant}, scanBinding)
	if err != nil {
		return nil, fmt.Errorf("query bindings: %w", err)
	}
	return bindings, nil
}

func (r *repo) SetAgent(ctx context.Context, sessionID uuid.UUID, agentCode string, enabled bool) error {
	if agentCode == agents.PrimaryAssistant {
		return fmt.Errorf("%w: %s", ErrAgentUnknown, agentCode)
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var agentID uuid.UUID
		lookup := "SELECT id FROM agents WHERE code = $1 AND active = TRUE"
		if err := tx.QueryRowContext(ctx, lookup, agentCode).Scan(&agentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return struct{}{}, fmt.Errorf("%w: %s", ErrAgentUnknown, agentCode)
			}
			return struct{}{}, err
		}

		upsert := `
			INSERT INTO session_agents (session_id, agent_id, enabled)
			VALUES ($1, $2, $3)
			ON CONFLICT (session_id, agent_id)
			DO UPDATE SET enabled = $3, updated_at = NOW()`
		_, err := tx.ExecContext(ctx, upsert, sessionID, agentID, enabled)
		return struct{}{}, err
	})

	if err != nil {
		if errors.Is(err, ErrAgentUnknown) {
			return err
		}
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("agent binding updated", "session", sessionID, "agent", agentCode, "enabled", enabled)
	return nil
}

func (r *repo) Usage(ctx context.Context, userEmail string) ([]MonthlyUsage, error) {
	q := `
		SELECT date_trunc('month', m.created_at) AS month,
			COUNT(*),
			COALESCE(SUM(m.input_tokens), 0),
			COALESCE(SUM(m.output_tokens), 0)
		FROM thread_messages m
		JOIN threads t ON t.id = m.thread_id
		WHERE t.user_email = $1 AND m.role = 'assistant'
		GROUP BY month
		ORDER BY month DESC`

	usage, err := repository.QueryMany(ctx, r.db, q, []any{userEmail}, scanUsage)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	return usage, nil
}
