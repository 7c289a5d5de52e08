package threads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/parlorlabs/parlor/pkg/pagination"
	"github.com/parlorlabs/parlor/pkg/query"
	"github.com/parlorlabs/parlor/pkg/repository"
)

const messageColumns = "id, thread_id, position, role, agent_code, content, input_tokens, output_tokens, created_at"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a new threads repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "threads"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, userEmail string, page pagination.PageRequest) (*pagination.PageResult[Thread], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserEmail", userEmail).
		WhereEquals("Active", true).
		WhereSearch(page.Search, "Title")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSql, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count threads: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanThread)
	if err != nil {
		return nil, fmt.Errorf("query threads: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID, userEmail string) (*Thread, error) {
	q := `
		SELECT id, user_email, title, icon, active, total_messages,
			total_input_tokens, total_output_tokens, created_at, updated_at
		FROM threads
		WHERE id = $1 AND user_email = $2 AND active = TRUE`

	t, err := repository.QueryOne(ctx, r.db, q, []any{id, userEmail}, scanThread)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (r *repo) Create(ctx context.Context, userEmail string) (*Thread, error) {
	q := `
		INSERT INTO threads (user_email, title, icon)
		VALUES ($1, $2, $3)
		RETURNING id, user_email, title, icon, active, total_messages,
			total_input_tokens, total_output_tokens, created_at, updated_at`

	t, err := repository.QueryOne(ctx, r.db, q, []any{userEmail, DefaultTitle, DefaultIcon}, scanThread)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("thread created", "id", t.ID, "user", userEmail)
	return &t, nil
}

func (r *repo) Resolve(ctx context.Context, userEmail string, preferred *uuid.UUID) (*Thread, error) {
	if preferred != nil {
		t, err := r.Find(ctx, *preferred, userEmail)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	q := `
		SELECT id, user_email, title, icon, active, total_messages,
			total_input_tokens, total_output_tokens, created_at, updated_at
		FROM threads
		WHERE user_email = $1 AND active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1`

	t, err := repository.QueryOne(ctx, r.db, q, []any{userEmail}, scanThread)
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resolve thread: %w", err)
	}

	return r.Create(ctx, userEmail)
}

func (r *repo) Messages(ctx context.Context, threadID uuid.UUID, userEmail string) ([]Message, error) {
	if _, err := r.Find(ctx, threadID, userEmail); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		SELECT %s
		FROM thread_messages
		WHERE thread_id = $1
		ORDER BY position`, messageColumns)

	messages, err := repository.QueryMany(ctx, r.db, q, []any{threadID}, scanMessage)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	return messages, nil
}

func (r *repo) Append(ctx context.Context, threadID uuid.UUID, cmd AppendCommand) (*Message, error) {
	if cmd.Role != RoleUser && cmd.Role != RoleAssistant {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, cmd.Role)
	}

	// The aggregate update locks the thread row for the rest of the
	// transaction, so the returned counter is a safe dense position.
	m, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Message, error) {
		bump := `
			UPDATE threads
			SET total_messages = total_messages + 1,
				total_input_tokens = total_input_tokens + $2,
				total_output_tokens = total_output_tokens + $3,
				updated_at = NOW()
			WHERE id = $1 AND active = TRUE
			RETURNING total_messages`

		var position int
		if err := tx.QueryRowContext(ctx, bump, threadID, cmd.InputTokens, cmd.OutputTokens).Scan(&position); err != nil {
			return Message{}, err
		}

		insert := fmt.Sprintf(`
			INSERT INTO thread_messages (thread_id, position, role, agent_code, content, input_tokens, output_tokens)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING %s`, messageColumns)

		return repository.QueryOne(ctx, tx, insert, []any{
			threadID, position, cmd.Role, cmd.AgentCode, cmd.Content, cmd.InputTokens, cmd.OutputTokens,
		}, scanMessage)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &m, nil
}

func (r *repo) SetTitle(ctx context.Context, threadID uuid.UUID, title string) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx,
			"UPDATE threads SET title = $1, updated_at = NOW() WHERE id = $2", title, threadID)
		return struct{}{}, err
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID, userEmail string) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx,
			"UPDATE threads SET active = FALSE, updated_at = NOW() WHERE id = $1 AND user_email = $2",
			id, userEmail)
		return struct{}{}, err
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("thread deactivated", "id", id, "user", userEmail)
	return nil
}
