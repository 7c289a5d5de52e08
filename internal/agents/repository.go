package agents

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/parlorlabs/parlor/pkg/pagination"
	"github.com/parlorlabs/parlor/pkg/query"
	"github.com/parlorlabs/parlor/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a new agents repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "agents"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Agent], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Code", "Name", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSql, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count agents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAgent)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Agent, error) {
	q, args := query.NewBuilder(projection, defaultSort).BuildSingle("Id", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAgent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Resolve(ctx context.Context, code string) (*Agent, error) {
	q, args := query.NewBuilder(projection, defaultSort).BuildSingle("Code", code)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAgent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Agent, error) {
	if err := validateCode(cmd.Code); err != nil {
		return nil, err
	}

	tags, err := encodeTags(cmd.Tags)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO agents (code, name, description, system_prompt, icon, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, code, name, description, system_prompt, icon, tags, active, created_at, updated_at`

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Agent, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			cmd.Code, cmd.Name, cmd.Description, cmd.SystemPrompt, cmd.Icon, tags,
		}, scanAgent)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("agent created", "id", a.ID, "code", a.Code)
	return &a, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Agent, error) {
	tags, err := encodeTags(cmd.Tags)
	if err != nil {
		return nil, err
	}

	q := `
		UPDATE agents
		SET name = $1, description = $2, system_prompt = $3, icon = $4, tags = $5, active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING id, code, name, description, system_prompt, icon, tags, active, created_at, updated_at`

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Agent, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			cmd.Name, cmd.Description, cmd.SystemPrompt, cmd.Icon, tags, cmd.Active, id,
		}, scanAgent)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("agent updated", "id", a.ID, "code", a.Code)
	return &a, nil
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx,
			"UPDATE agents SET active = FALSE, updated_at = NOW() WHERE id = $1", id)
		return struct{}{}, err
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("agent deactivated", "id", id)
	return nil
}

func validateCode(code string) error {
	if code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalid)
	}
	if strings.ContainsAny(code, " \t\n") {
		return fmt.Errorf("%w: code must not contain whitespace", ErrInvalid)
	}
	return nil
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("%w: tags: %v", ErrInvalid, err)
	}
	return encoded, nil
}
