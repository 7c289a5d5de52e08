package agents

import (
	"context"

	"github.com/google/uuid"
	"github.com/parlorlabs/parlor/pkg/pagination"
)

// System defines the interface for agent catalog operations.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Agent], error)
	Find(ctx context.Context, id uuid.UUID) (*Agent, error)
	Resolve(ctx context.Context, code string) (*Agent, error)
	Create(ctx context.Context, cmd CreateCommand) (*Agent, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Agent, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}
