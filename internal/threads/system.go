package threads

import (
	"context"

	"github.com/google/uuid"
	"github.com/parlorlabs/parlor/pkg/pagination"
)

// System defines the interface for thread storage and retrieval
// operations. All lookups are scoped to the owning user's email.
type System interface {
	List(ctx context.Context, userEmail string, page pagination.PageRequest) (*pagination.PageResult[Thread], error)
	Find(ctx context.Context, id uuid.UUID, userEmail string) (*Thread, error)
	Create(ctx context.Context, userEmail string) (*Thread, error)

	// Resolve returns the thread dispatch should target: the preferred
	// thread when it exists and is active, otherwise the most recently
	// updated active thread, otherwise a fresh one.
	Resolve(ctx context.Context, userEmail string, preferred *uuid.UUID) (*Thread, error)

	Messages(ctx context.Context, threadID uuid.UUID, userEmail string) ([]Message, error)

	// Append adds one message and updates the thread's aggregates in a
	// single transaction. Concurrent appends to the same thread are
	// serialized by the thread row so positions stay dense.
	Append(ctx context.Context, threadID uuid.UUID, cmd AppendCommand) (*Message, error)

	SetTitle(ctx context.Context, threadID uuid.UUID, title string) error
	Deactivate(ctx context.Context, id uuid.UUID, userEmail string) error
}
