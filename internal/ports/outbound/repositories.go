package outbound

import (
	"context"

	"lostfound-bulletin-service/internal/domain/item"
	"lostfound-bulletin-service/internal/domain/shared"

	"github.com/google/uuid"
)

// ItemRepository defines the interface for item data operations.
// Items are append-only; no update or delete is exposed.
type ItemRepository interface {
	// Create persists a new item
	Create(ctx context.Context, item *item.Item) error

	// GetByID retrieves an item by ID
	GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error)

	// List retrieves the full result set visible under the given filter,
	// ordered by created_at descending
	List(ctx context.Context, filter item.Filter) ([]*item.Item, error)

	// ListByOwner retrieves all items posted by a user, newest first
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*item.Item, error)
}

// UserRepository defines the interface for user account data operations
type UserRepository interface {
	// Create creates a new user account
	Create(ctx context.Context, user *shared.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error)

	// GetByEmail retrieves a user by email address
	GetByEmail(ctx context.Context, email string) (*shared.User, error)
}
